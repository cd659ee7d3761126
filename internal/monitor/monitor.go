package monitor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"ptbench/pkg/models"
)

// samplerTools lists the candidate utilization samplers per vendor;
// the first one present on PATH wins.
var samplerTools = map[models.Vendor][][]string{
	models.VendorNVIDIA: {
		{"nvidia-smi", "dmon", "-s", "u"},
		{"nvidia-smi", "--query-gpu=utilization.gpu,utilization.enc,utilization.dec,memory.used", "--format=csv", "-l", "1"},
	},
	models.VendorAMD: {
		{"radeontop", "-d", "-"},
	},
	models.VendorIntel: {
		{"intel_gpu_top", "-l"},
	},
}

// Monitor launches best-effort utilization samplers alongside trials.
// Nothing here may ever fail a trial; every error is swallowed after a
// debug log line.
type Monitor struct {
	// injectable for tests
	lookPath    func(file string) (string, error)
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd

	// SampleInterval paces the CPU/RAM fallback sampler.
	SampleInterval time.Duration
}

func New() *Monitor {
	return &Monitor{
		lookPath:       exec.LookPath,
		execCommand:    exec.CommandContext,
		SampleInterval: time.Second,
	}
}

// Session is the scoped resource for one trial's sampler. Acquired right
// before the trial starts, released (synchronously) right after it ends.
type Session struct {
	cmd     *exec.Cmd
	logFile *os.File
	cancel  context.CancelFunc
	done    chan struct{}
}

// Start launches a sampler writing to logPath. When no vendor tool is
// installed it degrades to a gopsutil CPU/RAM sampler, and when even the
// log file cannot be created it degrades to a no-op; it never fails.
func (m *Monitor) Start(ctx context.Context, vendor models.Vendor, logPath string) *Session {
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Debug().Err(err).Str("path", logPath).Msg("monitor log unavailable, sidecar disabled for this trial")
		return &Session{}
	}

	s := &Session{logFile: logFile}

	for _, candidate := range samplerTools[vendor] {
		if _, err := m.lookPath(candidate[0]); err != nil {
			continue
		}
		cmd := m.execCommand(ctx, candidate[0], candidate[1:]...)
		cmd.Stdout = logFile
		cmd.Stderr = logFile
		if err := cmd.Start(); err != nil {
			log.Debug().Err(err).Str("tool", candidate[0]).Msg("monitor tool failed to start")
			continue
		}
		log.Debug().Str("tool", candidate[0]).Msg("monitor sidecar started")
		s.cmd = cmd
		return s
	}

	// No vendor tool installed: sample CPU/RAM so the monitor log still
	// tells us whether the "hardware" trial was secretly burning CPU.
	samplerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go m.sampleLoop(samplerCtx, logFile, s.done)
	return s
}

// sampleLoop writes one CPU/RAM line per interval until cancelled.
func (m *Monitor) sampleLoop(ctx context.Context, logFile *os.File, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := m.sample(ctx)
			fmt.Fprintf(logFile, "%s cpu=%.1f%% ram=%.1f%%\n",
				time.Now().Format(time.TimeOnly), stats.CPUPercent, stats.RAMPercent)
		}
	}
}

func (m *Monitor) sample(ctx context.Context) models.HardwareStats {
	var stats models.HardwareStats
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.RAMPercent = v.UsedPercent
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		stats.CPUPercent = pct[0]
	}
	return stats
}

// Stop terminates the sampler and waits for it to be fully gone, so the
// next trial cannot race a dangling writer on its monitor log. Errors
// are swallowed: monitoring must never fail a trial.
func (s *Session) Stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
