package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"ptbench/internal/assets"
	"ptbench/internal/config"
	"ptbench/internal/monitor"
	"ptbench/internal/probe"
	"ptbench/pkg/models"
)

// ErrToolNotFound means the external transcoder binary is missing. This
// aborts the whole run; nothing can be measured without it.
var ErrToolNotFound = errors.New("ffmpeg binary not found")

// Run executes the whole benchmark: probe once, resolve the input once,
// then the four trials in sequence, then the report. Trials never run in
// parallel since they contend for the same GPU.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ffmpegPath, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("%w: %v (install ffmpeg or set ffmpeg_path)", ErrToolNotFound, err)
	}

	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return fmt.Errorf("failed to create work dir %s: %w", cfg.WorkDir, err)
	}

	prober := probe.NewProber(ffmpegPath, cfg.SysfsDRMPath, cfg.DRIDevPath)
	prober.CapsDumpPath = filepath.Join(cfg.WorkDir, "encoders.txt")

	backend, err := prober.Probe(ctx)
	if err != nil {
		if errors.Is(err, probe.ErrNoAcceleration) {
			log.Error().Msg("no acceleration backend found; check GPU passthrough (lspci, /dev/dri permissions) and guest drivers (nvidia-smi, vainfo)")
		}
		return err
	}
	log.Info().
		Str("vendor", string(backend.Vendor)).
		Str("encoder", backend.Encoder).
		Bool("confirmed", backend.Confirmed).
		Msg("selected acceleration backend")

	resolver := assets.NewResolver(ffmpegPath, cfg.WorkDir)
	input, err := resolver.Resolve(ctx, cfg.DurationSeconds, cfg.Resolution)
	if err != nil {
		return err
	}
	log.Info().Str("input", input).Msg("benchmark input ready")

	runner := NewRunner(ffmpegPath, cfg.WorkDir)
	mon := monitor.New()

	var results []models.TrialResult
	for _, spec := range Trials(backend) {
		var session *monitor.Session
		monitorLog := filepath.Join(cfg.WorkDir, spec.MonitorLogName)
		if cfg.EnableMonitor {
			session = mon.Start(ctx, backend.Vendor, monitorLog)
		}

		res := runner.Run(ctx, backend, spec, input)

		// Stop is synchronous: the sampler must be gone before the next
		// trial reuses or rotates monitor logs.
		if session != nil {
			session.Stop()
			res.MonitorLogPath = monitorLog
		}

		results = append(results, res)
	}

	Aggregate(backend, results).Render(out)
	return nil
}
