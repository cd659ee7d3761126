package bench

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"ptbench/pkg/models"
)

// Runner executes trials against the external transcoder. Success is
// decided by the process exit code alone; the captured log is opaque
// except for the display-only hardware-token scan.
type Runner struct {
	FFmpegPath string
	WorkDir    string

	// execCommand allows injection of command execution for testing
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(ffmpegPath, workDir string) *Runner {
	return &Runner{
		FFmpegPath:  ffmpegPath,
		WorkDir:     workDir,
		execCommand: exec.CommandContext,
	}
}

// Run executes one trial. QSV trials that exit nonzero are retried once
// as VAAPI when the prober saw a VAAPI encoder; the fallback result
// replaces the original only if the fallback itself succeeded.
func (r *Runner) Run(ctx context.Context, b models.Backend, spec TrialSpec, input string) models.TrialResult {
	res := r.runOnce(ctx, b, spec, input, spec.LogName, spec.OutputName)

	if !res.Success && b.Encoder == "h264_qsv" && b.AltVAAPI {
		log.Warn().Str("trial", spec.Name).Msg("QSV invocation failed, retrying with VAAPI")

		fbLog := fallbackName(spec.LogName)
		fbOut := fallbackName(spec.OutputName)
		fb := r.runOnce(ctx, vaapiVariant(b), spec, input, fbLog, fbOut)
		if fb.Success {
			fb.UsedFallback = true
			return fb
		}

		log.Warn().Str("trial", spec.Name).Msg("VAAPI fallback failed as well, original QSV failure stands")
		res.FallbackFailed = true
	}

	return res
}

func (r *Runner) runOnce(ctx context.Context, b models.Backend, spec TrialSpec, input, logName, outputName string) models.TrialResult {
	res := models.TrialResult{
		Name:       spec.Name,
		Kind:       spec.Kind,
		LogPath:    filepath.Join(r.WorkDir, logName),
		OutputPath: filepath.Join(r.WorkDir, outputName),
	}

	logFile, err := os.Create(res.LogPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer logFile.Close()

	args := BuildArgs(b, spec.Kind, input, res.OutputPath)
	log.Info().Str("trial", spec.Name).Strs("args", args).Msg("starting trial")

	cmd := r.execCommand(ctx, r.FFmpegPath, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	// Wall clock around the external process; no timeout on purpose. A
	// hung transcoder hangs the benchmark, which is a known limitation.
	start := time.Now()
	err = cmd.Run()
	res.Elapsed = time.Since(start)

	if err != nil {
		res.Error = err.Error()
		log.Warn().Str("trial", spec.Name).Dur("elapsed", res.Elapsed).Err(err).Msg("trial failed")
	} else {
		res.Success = true
		log.Info().Str("trial", spec.Name).Dur("elapsed", res.Elapsed).Msg("trial passed")
	}

	res.HWConfirmed = logMentionsHardware(res.LogPath, b)
	return res
}

func fallbackName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_vaapi_fallback" + ext
}

// logMentionsHardware scans the captured log for backend tokens. Purely
// informational; pass/fail comes from the exit code only.
func logMentionsHardware(logPath string, b models.Backend) bool {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return false
	}
	text := strings.ToLower(string(data))

	var tokens []string
	switch b.Vendor {
	case models.VendorNVIDIA:
		tokens = []string{"nvenc", "cuda", "cuvid"}
	case models.VendorAMD:
		tokens = []string{"amf"}
	case models.VendorIntel:
		tokens = []string{"vaapi", "qsv"}
	}
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}
