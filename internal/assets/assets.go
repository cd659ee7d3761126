package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrGenerationFailed means the synthetic benchmark clip could not be
// produced. Fatal: there is nothing to benchmark without an input.
var ErrGenerationFailed = errors.New("benchmark input generation failed")

// knownInputs are probed in priority order; the highest-bitrate sample
// present in the working directory wins.
var knownInputs = []string{
	"jellyfish-120-mbps-4k-uhd-h264.mkv",
	"jellyfish-80-mbps-hd-h264.mkv",
	"jellyfish-40-mbps-hd-h264.mkv",
	"bbb_sunflower_2160p_60fps_normal.mp4",
	"bbb_sunflower_1080p_60fps_normal.mp4",
	"jellyfish-20-mbps-hd-h264.mkv",
	"jellyfish-10-mbps-hd-h264.mkv",
	generatedInputName,
}

const generatedInputName = "input.mp4"

// Resolver locates or synthesizes the benchmark input clip.
type Resolver struct {
	FFmpegPath string
	WorkDir    string

	// execCommand allows injection of command execution for testing
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewResolver(ffmpegPath, workDir string) *Resolver {
	return &Resolver{
		FFmpegPath:  ffmpegPath,
		WorkDir:     workDir,
		execCommand: exec.CommandContext,
	}
}

// Resolve returns the path of the input clip, generating a test-pattern
// clip of the given duration/resolution when no sample is present.
func (r *Resolver) Resolve(ctx context.Context, durationSeconds int, resolution string) (string, error) {
	for _, name := range knownInputs {
		path := filepath.Join(r.WorkDir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			log.Debug().Str("input", path).Msg("reusing existing benchmark input")
			return path, nil
		}
	}

	return r.generate(ctx, durationSeconds, resolution)
}

// generate synthesizes a high-bitrate clip from a test pattern plus an
// audio tone, so the decode trials have both streams to chew on.
func (r *Resolver) generate(ctx context.Context, durationSeconds int, resolution string) (string, error) {
	out := filepath.Join(r.WorkDir, generatedInputName)
	log.Info().Int("duration_s", durationSeconds).Str("resolution", resolution).Msg("generating benchmark input clip")

	args := []string{
		"-y", "-hide_banner",
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc2=duration=%d:size=%s:rate=30", durationSeconds, resolution),
		"-f", "lavfi", "-i", fmt.Sprintf("sine=frequency=1000:duration=%d", durationSeconds),
		"-c:v", "libx264", "-preset", "veryfast", "-b:v", "40M", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "128k",
		"-shortest",
		out,
	}

	cmd := r.execCommand(ctx, r.FFmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Error().Err(err).Bytes("output", output).Msg("input generation failed")
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return out, nil
}
