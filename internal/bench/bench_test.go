package bench

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"ptbench/internal/config"
	"ptbench/internal/probe"
)

func TestRunFailsFastWithoutTranscoder(t *testing.T) {
	cfg := &config.Config{
		WorkDir:    t.TempDir(),
		FFmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
	}

	err := Run(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRunFailsWithoutBackend(t *testing.T) {
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		t.Skip("host has NVIDIA tooling; probe would legitimately succeed")
	}

	// A bare sysfs tree and an empty dev dir leave nothing to probe.
	// Uses /bin/true as a stand-in transcoder so LookPath succeeds and
	// the encoder listing comes back empty.
	cfg := &config.Config{
		WorkDir:      t.TempDir(),
		FFmpegPath:   "true",
		SysfsDRMPath: t.TempDir(),
		DRIDevPath:   t.TempDir(),
	}

	err := Run(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, probe.ErrNoAcceleration)
}
