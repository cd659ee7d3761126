package monitor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptbench/pkg/models"
)

func TestStartWithoutToolsFallsBackToSampler(t *testing.T) {
	m := New()
	m.SampleInterval = 10 * time.Millisecond
	m.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	logPath := filepath.Join(t.TempDir(), "monitor.log")
	s := m.Start(context.Background(), models.VendorNVIDIA, logPath)
	require.NotNil(t, s)

	time.Sleep(60 * time.Millisecond)
	s.Stop()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cpu=")
}

func TestStopTerminatesVendorTool(t *testing.T) {
	m := New()
	m.lookPath = func(string) (string, error) { return "/usr/bin/nvidia-smi", nil }
	m.execCommand = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		// Stand-in for a long-running sampler.
		return exec.CommandContext(ctx, "sleep", "60")
	}

	logPath := filepath.Join(t.TempDir(), "monitor.log")
	s := m.Start(context.Background(), models.VendorNVIDIA, logPath)
	require.NotNil(t, s.cmd)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not terminate the sidecar")
	}
}

func TestStartWithUnwritableLogIsNoop(t *testing.T) {
	m := New()
	s := m.Start(context.Background(), models.VendorAMD, filepath.Join(t.TempDir(), "missing", "monitor.log"))
	require.NotNil(t, s)

	// Must not panic or block; monitoring failure never fails a trial.
	s.Stop()
}

func TestStopIsIdempotentEnoughForDoubleCall(t *testing.T) {
	m := New()
	m.SampleInterval = 10 * time.Millisecond
	m.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	s := m.Start(context.Background(), models.VendorIntel, filepath.Join(t.TempDir(), "monitor.log"))
	s.Stop()
	s.Stop()
}
