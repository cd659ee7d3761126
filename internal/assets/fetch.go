package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// Sample is one downloadable high-bitrate test clip.
type Sample struct {
	Choice int
	Name   string
	Label  string
	URL    string
}

// Samples lists the clips the fetch command can download. The file names
// match knownInputs, so a fetched clip is picked up by Resolve directly.
var Samples = []Sample{
	{1, "jellyfish-10-mbps-hd-h264.mkv", "Jellyfish 1080p 10 Mbps", "https://repo.jellyfin.org/jellyfish/media/jellyfish-10-mbps-hd-h264.mkv"},
	{2, "jellyfish-20-mbps-hd-h264.mkv", "Jellyfish 1080p 20 Mbps", "https://repo.jellyfin.org/jellyfish/media/jellyfish-20-mbps-hd-h264.mkv"},
	{3, "jellyfish-40-mbps-hd-h264.mkv", "Jellyfish 1080p 40 Mbps", "https://repo.jellyfin.org/jellyfish/media/jellyfish-40-mbps-hd-h264.mkv"},
	{4, "jellyfish-80-mbps-hd-h264.mkv", "Jellyfish 1080p 80 Mbps", "https://repo.jellyfin.org/jellyfish/media/jellyfish-80-mbps-hd-h264.mkv"},
	{5, "jellyfish-120-mbps-4k-uhd-h264.mkv", "Jellyfish 4K 120 Mbps", "https://repo.jellyfin.org/jellyfish/media/jellyfish-120-mbps-4k-uhd-h264.mkv"},
	{6, "bbb_sunflower_1080p_60fps_normal.mp4", "Big Buck Bunny 1080p60", "https://download.blender.org/demo/movies/BBB/bbb_sunflower_1080p_60fps_normal.mp4"},
	{7, "bbb_sunflower_2160p_60fps_normal.mp4", "Big Buck Bunny 2160p60", "https://download.blender.org/demo/movies/BBB/bbb_sunflower_2160p_60fps_normal.mp4"},
}

// FetchSample downloads one sample into the work dir with bounded
// retries. Files are addressed by their fixed names: an existing file is
// reused, never re-downloaded.
func FetchSample(ctx context.Context, workDir string, choice int) (string, error) {
	var sample *Sample
	for i := range Samples {
		if Samples[i].Choice == choice {
			sample = &Samples[i]
			break
		}
	}
	if sample == nil {
		return "", fmt.Errorf("unknown sample choice %d (valid: 1..%d)", choice, len(Samples))
	}

	dest := filepath.Join(workDir, sample.Name)
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		log.Info().Str("file", dest).Msg("sample already present, skipping download")
		return dest, nil
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil // Silence default debug logger
	client := retryClient.StandardClient()

	log.Info().Str("label", sample.Label).Str("url", sample.URL).Msg("downloading sample")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sample.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	// Download into a temp file first so an aborted transfer never
	// leaves a truncated clip under a known input name.
	tmp, err := os.CreateTemp(workDir, sample.Name+".part-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("failed to move sample into place: %w", err)
	}

	log.Info().Str("file", dest).Msg("sample downloaded")
	return dest, nil
}
