package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Capabilities wraps the raw `ffmpeg -encoders` listing. The listing is
// opaque text from an external tool; substring matching stays confined to
// this boundary.
type Capabilities struct {
	raw string
}

// Capabilities runs `ffmpeg -hide_banner -encoders` once and caches the
// result; encoder support does not change while we run.
func (p *Prober) Capabilities(ctx context.Context) (*Capabilities, error) {
	if p.caps != nil {
		return p.caps, nil
	}

	out, err := p.runCommand(ctx, p.FFmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg encoder listing failed: %w", err)
	}

	if p.CapsDumpPath != "" {
		// Scratch file for the report/debugging; losing it is harmless.
		_ = os.WriteFile(p.CapsDumpPath, out, 0644)
	}

	p.caps = &Capabilities{raw: string(out)}
	return p.caps, nil
}

// HasEncoder reports whether the listing mentions the given encoder.
func (c *Capabilities) HasEncoder(name string) bool {
	return strings.Contains(c.raw, name)
}

// HardwareEncoderLines returns the H.264 hardware encoder lines for the
// capabilities display.
func (c *Capabilities) HardwareEncoderLines() []string {
	tokens := []string{"_nvenc", "_amf", "_qsv", "_vaapi", "_v4l2m2m", "_videotoolbox"}

	var out []string
	sc := bufio.NewScanner(strings.NewReader(c.raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "Encoders") {
			continue
		}
		for _, token := range tokens {
			if strings.Contains(line, token) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}
