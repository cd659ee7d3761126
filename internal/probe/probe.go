package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"ptbench/pkg/models"
)

// PCI vendor ids as they appear in sysfs vendor files.
const (
	vendorIDIntel  = "0x8086"
	vendorIDAMD    = "0x1002"
	vendorIDNVIDIA = "0x10de"
)

const defaultRenderNode = "renderD128"

// ErrNoAcceleration is returned when no usable backend exists on this
// machine. The caller aborts the run with remediation hints.
var ErrNoAcceleration = errors.New("no usable hardware acceleration backend found")

// Prober inspects sysfs, vendor tools and the ffmpeg encoder listing to
// decide which acceleration backend the benchmark should drive.
type Prober struct {
	FFmpegPath   string
	SysfsDRMPath string // /sys/class/drm
	DRIDevPath   string // /dev/dri

	// CapsDumpPath, when set, receives the raw `ffmpeg -encoders` output
	// as a scratch file for later inspection.
	CapsDumpPath string

	// injectable for tests
	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

	caps *Capabilities
}

// NewProber creates a prober against the real system paths.
func NewProber(ffmpegPath, sysfsDRMPath, driDevPath string) *Prober {
	return &Prober{
		FFmpegPath:   ffmpegPath,
		SysfsDRMPath: sysfsDRMPath,
		DRIDevPath:   driDevPath,
		lookPath:     exec.LookPath,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// Probe selects exactly one backend. The order encodes real-world
// reliability under virtualized GPU passthrough:
//
//  1. Intel vendor id on the primary node (VAAPI preferred over QSV)
//  2. nvidia-smi responding
//  3. AMD vendor id on any node
//  4. encoder-listing scan (hardware not confirmed)
func (p *Prober) Probe(ctx context.Context) (models.Backend, error) {
	// Diagnostic only; passthrough setups without /dev/dri still probe fine.
	if nodes, err := p.DRINodes(); err == nil {
		log.Debug().Strs("nodes", nodes).Str("dir", p.DRIDevPath).Msg("DRI device nodes")
	} else {
		log.Debug().Err(err).Str("dir", p.DRIDevPath).Msg("no DRI device nodes visible")
	}

	if p.vendorID("card0") == vendorIDIntel {
		return p.probeIntel(ctx)
	}

	if p.nvidiaSMIResponds(ctx) {
		log.Debug().Msg("nvidia-smi responded, selecting NVENC")
		return nvidiaBackend(true), nil
	}

	if card, ok := p.findVendor(vendorIDAMD); ok {
		log.Debug().Str("card", card).Msg("AMD vendor id in sysfs, selecting AMF")
		return amdBackend(true), nil
	}

	// Some hypervisor configs expose a working encoder without exposing
	// vendor ids in sysfs. Fall back to what ffmpeg itself reports, with
	// the confidence flag lowered.
	if caps, err := p.Capabilities(ctx); err == nil {
		switch {
		case caps.HasEncoder("h264_nvenc"):
			return nvidiaBackend(false), nil
		case caps.HasEncoder("h264_amf"):
			return amdBackend(false), nil
		case caps.HasEncoder("h264_vaapi"):
			b := p.intelVAAPIBackend(false)
			b.AltVAAPI = true
			return b, nil
		case caps.HasEncoder("h264_qsv"):
			return p.intelQSVBackend(false, false), nil
		}
	}

	return models.Backend{Vendor: models.VendorNone}, ErrNoAcceleration
}

// probeIntel picks between VAAPI and QSV for a confirmed Intel GPU.
// VAAPI is listed first because it is the more reliable path for modern
// Intel parts under passthrough.
func (p *Prober) probeIntel(ctx context.Context) (models.Backend, error) {
	caps, err := p.Capabilities(ctx)
	if err != nil {
		return models.Backend{}, fmt.Errorf("intel gpu detected but encoder listing failed: %w", err)
	}

	hasVAAPI := caps.HasEncoder("h264_vaapi")
	switch {
	case hasVAAPI:
		b := p.intelVAAPIBackend(true)
		b.AltVAAPI = true
		return b, nil
	case caps.HasEncoder("h264_qsv"):
		return p.intelQSVBackend(true, hasVAAPI), nil
	default:
		return models.Backend{}, fmt.Errorf("intel gpu detected but ffmpeg has no vaapi/qsv encoder: %w", ErrNoAcceleration)
	}
}

// DRINodes lists the render/card nodes under the DRI device directory.
func (p *Prober) DRINodes() ([]string, error) {
	entries, err := os.ReadDir(p.DRIDevPath)
	if err != nil {
		return nil, err
	}
	nodes := make([]string, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, e.Name())
	}
	return nodes, nil
}

// VendorFiles returns card -> vendor id for every DRM card node, for the
// capabilities display.
func (p *Prober) VendorFiles() map[string]string {
	out := map[string]string{}
	matches, _ := filepath.Glob(filepath.Join(p.SysfsDRMPath, "card*"))
	for _, m := range matches {
		name := filepath.Base(m)
		if strings.Contains(name, "-") {
			continue // connector entries like card0-HDMI-A-1
		}
		if id := p.vendorID(name); id != "" {
			out[name] = id
		}
	}
	return out
}

// vendorID reads the PCI vendor id for one DRM card node, "" when absent.
func (p *Prober) vendorID(card string) string {
	data, err := os.ReadFile(filepath.Join(p.SysfsDRMPath, card, "device", "vendor"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// findVendor scans all card nodes for a given vendor id.
func (p *Prober) findVendor(id string) (string, bool) {
	for card, v := range p.VendorFiles() {
		if v == id {
			return card, true
		}
	}
	return "", false
}

// nvidiaSMIResponds reports whether the NVIDIA management tool is present
// and can actually talk to a GPU. Presence alone is not enough: the
// binary is often installed in guests where passthrough is broken.
func (p *Prober) nvidiaSMIResponds(ctx context.Context) bool {
	if _, err := p.lookPath("nvidia-smi"); err != nil {
		return false
	}
	_, err := p.runCommand(ctx, "nvidia-smi", "--query-gpu=name", "--format=csv,noheader")
	return err == nil
}

// renderDevice picks the render node VAAPI/QSV invocations should open.
func (p *Prober) renderDevice() string {
	if nodes, err := p.DRINodes(); err == nil {
		for _, n := range nodes {
			if strings.HasPrefix(n, "renderD") {
				return filepath.Join(p.DRIDevPath, n)
			}
		}
	}
	return filepath.Join(p.DRIDevPath, defaultRenderNode)
}

func nvidiaBackend(confirmed bool) models.Backend {
	return models.Backend{
		Vendor:    models.VendorNVIDIA,
		Encoder:   "h264_nvenc",
		Decoder:   "h264_cuvid",
		HWAccel:   "cuda",
		Confirmed: confirmed,
	}
}

func amdBackend(confirmed bool) models.Backend {
	return models.Backend{
		Vendor:    models.VendorAMD,
		Encoder:   "h264_amf",
		HWAccel:   "auto",
		Confirmed: confirmed,
	}
}

func (p *Prober) intelVAAPIBackend(confirmed bool) models.Backend {
	return models.Backend{
		Vendor:       models.VendorIntel,
		Encoder:      "h264_vaapi",
		HWAccel:      "vaapi",
		RenderDevice: p.renderDevice(),
		Confirmed:    confirmed,
	}
}

func (p *Prober) intelQSVBackend(confirmed, altVAAPI bool) models.Backend {
	return models.Backend{
		Vendor:       models.VendorIntel,
		Encoder:      "h264_qsv",
		HWAccel:      "qsv",
		RenderDevice: p.renderDevice(),
		Confirmed:    confirmed,
		AltVAAPI:     altVAAPI,
	}
}
