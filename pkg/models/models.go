package models

import "time"

// Vendor identifies the GPU family a backend belongs to.
type Vendor string

const (
	VendorNVIDIA Vendor = "nvidia"
	VendorAMD    Vendor = "amd"
	VendorIntel  Vendor = "intel"
	VendorNone   Vendor = "none"
)

// Backend describes the hardware acceleration path selected for a run.
// It is built once by the prober and never mutated afterwards; every
// component receives it by value.
type Backend struct {
	Vendor  Vendor `json:"vendor"`
	Encoder string `json:"encoder"`           // e.g. "h264_nvenc", "h264_vaapi"
	Decoder string `json:"decoder,omitempty"` // e.g. "h264_cuvid"; empty when ffmpeg picks
	HWAccel string `json:"hwaccel"`           // token for -hwaccel (cuda, vaapi, qsv, auto)

	// RenderDevice is the DRM render node handed to VAAPI/QSV invocations.
	RenderDevice string `json:"render_device,omitempty"`

	// Confirmed is true when the hardware itself was identified (sysfs
	// vendor id or a responding vendor tool), false when the backend was
	// inferred only from the ffmpeg encoder listing.
	Confirmed bool `json:"confirmed"`

	// AltVAAPI marks that h264_vaapi is present in the encoder listing,
	// which arms the QSV->VAAPI runtime fallback.
	AltVAAPI bool `json:"alt_vaapi,omitempty"`
}

// TrialKind distinguishes the four fixed benchmark configurations.
type TrialKind int

const (
	KindHWDecode TrialKind = iota // hardware decode, software encode
	KindHWEncode                  // software decode, hardware encode
	KindFullPipeline              // hardware decode and encode
	KindSoftware                  // software baseline
)

func (k TrialKind) String() string {
	switch k {
	case KindHWDecode:
		return "hw-decode"
	case KindHWEncode:
		return "hw-encode"
	case KindFullPipeline:
		return "full-pipeline"
	case KindSoftware:
		return "software"
	}
	return "unknown"
}

// TrialResult is the immutable outcome of one trial. Created by the
// runner, owned by the report aggregator afterwards.
type TrialResult struct {
	Name    string        `json:"name"`
	Kind    TrialKind     `json:"kind"`
	Success bool          `json:"success"`
	Elapsed time.Duration `json:"elapsed"`

	LogPath        string `json:"log_path"`
	MonitorLogPath string `json:"monitor_log_path,omitempty"`
	OutputPath     string `json:"output_path,omitempty"`

	// UsedFallback is set when the QSV invocation failed and the VAAPI
	// re-run succeeded; Elapsed and LogPath then describe the fallback.
	UsedFallback bool `json:"used_fallback,omitempty"`
	// FallbackFailed is set when the fallback itself exited nonzero, in
	// which case the original QSV failure stands.
	FallbackFailed bool `json:"fallback_failed,omitempty"`

	// HWConfirmed is a best-effort substring match over the captured log.
	// Display only; it never influences Success.
	HWConfirmed bool `json:"hw_confirmed"`

	Error string `json:"error,omitempty"`
}

// HardwareStats is a single sample from the monitor's CPU/RAM fallback
// sampler, written to the per-trial monitor log when no vendor GPU tool
// is installed.
type HardwareStats struct {
	CPUPercent float64 `json:"cpu_percent"`
	RAMPercent float64 `json:"ram_percent"`
}
