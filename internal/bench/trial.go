package bench

import (
	"ptbench/pkg/models"
)

// TrialSpec describes one benchmark configuration. File names are fixed
// so reruns overwrite the previous attempt's artifacts.
type TrialSpec struct {
	Name           string
	Kind           models.TrialKind
	LogName        string
	OutputName     string
	MonitorLogName string
}

// Trials returns the fixed sequence of four configurations. All four are
// consistent with the single backend selected by the prober; the software
// baseline ignores the backend's encoder on purpose.
func Trials(_ models.Backend) []TrialSpec {
	return []TrialSpec{
		{
			Name:           "Hardware decode",
			Kind:           models.KindHWDecode,
			LogName:        "test1_hw_decode.log",
			OutputName:     "output_hw_decode.mp4",
			MonitorLogName: "monitor_hw_decode.log",
		},
		{
			Name:           "Hardware encode",
			Kind:           models.KindHWEncode,
			LogName:        "test2_hw_encode.log",
			OutputName:     "output_hw_encode.mp4",
			MonitorLogName: "monitor_hw_encode.log",
		},
		{
			Name:           "Full hardware pipeline",
			Kind:           models.KindFullPipeline,
			LogName:        "test3_full_pipeline.log",
			OutputName:     "output_full_pipeline.mp4",
			MonitorLogName: "monitor_full_pipeline.log",
		},
		{
			Name:           "Software baseline",
			Kind:           models.KindSoftware,
			LogName:        "test4_software.log",
			OutputName:     "output_software.mp4",
			MonitorLogName: "monitor_software.log",
		},
	}
}

// accelArgs holds the per-backend argument fragments. Differences between
// backends live here as data; BuildArgs assembles them per trial kind.
type accelArgs struct {
	decode     []string // -hwaccel flags for the decode side
	decodeFull []string // extra decode flags used only in the full pipeline
	encodePre  []string // global args before -i required by the encoder
	uploadVF   string   // -vf chain for software-decode -> hardware-encode
	encode     []string // -c:v plus encoder quality args
}

var softwareEncode = []string{"-c:v", "libx264", "-preset", "medium"}

func accelFor(b models.Backend) accelArgs {
	switch b.Encoder {
	case "h264_nvenc":
		return accelArgs{
			decode:     []string{"-hwaccel", "cuda"},
			decodeFull: []string{"-hwaccel_output_format", "cuda"},
			encode:     []string{"-c:v", "h264_nvenc", "-preset", "p4"},
		}
	case "h264_amf":
		return accelArgs{
			decode: []string{"-hwaccel", "auto"},
			encode: []string{"-c:v", "h264_amf", "-quality", "balanced"},
		}
	case "h264_vaapi":
		return accelArgs{
			decode:     []string{"-hwaccel", "vaapi"},
			decodeFull: []string{"-hwaccel_output_format", "vaapi"},
			encodePre:  []string{"-vaapi_device", b.RenderDevice},
			uploadVF:   "format=nv12,hwupload",
			encode:     []string{"-c:v", "h264_vaapi", "-qp", "20"},
		}
	case "h264_qsv":
		return accelArgs{
			decode:     []string{"-hwaccel", "qsv"},
			decodeFull: []string{"-hwaccel_output_format", "qsv"},
			encodePre:  []string{"-init_hw_device", "qsv=hw", "-filter_hw_device", "hw"},
			uploadVF:   "hwupload=extra_hw_frames=64,format=qsv",
			encode:     []string{"-c:v", "h264_qsv", "-preset", "medium", "-global_quality", "20"},
		}
	}
	return accelArgs{encode: softwareEncode}
}

// BuildArgs assembles the full ffmpeg invocation for one trial.
func BuildArgs(b models.Backend, kind models.TrialKind, input, output string) []string {
	a := accelFor(b)
	args := []string{"-y", "-hide_banner"}

	switch kind {
	case models.KindSoftware:
		// Software baseline regardless of backend, for comparison.
		args = append(args, "-i", input)
		args = append(args, softwareEncode...)
		args = append(args, "-c:a", "aac", "-b:a", "128k")

	case models.KindHWDecode:
		args = append(args, a.decode...)
		args = append(args, a.encodePre...)
		args = append(args, "-i", input)
		args = append(args, softwareEncode...)
		args = append(args, "-c:a", "copy")

	case models.KindHWEncode:
		args = append(args, a.encodePre...)
		args = append(args, "-i", input)
		if a.uploadVF != "" {
			args = append(args, "-vf", a.uploadVF)
		}
		args = append(args, a.encode...)
		args = append(args, "-c:a", "copy")

	case models.KindFullPipeline:
		args = append(args, a.decode...)
		args = append(args, a.decodeFull...)
		args = append(args, a.encodePre...)
		args = append(args, "-i", input)
		args = append(args, a.encode...)
		args = append(args, "-c:a", "copy")
	}

	return append(args, output)
}

// vaapiVariant derives the VAAPI equivalent of a QSV backend for the
// runtime fallback. Everything else about the backend is preserved.
func vaapiVariant(b models.Backend) models.Backend {
	b.Encoder = "h264_vaapi"
	b.HWAccel = "vaapi"
	return b
}
