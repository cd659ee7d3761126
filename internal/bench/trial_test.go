package bench

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ptbench/pkg/models"
)

func nvidia() models.Backend {
	return models.Backend{Vendor: models.VendorNVIDIA, Encoder: "h264_nvenc", Decoder: "h264_cuvid", HWAccel: "cuda", Confirmed: true}
}

func amd() models.Backend {
	return models.Backend{Vendor: models.VendorAMD, Encoder: "h264_amf", HWAccel: "auto", Confirmed: true}
}

func intelVAAPI() models.Backend {
	return models.Backend{Vendor: models.VendorIntel, Encoder: "h264_vaapi", HWAccel: "vaapi", RenderDevice: "/dev/dri/renderD128", Confirmed: true, AltVAAPI: true}
}

func intelQSV(alt bool) models.Backend {
	return models.Backend{Vendor: models.VendorIntel, Encoder: "h264_qsv", HWAccel: "qsv", RenderDevice: "/dev/dri/renderD128", Confirmed: true, AltVAAPI: alt}
}

func joined(b models.Backend, kind models.TrialKind) string {
	return strings.Join(BuildArgs(b, kind, "in.mp4", "out.mp4"), " ")
}

func TestBuildArgsSoftwareIgnoresBackend(t *testing.T) {
	for _, b := range []models.Backend{nvidia(), amd(), intelVAAPI(), intelQSV(true)} {
		args := joined(b, models.KindSoftware)
		assert.Contains(t, args, "-c:v libx264")
		assert.NotContains(t, args, "-hwaccel")
		assert.NotContains(t, args, b.Encoder)
	}
}

func TestBuildArgsDecodeOnlyUsesSoftwareEncoder(t *testing.T) {
	args := joined(nvidia(), models.KindHWDecode)
	assert.Contains(t, args, "-hwaccel cuda")
	assert.Contains(t, args, "-c:v libx264")
	assert.Contains(t, args, "-c:a copy")
	assert.NotContains(t, args, "h264_nvenc")
}

func TestBuildArgsNVIDIAFullPipeline(t *testing.T) {
	args := joined(nvidia(), models.KindFullPipeline)
	assert.Contains(t, args, "-hwaccel cuda -hwaccel_output_format cuda")
	assert.Contains(t, args, "-c:v h264_nvenc")
}

func TestBuildArgsAMDUsesAutoAcceleration(t *testing.T) {
	args := joined(amd(), models.KindFullPipeline)
	assert.Contains(t, args, "-hwaccel auto")
	assert.Contains(t, args, "-c:v h264_amf")
}

func TestBuildArgsVAAPIEncodeRequiresUploadFilter(t *testing.T) {
	args := joined(intelVAAPI(), models.KindHWEncode)
	assert.Contains(t, args, "-vaapi_device /dev/dri/renderD128")
	assert.Contains(t, args, "-vf format=nv12,hwupload")
	assert.Contains(t, args, "-c:v h264_vaapi")
}

func TestBuildArgsVAAPIFullPipelineSkipsUpload(t *testing.T) {
	// With hardware decode the frames are already VAAPI surfaces.
	args := joined(intelVAAPI(), models.KindFullPipeline)
	assert.Contains(t, args, "-hwaccel vaapi -hwaccel_output_format vaapi")
	assert.NotContains(t, args, "hwupload")
}

func TestBuildArgsQSVUsesDeviceInit(t *testing.T) {
	args := joined(intelQSV(false), models.KindHWEncode)
	assert.Contains(t, args, "-init_hw_device qsv=hw -filter_hw_device hw")
	assert.Contains(t, args, "-c:v h264_qsv")
}

func TestBuildArgsOutputIsLast(t *testing.T) {
	for _, kind := range []models.TrialKind{models.KindHWDecode, models.KindHWEncode, models.KindFullPipeline, models.KindSoftware} {
		args := BuildArgs(intelVAAPI(), kind, "in.mp4", "out.mp4")
		assert.Equal(t, "out.mp4", args[len(args)-1])
	}
}

func TestVaapiVariantKeepsDevice(t *testing.T) {
	v := vaapiVariant(intelQSV(true))
	assert.Equal(t, "h264_vaapi", v.Encoder)
	assert.Equal(t, "vaapi", v.HWAccel)
	assert.Equal(t, "/dev/dri/renderD128", v.RenderDevice)
}

func TestTrialsAreTheFixedFour(t *testing.T) {
	trials := Trials(nvidia())
	assert.Len(t, trials, 4)
	assert.Equal(t, models.KindHWDecode, trials[0].Kind)
	assert.Equal(t, models.KindHWEncode, trials[1].Kind)
	assert.Equal(t, models.KindFullPipeline, trials[2].Kind)
	assert.Equal(t, models.KindSoftware, trials[3].Kind)
}
