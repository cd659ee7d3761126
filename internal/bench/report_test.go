package bench

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ptbench/pkg/models"
)

func fourResults(swSecs, fullSecs float64, swOK, encOK, fullOK bool) []models.TrialResult {
	return []models.TrialResult{
		{Name: "Hardware decode", Kind: models.KindHWDecode, Success: true, Elapsed: 5 * time.Second},
		{Name: "Hardware encode", Kind: models.KindHWEncode, Success: encOK, Elapsed: 3 * time.Second},
		{Name: "Full hardware pipeline", Kind: models.KindFullPipeline, Success: fullOK, Elapsed: time.Duration(fullSecs * float64(time.Second))},
		{Name: "Software baseline", Kind: models.KindSoftware, Success: swOK, Elapsed: time.Duration(swSecs * float64(time.Second))},
	}
}

func TestAggregateSignificantSpeedup(t *testing.T) {
	r := Aggregate(nvidia(), fourResults(10, 4, true, true, true))

	assert.True(t, r.SpeedupValid)
	assert.InDelta(t, 2.5, r.Speedup, 0.001)
	assert.Equal(t, ClassSignificant, r.Class)
	assert.True(t, r.PassthroughWorking)
}

func TestAggregateModestSpeedup(t *testing.T) {
	r := Aggregate(nvidia(), fourResults(10, 8, true, true, true))

	assert.True(t, r.SpeedupValid)
	assert.InDelta(t, 1.25, r.Speedup, 0.001)
	assert.Equal(t, ClassModest, r.Class)
}

func TestAggregateNoImprovement(t *testing.T) {
	r := Aggregate(nvidia(), fourResults(8, 10, true, true, true))
	assert.Equal(t, ClassNoImprovement, r.Class)
}

func TestAggregateZeroDurationIsUndefinedNotDivision(t *testing.T) {
	// Sub-resolution full-pipeline duration reported as 0s.
	r := Aggregate(nvidia(), fourResults(10, 0, true, true, true))

	assert.False(t, r.SpeedupValid)
	assert.Empty(t, r.Class)
	// Still working: the trials themselves passed.
	assert.True(t, r.PassthroughWorking)
}

func TestAggregateSpeedupUndefinedWhenEitherSideFailed(t *testing.T) {
	r := Aggregate(nvidia(), fourResults(10, 4, false, true, true))
	assert.False(t, r.SpeedupValid)

	r = Aggregate(nvidia(), fourResults(10, 4, true, true, false))
	assert.False(t, r.SpeedupValid)
}

func TestVerdictIsOrOfEncodeAndFullPipeline(t *testing.T) {
	// Encode fails, full pipeline passes: still working.
	r := Aggregate(nvidia(), fourResults(10, 4, true, false, true))
	assert.True(t, r.PassthroughWorking)

	// Both fail: not working, even with decode/software passing.
	r = Aggregate(nvidia(), fourResults(10, 4, true, false, false))
	assert.False(t, r.PassthroughWorking)
}

func TestRenderShowsNAAndRemediation(t *testing.T) {
	r := Aggregate(nvidia(), fourResults(10, 4, true, false, false))

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "NOT working")
	assert.Contains(t, out, "Remediation hints")
	assert.Contains(t, out, "FAIL")
}

func TestRenderShowsSpeedupAndFallbackMarker(t *testing.T) {
	results := fourResults(10, 4, true, true, true)
	results[2].UsedFallback = true
	r := Aggregate(intelQSV(true), results)

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "2.50x")
	assert.Contains(t, out, ClassSignificant)
	assert.Contains(t, out, "WORKING")
	assert.Contains(t, out, "VAAPI fallback")
}
