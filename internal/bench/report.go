package bench

import (
	"fmt"
	"io"
	"strings"

	"ptbench/pkg/models"
)

// Classification buckets for the measured speedup.
const (
	ClassSignificant   = "significant"
	ClassModest        = "modest"
	ClassNoImprovement = "no improvement"
)

// Report aggregates the four trial results into a verdict. Built once
// after all trials complete, printed, then discarded.
type Report struct {
	Backend models.Backend
	Results []models.TrialResult

	Speedup      float64
	SpeedupValid bool
	Class        string

	// PassthroughWorking is true iff the hardware-encode or the
	// full-pipeline trial passed, independent of the speedup bucket.
	PassthroughWorking bool
}

// Aggregate derives the speedup and verdict from the trial results.
func Aggregate(backend models.Backend, results []models.TrialResult) *Report {
	r := &Report{Backend: backend, Results: results}

	var software, full, encode *models.TrialResult
	for i := range results {
		switch results[i].Kind {
		case models.KindSoftware:
			software = &results[i]
		case models.KindFullPipeline:
			full = &results[i]
		case models.KindHWEncode:
			encode = &results[i]
		}
	}

	// The speedup is only meaningful when both sides completed, and a
	// zero full-pipeline duration (faster than the clock resolution)
	// must not turn into a division.
	if software != nil && full != nil && software.Success && full.Success && full.Elapsed > 0 {
		r.Speedup = software.Elapsed.Seconds() / full.Elapsed.Seconds()
		r.SpeedupValid = true
		r.Class = classify(r.Speedup)
	}

	r.PassthroughWorking = (encode != nil && encode.Success) || (full != nil && full.Success)
	return r
}

func classify(speedup float64) string {
	switch {
	case speedup > 1.5:
		return ClassSignificant
	case speedup > 1.0:
		return ClassModest
	default:
		return ClassNoImprovement
	}
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 64))
	fmt.Fprintln(w, " GPU PASSTHROUGH BENCHMARK REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 64))

	confidence := "hardware confirmed"
	if !r.Backend.Confirmed {
		confidence = "inferred from encoder listing only"
	}
	fmt.Fprintf(w, " Backend:  %s (%s, %s)\n", r.Backend.Vendor, r.Backend.Encoder, confidence)
	fmt.Fprintln(w)

	for _, res := range r.Results {
		verdict := "FAIL"
		if res.Success {
			verdict = "PASS"
		}
		fmt.Fprintf(w, " %-24s %-4s  %8.2fs", res.Name, verdict, res.Elapsed.Seconds())
		if res.HWConfirmed {
			fmt.Fprint(w, "  [hw activity in log]")
		}
		if res.UsedFallback {
			fmt.Fprint(w, "  [via VAAPI fallback]")
		}
		if res.FallbackFailed {
			fmt.Fprint(w, "  [VAAPI fallback also failed]")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	if r.SpeedupValid {
		fmt.Fprintf(w, " Speedup (software / full pipeline): %.2fx (%s)\n", r.Speedup, r.Class)
	} else {
		fmt.Fprintln(w, " Speedup (software / full pipeline): N/A")
	}

	fmt.Fprintln(w)
	if r.PassthroughWorking {
		fmt.Fprintln(w, " VERDICT: GPU passthrough hardware acceleration is WORKING")
	} else {
		fmt.Fprintln(w, " VERDICT: GPU passthrough hardware acceleration is NOT working")
		fmt.Fprintln(w)
		fmt.Fprintln(w, " Remediation hints:")
		fmt.Fprintln(w, "  - check that the guest sees the GPU: ls /dev/dri; lspci | grep -i vga")
		fmt.Fprintln(w, "  - check device permissions (video/render group membership)")
		fmt.Fprintln(w, "  - check vendor drivers inside the guest (nvidia-smi, vainfo)")
		fmt.Fprintln(w, "  - inspect the per-trial logs in the working directory")
	}
	fmt.Fprintln(w, strings.Repeat("=", 64))
}
