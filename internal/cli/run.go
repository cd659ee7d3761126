package cli

import (
	"os"

	"github.com/spf13/cobra"

	"ptbench/internal/bench"
)

var (
	durationOverride   int
	resolutionOverride string
	workDirOverride    string
	ffmpegOverride     string
	noMonitor          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite",
	Long: `Runs the full passthrough benchmark:
1. Probe: detect the GPU vendor via sysfs, nvidia-smi and the ffmpeg encoder listing.
2. Input: reuse a downloaded sample clip or synthesize a test clip.
3. Trials: hardware decode, hardware encode, full hardware pipeline, software baseline.
4. Report: per-trial pass/fail, hardware/software speedup and a final verdict.

Each trial writes a combined ffmpeg log and a GPU utilization log into
the working directory.`,
	Example: `  # Run with defaults (30s clip, 1920x1080)
  ptbench run

  # Longer clip in a dedicated scratch dir
  ptbench run --duration 60 --work-dir /var/tmp/ptbench

  # Explicit ffmpeg build, no monitor sidecar
  ptbench run --ffmpeg /opt/ffmpeg/bin/ffmpeg --no-monitor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if durationOverride > 0 {
			cfg.DurationSeconds = durationOverride
		}
		if resolutionOverride != "" {
			cfg.Resolution = resolutionOverride
		}
		if workDirOverride != "" {
			cfg.WorkDir = workDirOverride
		}
		if ffmpegOverride != "" {
			cfg.FFmpegPath = ffmpegOverride
		}
		if noMonitor {
			cfg.EnableMonitor = false
		}

		return bench.Run(cmd.Context(), cfg, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&durationOverride, "duration", 0, "benchmark clip duration in seconds (when generating)")
	runCmd.Flags().StringVar(&resolutionOverride, "resolution", "", "benchmark clip resolution, e.g. 1920x1080")
	runCmd.Flags().StringVarP(&workDirOverride, "work-dir", "w", "", "working directory for inputs, outputs and logs")
	runCmd.Flags().StringVar(&ffmpegOverride, "ffmpeg", "", "path to the ffmpeg binary")
	runCmd.Flags().BoolVar(&noMonitor, "no-monitor", false, "disable the GPU utilization monitor sidecar")
}
