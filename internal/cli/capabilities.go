package cli

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"

	"ptbench/internal/probe"
)

var capabilitiesCmd = &cobra.Command{
	Use:     "capabilities",
	Aliases: []string{"caps"},
	Short:   "Show detected GPU and encoder capabilities without benchmarking",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		info, _ := cpu.Info()
		model := "Unknown CPU"
		if len(info) > 0 {
			model = info[0].ModelName
		}
		fmt.Fprintf(out, "CPU: %s (%d threads)\n\n", model, runtime.NumCPU())

		prober := probe.NewProber(cfg.FFmpegPath, cfg.SysfsDRMPath, cfg.DRIDevPath)

		if nodes, err := prober.DRINodes(); err == nil && len(nodes) > 0 {
			fmt.Fprintf(out, "DRI device nodes in %s:\n", cfg.DRIDevPath)
			for _, n := range nodes {
				fmt.Fprintf(out, "  %s\n", n)
			}
		} else {
			fmt.Fprintf(out, "No DRI device nodes visible in %s\n", cfg.DRIDevPath)
		}
		fmt.Fprintln(out)

		if vendors := prober.VendorFiles(); len(vendors) > 0 {
			fmt.Fprintln(out, "DRM card vendor ids:")
			for card, id := range vendors {
				fmt.Fprintf(out, "  %-8s %s\n", card, id)
			}
			fmt.Fprintln(out)
		}

		if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
			fmt.Fprintf(out, "ffmpeg not found (%v); encoder listing unavailable\n", err)
			return nil
		}

		caps, err := prober.Capabilities(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Hardware encoders reported by ffmpeg:")
		lines := caps.HardwareEncoderLines()
		for _, l := range lines {
			fmt.Fprintf(out, "  %s\n", l)
		}
		if len(lines) == 0 {
			fmt.Fprintln(out, "  (none detected)")
		}

		backend, err := prober.Probe(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "\nBackend selection: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "\nSelected backend: %s (%s, confirmed=%v)\n",
			backend.Vendor, backend.Encoder, backend.Confirmed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
