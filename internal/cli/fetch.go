package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ptbench/internal/assets"
)

var fetchWorkDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch [choice]",
	Short: "Download a high-bitrate sample clip for benchmarking",
	Long: `Downloads one of the known sample clips into the working directory.
Without an argument, lists the available samples. A clip that is already
present is reused, not re-downloaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if fetchWorkDir != "" {
			cfg.WorkDir = fetchWorkDir
		}

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Available samples:")
			for _, s := range assets.Samples {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d. %-26s %s\n", s.Choice, s.Label, s.Name)
			}
			return nil
		}

		choice, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid choice %q: %w", args[0], err)
		}

		path, err := assets.FetchSample(cmd.Context(), cfg.WorkDir, choice)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample ready: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchWorkDir, "work-dir", "w", "", "directory to download into")
}
