package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ptbench/internal/config"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "ptbench",
		Short: "GPU passthrough hardware-acceleration benchmark",
		Long: `ptbench verifies that GPU hardware acceleration (NVIDIA NVENC/NVDEC,
AMD AMF, Intel VAAPI/QSV) actually works inside a virtual machine, by
running a fixed set of ffmpeg encode/decode trials and comparing
hardware against software encode times.`,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ptbench.yml)")
}

// loadConfig loads the shared configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return cfg, nil
}
