package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the settings for the benchmark tool.
type Config struct {
	WorkDir         string `mapstructure:"work_dir"`
	FFmpegPath      string `mapstructure:"ffmpeg_path"`
	DurationSeconds int    `mapstructure:"duration_seconds"`
	Resolution      string `mapstructure:"resolution"`
	LogLevel        string `mapstructure:"log_level"`
	EnableMonitor   bool   `mapstructure:"enable_monitor"`

	// SysfsDRMPath and DRIDevPath exist so tests (and odd passthrough
	// setups that remap device nodes) can point the prober elsewhere.
	SysfsDRMPath string `mapstructure:"sysfs_drm_path"`
	DRIDevPath   string `mapstructure:"dri_dev_path"`
}

// LoadConfig initializes Viper and merges all config sources.
// The config file is optional; env vars (PTB_*) and flags cover the rest.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("work_dir", ".")
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("duration_seconds", 30)
	v.SetDefault("resolution", "1920x1080")
	v.SetDefault("log_level", "info")
	v.SetDefault("enable_monitor", true)
	v.SetDefault("sysfs_drm_path", "/sys/class/drm")
	v.SetDefault("dri_dev_path", "/dev/dri")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ptbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}

	v.SetEnvPrefix("PTB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
