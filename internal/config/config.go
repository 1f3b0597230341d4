// Package config loads housekeeper configuration: tool-level settings from
// viper (config file, HOUSEKEEPER_* env vars, CLI flags) and cleaning rules
// from INI rules files whose sections are keyed by glob pattern.
package config

import "github.com/spf13/viper"

// Config holds tool-level runtime settings. Values are populated from
// .housekeeper.yaml, HOUSEKEEPER_* env vars, and CLI flags; per-selection
// behavior lives in the rules file instead.
type Config struct {
	Verbose       bool   `mapstructure:"verbose"`
	DryRun        bool   `mapstructure:"dry_run"`
	Force         bool   `mapstructure:"force"`
	TimeAttr      string `mapstructure:"time_attr"` // mtime, ctime, or atime
	ManifestName  string `mapstructure:"manifest_name"`
	TelemetryPath string `mapstructure:"telemetry_path"` // JSONL audit log; empty disables
	HistoryPath   string `mapstructure:"history_path"`   // run archive database; empty disables
	StatePath     string `mapstructure:"state_path"`     // last-run TOML state file; empty disables
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("verbose", false)
	viper.SetDefault("dry_run", false)
	viper.SetDefault("force", false)
	viper.SetDefault("time_attr", "mtime")
	viper.SetDefault("manifest_name", ".housekeeper")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("history_path", "")
	viper.SetDefault("state_path", "")

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
