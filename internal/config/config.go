// Package config handles osutool configuration loading and management.
package config

import "runtime"

// Config holds all tool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Scan    ScanConfig    `yaml:"scan"`
	Index   IndexConfig   `yaml:"index"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds beatmap parser settings.
type ParseConfig struct {
	TimingOrder string `yaml:"timing_order"` // "file" or "sorted"
}

// ScanConfig holds library scan settings.
type ScanConfig struct {
	Workers         int      `yaml:"workers"`
	Extensions      []string `yaml:"extensions"`
	IncludeArchives bool     `yaml:"include_archives"` // descend into .osz files
}

// IndexConfig holds the beatmap index settings.
type IndexConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			TimingOrder: "file",
		},
		Scan: ScanConfig{
			Workers:         runtime.NumCPU(),
			Extensions:      []string{".osu"},
			IncludeArchives: true,
		},
		Index: IndexConfig{
			Path: "osumap.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
