package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config for TOML files. Pointers mark booleans that
// were actually present.
type FileConfig struct {
	Source         string `toml:"source"`
	Input          string `toml:"input"`
	Output         string `toml:"output"`
	Report         string `toml:"report"`
	MetricsFile    string `toml:"metrics_file"`
	Workers        int    `toml:"workers"`
	SentinelPolicy string `toml:"sentinel_policy"`
	DoneMarker     string `toml:"done_marker"`
	FFmpegPath     string `toml:"ffmpeg"`
	FFprobePath    string `toml:"ffprobe"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	Meta           *bool  `toml:"meta"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.vidrecover/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".vidrecover", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("source", fc.Source, &cfg.Source)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("report", fc.Report, &cfg.Report)
	s.setString("metrics-file", fc.MetricsFile, &cfg.MetricsFile)
	s.setString("sentinel-policy", fc.SentinelPolicy, &cfg.SentinelPolicy)
	s.setString("done-marker", fc.DoneMarker, &cfg.DoneMarker)
	s.setString("ffmpeg", fc.FFmpegPath, &cfg.FFmpegPath)
	s.setString("ffprobe", fc.FFprobePath, &cfg.FFprobePath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	s.setInt("workers", fc.Workers, &cfg.Workers)

	s.setBool("meta", fc.Meta, &cfg.Meta)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
