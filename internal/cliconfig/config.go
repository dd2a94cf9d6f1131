package cliconfig

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// Source kinds.
const (
	SourceAuto   = "auto"
	SourceDir    = "dir"
	SourceWatch  = "watch"
	SourceFFmpeg = "ffmpeg"
)

// Config holds CLI configuration for vidrecover.
type Config struct {
	Source string
	Input  string

	Output      string
	Report      string
	MetricsFile string

	Workers        int
	SentinelPolicy string

	DoneMarker  string
	FFmpegPath  string
	FFprobePath string

	LogLevel  string
	LogFormat string
	Meta      bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Source:         SourceAuto,
		Output:         "out.bin",
		Workers:        runtime.GOMAXPROCS(0),
		SentinelPolicy: "fail",
		DoneMarker:     "DONE",
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input is required", domain.ErrInvalidConfig)
	}

	c.Source = strings.ToLower(c.Source)
	switch c.Source {
	case "":
		c.Source = SourceAuto
	case SourceAuto, SourceDir, SourceWatch, SourceFFmpeg:
	default:
		return fmt.Errorf("%w: unknown source %q (want auto, dir, watch or ffmpeg)", domain.ErrInvalidConfig, c.Source)
	}

	if c.Output == "" {
		return fmt.Errorf("%w: output is required", domain.ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidConfig)
	}

	switch strings.ToLower(c.SentinelPolicy) {
	case "":
		c.SentinelPolicy = "fail"
	case "fail", "zero":
		c.SentinelPolicy = strings.ToLower(c.SentinelPolicy)
	default:
		return fmt.Errorf("%w: unknown sentinel policy %q (want fail or zero)", domain.ErrInvalidConfig, c.SentinelPolicy)
	}

	switch c.LogFormat {
	case "":
		c.LogFormat = "console"
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q (want console or json)", domain.ErrInvalidConfig, c.LogFormat)
	}

	if c.DoneMarker == "" {
		c.DoneMarker = "DONE"
	}

	// Auto picks the directory reader for directories and ffmpeg for
	// anything else, including URLs ffmpeg can open.
	if c.Source == SourceAuto {
		if fi, err := os.Stat(c.Input); err == nil && fi.IsDir() {
			c.Source = SourceDir
		} else {
			c.Source = SourceFFmpeg
		}
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
