package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (VIDRECOVER_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", os.Getenv("VIDRECOVER_SOURCE"), &cfg.Source)
	s.setString("input", os.Getenv("VIDRECOVER_INPUT"), &cfg.Input)
	s.setString("output", os.Getenv("VIDRECOVER_OUTPUT"), &cfg.Output)
	s.setString("report", os.Getenv("VIDRECOVER_REPORT"), &cfg.Report)
	s.setString("metrics-file", os.Getenv("VIDRECOVER_METRICS_FILE"), &cfg.MetricsFile)
	s.setString("sentinel-policy", os.Getenv("VIDRECOVER_SENTINEL_POLICY"), &cfg.SentinelPolicy)
	s.setString("done-marker", os.Getenv("VIDRECOVER_DONE_MARKER"), &cfg.DoneMarker)
	s.setString("ffmpeg", os.Getenv("VIDRECOVER_FFMPEG"), &cfg.FFmpegPath)
	s.setString("ffprobe", os.Getenv("VIDRECOVER_FFPROBE"), &cfg.FFprobePath)
	s.setString("log-level", os.Getenv("VIDRECOVER_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("VIDRECOVER_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setIntFromString("workers", os.Getenv("VIDRECOVER_WORKERS"), &cfg.Workers); err != nil {
		return err
	}

	s.setBoolFromString("meta", os.Getenv("VIDRECOVER_META"), &cfg.Meta)

	return nil
}
