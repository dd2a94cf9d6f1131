package cliconfig

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bft-labs/vidrecover/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source != SourceAuto {
		t.Errorf("Source = %v, want auto", cfg.Source)
	}
	if cfg.Output != "out.bin" {
		t.Errorf("Output = %v, want out.bin", cfg.Output)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %v, want positive", cfg.Workers)
	}
	if cfg.SentinelPolicy != "fail" {
		t.Errorf("SentinelPolicy = %v, want fail", cfg.SentinelPolicy)
	}
	if cfg.DoneMarker != "DONE" {
		t.Errorf("DoneMarker = %v, want DONE", cfg.DoneMarker)
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		config     Config
		wantErr    bool
		wantSource string
	}{
		{
			name:       "valid dir config",
			config:     Config{Source: SourceDir, Input: dir, Output: "out.bin", Workers: 2},
			wantSource: SourceDir,
		},
		{
			name:    "missing input",
			config:  Config{Source: SourceDir, Output: "out.bin", Workers: 2},
			wantErr: true,
		},
		{
			name:    "missing output",
			config:  Config{Source: SourceDir, Input: dir, Workers: 2},
			wantErr: true,
		},
		{
			name:    "unknown source",
			config:  Config{Source: "webcam", Input: dir, Output: "out.bin", Workers: 2},
			wantErr: true,
		},
		{
			name:    "zero workers",
			config:  Config{Source: SourceDir, Input: dir, Output: "out.bin"},
			wantErr: true,
		},
		{
			name:    "unknown sentinel policy",
			config:  Config{Source: SourceDir, Input: dir, Output: "out.bin", Workers: 1, SentinelPolicy: "guess"},
			wantErr: true,
		},
		{
			name:    "unknown log format",
			config:  Config{Source: SourceDir, Input: dir, Output: "out.bin", Workers: 1, LogFormat: "xml"},
			wantErr: true,
		},
		{
			name:       "auto resolves directory",
			config:     Config{Source: SourceAuto, Input: dir, Output: "out.bin", Workers: 1},
			wantSource: SourceDir,
		},
		{
			name:       "auto resolves file to ffmpeg",
			config:     Config{Source: SourceAuto, Input: filepath.Join(dir, "clip.mp4"), Output: "out.bin", Workers: 1},
			wantSource: SourceFFmpeg,
		},
		{
			name:       "empty source means auto",
			config:     Config{Input: dir, Output: "out.bin", Workers: 1},
			wantSource: SourceDir,
		},
		{
			name:       "source is case insensitive",
			config:     Config{Source: "WATCH", Input: dir, Output: "out.bin", Workers: 1},
			wantSource: SourceWatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if err == nil && tt.wantSource != "" && tt.config.Source != tt.wantSource {
				t.Errorf("Source = %v, want %v", tt.config.Source, tt.wantSource)
			}
		})
	}
}

func TestConfig_Validate_Derivations(t *testing.T) {
	c := Config{
		Source:         SourceDir,
		Input:          t.TempDir(),
		Output:         "out.bin",
		Workers:        1,
		SentinelPolicy: "ZERO",
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if c.SentinelPolicy != "zero" {
		t.Errorf("SentinelPolicy = %v, want zero", c.SentinelPolicy)
	}
	if c.LogFormat != "console" {
		t.Errorf("LogFormat = %v, want console", c.LogFormat)
	}
	if c.DoneMarker != "DONE" {
		t.Errorf("DoneMarker = %v, want DONE", c.DoneMarker)
	}
}
