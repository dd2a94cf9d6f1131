package domain

import "time"

// Report summarises one decode run. It is persisted as JSON for operators.
type Report struct {
	RunID          string          `json:"run_id"`
	Source         string          `json:"source"`
	Input          string          `json:"input"`
	StartedAt      time.Time       `json:"started_at"`
	Duration       time.Duration   `json:"duration_ns"`
	FramesReceived int             `json:"frames_received"`
	ExpectedFrames int             `json:"expected_frames,omitempty"`
	Stats          ReassemblyStats `json:"stats"`
	OutputSHA256   string          `json:"output_sha256"`
}
