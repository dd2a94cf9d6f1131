package source

import (
	"context"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Memory streams frames already decoded in-process. Frame indices are
// reassigned in slice order.
type Memory struct {
	frames []domain.Frame
}

// NewMemory creates a source over frames.
func NewMemory(frames []domain.Frame) *Memory {
	return &Memory{frames: frames}
}

// Name implements ports.FrameSource.
func (m *Memory) Name() string { return "memory" }

// Stream implements ports.FrameSource.
func (m *Memory) Stream(ctx context.Context, h ports.FrameHandler) error {
	h.OnConfig(domain.StreamInfo{TotalFrames: len(m.frames)})
	for i, f := range m.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.Index = i
		h.OnFrame(f)
	}
	return nil
}
