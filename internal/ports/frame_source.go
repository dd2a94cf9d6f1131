package ports

import (
	"context"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// FrameHandler receives the events of a FrameSource.
// A source calls it from one goroutine at a time, in arrival order.
type FrameHandler interface {
	// OnConfig reports stream metadata. Sources may call it at most once,
	// before the first frame, or not at all.
	OnConfig(info domain.StreamInfo)

	// OnFrame hands over a decoded frame. The handler takes ownership of
	// frame.Pix; the source must not touch it afterwards.
	OnFrame(frame domain.Frame)
}

// FrameSource is a finite, single-pass push source of decoded frames.
type FrameSource interface {
	// Stream pushes every frame to h and returns nil once no more frames
	// will arrive. Any other return value is a source failure.
	Stream(ctx context.Context, h FrameHandler) error

	// Name identifies the source kind in logs and reports.
	Name() string
}
