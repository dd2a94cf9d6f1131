package ports

import (
	"context"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// OutputSink persists the reassembled payload stream.
type OutputSink interface {
	// Write stores data in full or not at all.
	Write(ctx context.Context, data []byte) error
}

// ReportSink persists the summary of a decode run.
type ReportSink interface {
	Save(ctx context.Context, report domain.Report) error
}
