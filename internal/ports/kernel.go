package ports

import (
	"context"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// Kernel classifies every tile of a frame into one value.
//
// The returned slice must have grid.NumTiles() entries in row-major tile
// order. Values are in [0,255] or domain.SentinelTile. Implementations may
// block while the underlying execution engine is at capacity.
type Kernel interface {
	Classify(ctx context.Context, grid domain.TileGrid, frame domain.Frame) ([]uint32, error)
}
