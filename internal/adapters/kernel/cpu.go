// Package kernel implements tile classification kernels.
package kernel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// CPUConfig configures the CPU kernel.
type CPUConfig struct {
	// Capacity is how many frames may be classified at once. Further
	// invocations block until a slot frees up. Default: GOMAXPROCS.
	Capacity int

	// RowWorkers bounds the tile rows evaluated in parallel within one
	// frame. Default: GOMAXPROCS.
	RowWorkers int

	// Palette used to map samples to values. Default: DefaultPalette().
	Palette *Palette
}

// CPU classifies tiles by sampling the centre of each tile and matching the
// mean colour against a palette. Unmatched tiles yield domain.SentinelTile.
type CPU struct {
	sem        *semaphore.Weighted
	rowWorkers int
	palette    *Palette
}

// NewCPU creates a CPU kernel.
func NewCPU(cfg CPUConfig) *CPU {
	if cfg.Capacity <= 0 {
		cfg.Capacity = runtime.GOMAXPROCS(0)
	}
	if cfg.RowWorkers <= 0 {
		cfg.RowWorkers = runtime.GOMAXPROCS(0)
	}
	if cfg.Palette == nil {
		p := DefaultPalette()
		cfg.Palette = &p
	}
	return &CPU{
		sem:        semaphore.NewWeighted(int64(cfg.Capacity)),
		rowWorkers: cfg.RowWorkers,
		palette:    cfg.Palette,
	}
}

// Classify implements ports.Kernel.
func (k *CPU) Classify(ctx context.Context, grid domain.TileGrid, frame domain.Frame) ([]uint32, error) {
	if need := frame.Stride() * frame.Height; len(frame.Pix) < need {
		return nil, fmt.Errorf("pixel buffer has %d bytes, %dx%d RGBA needs %d",
			len(frame.Pix), frame.Width, frame.Height, need)
	}

	if err := k.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer k.sem.Release(1)

	out := make([]uint32, grid.NumTiles())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(k.rowWorkers)
	for row := 0; row < grid.Rows; row++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for col := 0; col < grid.Columns; col++ {
				out[grid.Index(row, col)] = k.classifyTile(grid, frame, row, col)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// classifyTile averages a centred window a quarter of the tile wide.
func (k *CPU) classifyTile(grid domain.TileGrid, frame domain.Frame, row, col int) uint32 {
	x0, y0 := grid.Origin(row, col)
	side := max(grid.TileWidth/4, 1)
	sx := x0 + (grid.TileWidth-side)/2
	sy := y0 + (grid.TileHeight-side)/2

	var r, g, b, n int
	stride := frame.Stride()
	for y := sy; y < sy+side; y++ {
		off := y*stride + sx*domain.BytesPerPixel
		for x := 0; x < side; x++ {
			px := frame.Pix[off : off+3]
			r += int(px[0])
			g += int(px[1])
			b += int(px[2])
			n++
			off += domain.BytesPerPixel
		}
	}

	c := Color{R: uint8((r + n/2) / n), G: uint8((g + n/2) / n), B: uint8((b + n/2) / n)}
	v, ok := k.palette.Lookup(c)
	if !ok {
		return domain.SentinelTile
	}
	return uint32(v)
}
