package kernel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/vidrecover/internal/adapters/kernel"
	"github.com/bft-labs/vidrecover/internal/adapters/kernel/kerneltest"
	"github.com/bft-labs/vidrecover/internal/domain"
)

func TestCPU_ClassifiesPaintedFrame(t *testing.T) {
	const w, h = 48*8 + 20, 48*4 + 47 // partial edge tiles are ignored
	grid := domain.NewTileGrid(w, h)
	values := make([]byte, grid.NumTiles())
	for i := range values {
		values[i] = byte(i * 7)
	}
	frame := kerneltest.PaintFrame(0, w, h, values)

	k := kernel.NewCPU(kernel.CPUConfig{Capacity: 2, RowWorkers: 3})
	got, err := k.Classify(context.Background(), grid, frame)
	require.NoError(t, err)
	require.Len(t, got, 32)

	for i, v := range got {
		assert.Equal(t, uint32(values[i]), v, "tile %d", i)
	}
}

func TestCPU_UnmatchedTileIsSentinel(t *testing.T) {
	grid := domain.NewTileGrid(96, 48)
	// only the first tile is painted
	frame := kerneltest.PaintFrame(0, 96, 48, []byte{5})

	got, err := kernel.NewCPU(kernel.CPUConfig{}).Classify(context.Background(), grid, frame)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, domain.SentinelTile}, got)
}

func TestCPU_ShortPixelBuffer(t *testing.T) {
	frame := domain.Frame{Width: 96, Height: 96, Pix: make([]byte, 10)}
	_, err := kernel.NewCPU(kernel.CPUConfig{}).Classify(context.Background(), frame.Grid(), frame)
	assert.ErrorContains(t, err, "pixel buffer has 10 bytes")
}

func TestCPU_CanceledWhileAtCapacity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frame := kerneltest.PaintFrame(0, 48, 48, []byte{1})
	_, err := kernel.NewCPU(kernel.CPUConfig{Capacity: 1}).Classify(ctx, frame.Grid(), frame)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCPU_EmptyGrid(t *testing.T) {
	frame := domain.Frame{Width: 40, Height: 40, Pix: make([]byte, 40*40*4)}
	got, err := kernel.NewCPU(kernel.CPUConfig{}).Classify(context.Background(), frame.Grid(), frame)
	require.NoError(t, err)
	assert.Empty(t, got)
}
