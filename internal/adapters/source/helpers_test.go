package source

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/vidrecover/internal/adapters/kernel/kerneltest"
	"github.com/bft-labs/vidrecover/internal/domain"
)

const testW, testH = 48 * 6, 48 * 3

// collector records handler events.
type collector struct {
	mu     sync.Mutex
	info   *domain.StreamInfo
	frames []domain.Frame
}

func (c *collector) OnConfig(info domain.StreamInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info = &info
}

func (c *collector) OnFrame(f domain.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
}

func (c *collector) Frames() []domain.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Frame{}, c.frames...)
}

// paintedImage paints seq into the first header tiles.
func paintedImage(seq uint8) *image.RGBA {
	grid := domain.NewTileGrid(testW, testH)
	f := kerneltest.PaintFrame(0, testW, testH, kerneltest.Packet(seq, []byte{seq}, grid.NumTiles()))
	return &image.RGBA{Pix: f.Pix, Stride: f.Stride(), Rect: image.Rect(0, 0, testW, testH)}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// writePNGAtomic writes through a temp name so watchers only see the final file.
func writePNGAtomic(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	tmp := filepath.Join(dir, name+".part")
	writePNG(t, tmp, img)
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, name)))
}

// pixelAt returns the RGB channels of one pixel.
func pixelAt(f domain.Frame, x, y int) [3]byte {
	off := y*f.Stride() + x*domain.BytesPerPixel
	return [3]byte{f.Pix[off], f.Pix[off+1], f.Pix[off+2]}
}
