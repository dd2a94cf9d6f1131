// Package kerneltest paints synthetic frames for tests of the decoding
// pipeline.
package kerneltest

import (
	"github.com/bft-labs/vidrecover/internal/adapters/kernel"
	"github.com/bft-labs/vidrecover/internal/domain"
)

// Unmatched is a colour no palette entry is close to.
var Unmatched = kernel.Color{R: 238, G: 16, B: 16}

// Packet lays out a packet header and payload over numTiles tile values.
func Packet(seq uint8, payload []byte, numTiles int) []byte {
	b := make([]byte, numTiles)
	copy(b, domain.Magic[:])
	b[2] = 1
	b[5] = seq
	b[6], b[7] = domain.TileWidth, domain.TileHeight
	b[8] = byte(len(payload) >> 8)
	b[9] = byte(len(payload))
	copy(b[domain.HeaderLen:], payload)
	return b
}

// PaintFrame fills each tile of a width x height RGBA frame with the palette
// colour of the corresponding value. Pixels outside the painted tiles are
// set to Unmatched.
func PaintFrame(index, width, height int, values []byte) domain.Frame {
	p := kernel.DefaultPalette()
	f := domain.Frame{Index: index, Width: width, Height: height, Pix: make([]byte, width*height*domain.BytesPerPixel)}
	for i := 0; i < len(f.Pix); i += domain.BytesPerPixel {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = Unmatched.R, Unmatched.G, Unmatched.B, 0xFF
	}

	grid := f.Grid()
	stride := f.Stride()
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			idx := grid.Index(row, col)
			if idx >= len(values) {
				return f
			}
			c := p[values[idx]]
			x0, y0 := grid.Origin(row, col)
			for y := y0; y < y0+grid.TileHeight; y++ {
				off := y*stride + x0*domain.BytesPerPixel
				for x := 0; x < grid.TileWidth; x++ {
					f.Pix[off], f.Pix[off+1], f.Pix[off+2] = c.R, c.G, c.B
					off += domain.BytesPerPixel
				}
			}
		}
	}
	return f
}
