package domain

// Fixed tile geometry. Frames are always cut into 48x48 tiles.
const (
	TileWidth  = 48
	TileHeight = 48
)

// SentinelTile is the value a kernel reports for a tile it could not
// classify. It lies outside the byte range.
const SentinelTile uint32 = 999

// BytesPerPixel is the size of one RGBA pixel in Frame.Pix.
const BytesPerPixel = 4

// Frame is one decoded video frame.
type Frame struct {
	// Index is the arrival order assigned by the source, starting at 0.
	Index int

	Width  int
	Height int

	// Pix holds RGBA pixels, row-major, stride Width*BytesPerPixel.
	Pix []byte
}

// Stride returns the number of bytes per pixel row.
func (f Frame) Stride() int {
	return f.Width * BytesPerPixel
}

// Grid returns the tile grid for the frame's geometry.
func (f Frame) Grid() TileGrid {
	return NewTileGrid(f.Width, f.Height)
}

// TileGrid is the fixed-size tile partition of a frame. Pixels beyond the
// last full tile on the right and bottom edges are not covered.
type TileGrid struct {
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
}

// NewTileGrid derives the grid for a width x height frame.
func NewTileGrid(width, height int) TileGrid {
	g := TileGrid{TileWidth: TileWidth, TileHeight: TileHeight}
	if width > 0 {
		g.Columns = width / TileWidth
	}
	if height > 0 {
		g.Rows = height / TileHeight
	}
	return g
}

// NumTiles returns Columns*Rows.
func (g TileGrid) NumTiles() int {
	return g.Columns * g.Rows
}

// Index returns the tile-major position of (row, col).
func (g TileGrid) Index(row, col int) int {
	return row*g.Columns + col
}

// Origin returns the top-left pixel of tile (row, col).
func (g TileGrid) Origin(row, col int) (x, y int) {
	return col * g.TileWidth, row * g.TileHeight
}

// FrameResult is the classified byte array of one frame.
// Bytes has exactly NumTiles entries in row-major tile order and must not be
// modified once produced.
type FrameResult struct {
	Index int
	Bytes []byte
}

// StreamInfo is the optional configuration event of a frame source.
// Zero values mean unknown.
type StreamInfo struct {
	TotalFrames int
	Width       int
	Height      int
}
