package domain

import (
	"encoding/binary"
	"fmt"
)

// Packet header layout within a classified frame.
//
//	0-1   magic (0x00, 0xFF)
//	2     version
//	3-4   reserved
//	5     sequence number
//	6     tile width
//	7     tile height
//	8-9   payload length (big-endian)
//	10-12 reserved
//	13-   payload
const (
	offMagic      = 0
	offVersion    = 2
	offSequence   = 5
	offTileWidth  = 6
	offTileHeight = 7
	offLength     = 8

	HeaderLen = 13
)

// Magic bytes written by the encoder at the start of every frame.
var Magic = [2]byte{0x00, 0xFF}

// Packet is the link-layer view of one FrameResult.
// Payload aliases the result's bytes.
type Packet struct {
	FrameIndex int
	Magic      [2]byte
	Version    uint8
	Sequence   uint8
	TileWidth  uint8
	TileHeight uint8
	Length     uint16
	Payload    []byte
}

// HasMagic reports whether the packet starts with the encoder's magic bytes.
// Acceptance never depends on it; it only helps diagnose misaligned frames.
func (p Packet) HasMagic() bool {
	return p.Magic == Magic
}

// ParsePacket reads the packet header of a classified frame.
// The length field is checked against the bytes actually available.
func ParsePacket(r FrameResult) (Packet, error) {
	b := r.Bytes
	if len(b) < HeaderLen {
		return Packet{FrameIndex: r.Index}, fmt.Errorf("%w: frame %d has %d bytes, header needs %d",
			ErrMalformedPacket, r.Index, len(b), HeaderLen)
	}

	p := Packet{
		FrameIndex: r.Index,
		Magic:      [2]byte{b[offMagic], b[offMagic+1]},
		Version:    b[offVersion],
		Sequence:   b[offSequence],
		TileWidth:  b[offTileWidth],
		TileHeight: b[offTileHeight],
		Length:     binary.BigEndian.Uint16(b[offLength : offLength+2]),
	}

	end := HeaderLen + int(p.Length)
	if end > len(b) {
		return p, fmt.Errorf("%w: frame %d length %d exceeds %d available bytes",
			ErrMalformedPacket, r.Index, p.Length, len(b)-HeaderLen)
	}
	p.Payload = b[HeaderLen:end]
	return p, nil
}
