package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameBytes builds a classified frame carrying seq and payload, padded to size.
func frameBytes(seq uint8, payload []byte, size int) []byte {
	b := make([]byte, size)
	b[0], b[1] = 0x00, 0xFF
	b[2] = 1
	b[5] = seq
	b[6], b[7] = 48, 48
	b[8] = byte(len(payload) >> 8)
	b[9] = byte(len(payload))
	copy(b[HeaderLen:], payload)
	return b
}

func TestParsePacket(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	r := FrameResult{Index: 7, Bytes: frameBytes(9, payload, 40)}

	p, err := ParsePacket(r)
	require.NoError(t, err)

	assert.Equal(t, 7, p.FrameIndex)
	assert.True(t, p.HasMagic())
	assert.Equal(t, uint8(1), p.Version)
	assert.Equal(t, uint8(9), p.Sequence)
	assert.Equal(t, uint8(48), p.TileWidth)
	assert.Equal(t, uint8(48), p.TileHeight)
	assert.Equal(t, uint16(5), p.Length)
	assert.Equal(t, payload, p.Payload)
}

func TestParsePacket_BigEndianLength(t *testing.T) {
	b := make([]byte, HeaderLen+0x0102)
	b[8], b[9] = 0x01, 0x02

	p, err := ParsePacket(FrameResult{Bytes: b})
	require.NoError(t, err)
	assert.Equal(t, uint16(258), p.Length)
	assert.Len(t, p.Payload, 258)
}

func TestParsePacket_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		bytes []byte
	}{
		{"empty", nil},
		{"short header", make([]byte, HeaderLen-1)},
		{"length past end", frameBytes(0, make([]byte, 10), HeaderLen+9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePacket(FrameResult{Bytes: tt.bytes})
			assert.ErrorIs(t, err, ErrMalformedPacket)
		})
	}
}

func TestParsePacket_ZeroLength(t *testing.T) {
	p, err := ParsePacket(FrameResult{Bytes: frameBytes(3, nil, HeaderLen)})
	require.NoError(t, err)
	assert.Empty(t, p.Payload)
	assert.Equal(t, uint8(3), p.Sequence)
}
