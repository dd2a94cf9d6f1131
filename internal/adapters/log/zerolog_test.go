package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/vidrecover/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapter(zerolog.New(&buf))

	z.Warn("packet out of order",
		ports.Int("frame", 4),
		ports.Uint8("seq", 7),
		ports.Uint8("expected", 3),
		ports.String("source", "dir"),
		ports.Bool("magic", true),
		ports.Duration("took", 2*time.Millisecond),
		ports.Err(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "packet out of order", got["message"])
	assert.Equal(t, float64(4), got["frame"])
	assert.Equal(t, float64(7), got["seq"])
	assert.Equal(t, float64(3), got["expected"])
	assert.Equal(t, "dir", got["source"])
	assert.Equal(t, true, got["magic"])
	assert.Equal(t, "boom", got["error"])
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapter(zerolog.New(&buf)).With(ports.String("run_id", "abc"))

	z.Info("decoded")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["run_id"])
}

func TestZerologAdapter_DisabledLevel(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))

	z.Debug("hidden", ports.Int("frame", 1))
	assert.Zero(t, buf.Len())
}

var (
	_ ports.Logger = (*ZerologAdapter)(nil)
	_ ports.Logger = (*NoopLogger)(nil)
)

func TestNoopLogger_With(t *testing.T) {
	l := NewNoopLogger().With(ports.String("run_id", "abc"))
	assert.NotNil(t, l)
	l.Info("discarded", ports.Int("frame", 1))
}

func TestZerologAdapter_WithIsScoped(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologAdapter(zerolog.New(&buf))
	base.With(ports.String("run_id", "abc")).Info("scoped")
	buf.Reset()

	base.Info("plain")
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.NotContains(t, got, "run_id")
}
