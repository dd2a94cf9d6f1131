package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Test frames are 10x3 tiles, room for a 13-byte header and 17 payload bytes.
const (
	testCols = 10
	testRows = 3
)

func wideFrame(index int) domain.Frame {
	return domain.Frame{Index: index, Width: testCols * domain.TileWidth, Height: testRows * domain.TileHeight}
}

// packetTiles lays out a packet the way the encoder paints it.
func packetTiles(seq uint8, payload []byte) []uint32 {
	tiles := make([]uint32, testCols*testRows)
	tiles[1] = 0xFF
	tiles[2] = 1
	tiles[5] = uint32(seq)
	tiles[6], tiles[7] = domain.TileWidth, domain.TileHeight
	tiles[8] = uint32(len(payload) >> 8)
	tiles[9] = uint32(len(payload) & 0xFF)
	for i, b := range payload {
		tiles[domain.HeaderLen+i] = uint32(b)
	}
	return tiles
}

func packetBytes(seq uint8, payload []byte) []byte {
	tiles := packetTiles(seq, payload)
	b := make([]byte, len(tiles))
	for i, v := range tiles {
		b[i] = byte(v)
	}
	return b
}

// fakeKernel returns canned tile values per frame index. When order is set,
// calls are released strictly in that frame order.
type fakeKernel struct {
	tiles map[int][]uint32
	fail  map[int]error

	mu    sync.Mutex
	cond  *sync.Cond
	order []int
	turn  int
	calls int
}

func newFakeKernel() *fakeKernel {
	k := &fakeKernel{tiles: map[int][]uint32{}, fail: map[int]error{}}
	k.cond = sync.NewCond(&k.mu)
	return k
}

func (k *fakeKernel) Classify(ctx context.Context, grid domain.TileGrid, frame domain.Frame) ([]uint32, error) {
	k.mu.Lock()
	k.calls++
	if len(k.order) > 0 {
		for k.order[k.turn] != frame.Index {
			k.cond.Wait()
		}
		k.turn = (k.turn + 1) % len(k.order)
		k.cond.Broadcast()
	}
	tiles, ok := k.tiles[frame.Index]
	err := k.fail[frame.Index]
	k.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return make([]uint32, grid.NumTiles()), nil
	}
	return tiles, nil
}

// sliceSource pushes frames from a slice.
type sliceSource struct {
	frames []domain.Frame
	info   *domain.StreamInfo
	err    error
}

func (s *sliceSource) Name() string { return "slice" }

func (s *sliceSource) Stream(ctx context.Context, h ports.FrameHandler) error {
	if s.info != nil {
		h.OnConfig(*s.info)
	}
	for _, f := range s.frames {
		h.OnFrame(f)
	}
	return s.err
}

// recordingLogger keeps messages and their fields for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) record(msg string, scope, fields []ports.Field) {
	e := logEntry{msg: msg, fields: map[string]interface{}{}}
	for _, f := range scope {
		e.fields[f.Key] = f.Value
	}
	for _, f := range fields {
		e.fields[f.Key] = f.Value
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func (l *recordingLogger) Debug(msg string, fields ...ports.Field) { l.record(msg, nil, fields) }
func (l *recordingLogger) Info(msg string, fields ...ports.Field)  { l.record(msg, nil, fields) }
func (l *recordingLogger) Warn(msg string, fields ...ports.Field)  { l.record(msg, nil, fields) }
func (l *recordingLogger) Error(msg string, fields ...ports.Field) { l.record(msg, nil, fields) }

func (l *recordingLogger) With(fields ...ports.Field) ports.Logger {
	return &scopedRecorder{parent: l, scope: fields}
}

func (l *recordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := make([]string, len(l.entries))
	for i, e := range l.entries {
		msgs[i] = e.msg
	}
	return msgs
}

// Entry returns the first entry logged with msg.
func (l *recordingLogger) Entry(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// scopedRecorder is what recordingLogger.With hands out.
type scopedRecorder struct {
	parent *recordingLogger
	scope  []ports.Field
}

func (s *scopedRecorder) Debug(msg string, fields ...ports.Field) {
	s.parent.record(msg, s.scope, fields)
}
func (s *scopedRecorder) Info(msg string, fields ...ports.Field) {
	s.parent.record(msg, s.scope, fields)
}
func (s *scopedRecorder) Warn(msg string, fields ...ports.Field) {
	s.parent.record(msg, s.scope, fields)
}
func (s *scopedRecorder) Error(msg string, fields ...ports.Field) {
	s.parent.record(msg, s.scope, fields)
}

func (s *scopedRecorder) With(fields ...ports.Field) ports.Logger {
	return &scopedRecorder{parent: s.parent, scope: append(append([]ports.Field{}, s.scope...), fields...)}
}

// countingEmitter counts events.
type countingEmitter struct {
	mu         sync.Mutex
	classified int
	outcomes   map[domain.PacketOutcome]int
	info       domain.StreamInfo
	output     int
}

func newCountingEmitter() *countingEmitter {
	return &countingEmitter{outcomes: map[domain.PacketOutcome]int{}}
}

func (e *countingEmitter) OnStreamInfo(info domain.StreamInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.info = info
}

func (e *countingEmitter) OnFrameClassified(int, int, time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classified++
}

func (e *countingEmitter) OnPacket(_ int, o domain.PacketOutcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outcomes[o]++
}

func (e *countingEmitter) OnOutput(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.output = n
}
