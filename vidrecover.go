// Package vidrecover recovers a binary payload that was visually encoded in
// the frames of a video.
//
// Every frame is cut into 48x48 tiles and each tile is classified to one
// byte. The bytes of a frame form a packet (magic, sequence number, length,
// payload); packets are reassembled in frame order into the output, dropping
// duplicates and anything out of sequence.
//
// Example usage:
//
//	out, err := vidrecover.DecodeFrames(ctx, frames,
//	    vidrecover.WithSentinelPolicy(vidrecover.SentinelZero),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Use [DecodeDir] for a directory of frame images and [DecodeVideo] for
// anything ffmpeg can open.
package vidrecover

import (
	"context"

	"github.com/bft-labs/vidrecover/internal/adapters/kernel"
	logAdapter "github.com/bft-labs/vidrecover/internal/adapters/log"
	"github.com/bft-labs/vidrecover/internal/adapters/source"
	"github.com/bft-labs/vidrecover/internal/app"
	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Frame is one decoded RGBA video frame.
type Frame = domain.Frame

// StreamInfo describes a stream before its first frame.
type StreamInfo = domain.StreamInfo

// Report summarizes a decode run.
type Report = domain.Report

// Result is the outcome of a successful decode.
type Result = app.Result

// FrameSource produces frames in arrival order.
type FrameSource = ports.FrameSource

// FrameHandler receives frames from a FrameSource.
type FrameHandler = ports.FrameHandler

// Logger is the interface for structured logging.
type Logger = ports.Logger

// EventHandler observes a decode run. It must be safe for concurrent use.
type EventHandler = app.EventEmitter

// SentinelPolicy selects what happens to tiles the kernel cannot classify.
type SentinelPolicy = app.SentinelPolicy

const (
	// SentinelFail fails the frame, and with it the run.
	SentinelFail = app.SentinelFail
	// SentinelZero decodes the tile as 0 and logs a warning.
	SentinelZero = app.SentinelZero
)

// Errors returned by the decode functions. Check with errors.Is.
var (
	ErrSourceFailure         = domain.ErrSourceFailure
	ErrClassificationFailure = domain.ErrClassificationFailure
	ErrAmbiguousTile         = domain.ErrAmbiguousTile
)

// Option configures a decode run.
type Option func(*options)

type options struct {
	logger  ports.Logger
	handler app.EventEmitter
	policy  app.SentinelPolicy
	workers int
	meta    bool
}

func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
		policy: app.SentinelFail,
	}
}

// WithLogger sets a custom logger. If not provided, nothing is logged.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for decode events.
func WithEventHandler(h EventHandler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithSentinelPolicy sets the policy for unclassifiable tiles.
// Default: SentinelFail.
func WithSentinelPolicy(p SentinelPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithWorkers bounds how many frames are classified at once.
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMeta logs every packet header at debug level.
func WithMeta(enabled bool) Option {
	return func(o *options) {
		o.meta = enabled
	}
}

// DecodeFrames recovers the payload carried by frames. Frame indices are
// taken from slice order.
func DecodeFrames(ctx context.Context, frames []Frame, opts ...Option) ([]byte, error) {
	res, err := Decode(ctx, source.NewMemory(frames), "memory", opts...)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// DecodeDir recovers the payload from the image files of dir, read in name
// order.
func DecodeDir(ctx context.Context, dir string, opts ...Option) (Result, error) {
	o := apply(opts)
	return decode(ctx, source.NewDir(dir, o.logger), dir, o)
}

// DecodeVideo recovers the payload from a video file or URL using the
// ffmpeg and ffprobe binaries found on PATH.
func DecodeVideo(ctx context.Context, input string, opts ...Option) (Result, error) {
	o := apply(opts)
	src := source.NewFFmpeg(source.FFmpegConfig{Input: input}, o.logger)
	return decode(ctx, src, input, o)
}

// Decode runs the full pipeline over src. input is only recorded in the
// report.
func Decode(ctx context.Context, src FrameSource, input string, opts ...Option) (Result, error) {
	return decode(ctx, src, input, apply(opts))
}

func apply(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logAdapter.NewNoopLogger()
	}
	return o
}

func decode(ctx context.Context, src ports.FrameSource, input string, o options) (Result, error) {
	cpu := kernel.NewCPU(kernel.CPUConfig{Capacity: o.workers, RowWorkers: o.workers})
	dec := app.NewDecoder(app.DecoderConfig{
		SentinelPolicy: o.policy,
		Meta:           o.meta,
		Input:          input,
	}, src, cpu, nil, nil, o.logger, o.handler)
	return dec.Decode(ctx)
}
