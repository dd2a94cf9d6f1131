package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// SentinelPolicy decides what happens to tiles the kernel could not classify.
type SentinelPolicy int

const (
	// SentinelFail fails the whole frame, and with it the decode.
	SentinelFail SentinelPolicy = iota
	// SentinelZero substitutes 0x00 and logs how many tiles were affected.
	SentinelZero
)

// String returns the config spelling of the policy.
func (p SentinelPolicy) String() string {
	switch p {
	case SentinelFail:
		return "fail"
	case SentinelZero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParseSentinelPolicy parses "fail" or "zero".
func ParseSentinelPolicy(s string) (SentinelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return SentinelFail, nil
	case "zero":
		return SentinelZero, nil
	default:
		return SentinelFail, fmt.Errorf("%w: unknown sentinel policy %q", domain.ErrInvalidConfig, s)
	}
}

// Classifier turns one frame into its dense tile byte array.
type Classifier struct {
	kernel  ports.Kernel
	policy  SentinelPolicy
	logger  ports.Logger
	emitter EventEmitter
}

// NewClassifier creates a classifier running kernel on every frame.
func NewClassifier(kernel ports.Kernel, policy SentinelPolicy, logger ports.Logger, emitter EventEmitter) *Classifier {
	return &Classifier{
		kernel:  kernel,
		policy:  policy,
		logger:  logger,
		emitter: emitterOrNoop(emitter),
	}
}

// Classify runs the kernel over frame's tile grid. On success the result has
// exactly NumTiles bytes; on failure no partial result is returned and the
// error wraps domain.ErrClassificationFailure.
func (c *Classifier) Classify(ctx context.Context, frame domain.Frame) (domain.FrameResult, error) {
	grid := frame.Grid()
	start := time.Now()

	values, err := c.kernel.Classify(ctx, grid, frame)
	if err != nil {
		return domain.FrameResult{}, fmt.Errorf("%w: frame %d: %w", domain.ErrClassificationFailure, frame.Index, err)
	}
	if len(values) != grid.NumTiles() {
		return domain.FrameResult{}, fmt.Errorf("%w: frame %d: kernel returned %d tiles, grid has %d",
			domain.ErrClassificationFailure, frame.Index, len(values), grid.NumTiles())
	}

	staged := make([]byte, grid.NumTiles())
	ambiguous := 0
	for i, v := range values {
		switch {
		case v <= 0xFF:
			staged[i] = byte(v)
		case v == domain.SentinelTile:
			if c.policy == SentinelFail {
				row, col := i/grid.Columns, i%grid.Columns
				return domain.FrameResult{}, fmt.Errorf("%w: frame %d tile (%d,%d): %w",
					domain.ErrClassificationFailure, frame.Index, row, col, domain.ErrAmbiguousTile)
			}
			ambiguous++
		default:
			return domain.FrameResult{}, fmt.Errorf("%w: frame %d tile %d: value %d out of range",
				domain.ErrClassificationFailure, frame.Index, i, v)
		}
	}

	if ambiguous > 0 {
		c.logger.Warn("ambiguous tiles replaced with zero",
			ports.Int("frame", frame.Index),
			ports.Int("tiles", ambiguous),
		)
	}

	c.emitter.OnFrameClassified(frame.Index, grid.NumTiles(), time.Since(start))
	return domain.FrameResult{Index: frame.Index, Bytes: staged}, nil
}
