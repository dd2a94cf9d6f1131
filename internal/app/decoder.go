package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// DecoderConfig contains configuration for a decode run.
type DecoderConfig struct {
	SentinelPolicy SentinelPolicy
	// Meta logs every packet header at debug level.
	Meta bool
	// Input is recorded in the report only.
	Input string
}

// Result is the outcome of a successful decode.
type Result struct {
	RunID  string
	Output []byte
	Report domain.Report
}

// Decoder wires a frame source, the kernel and the sinks into one run.
type Decoder struct {
	config  DecoderConfig
	source  ports.FrameSource
	kernel  ports.Kernel
	output  ports.OutputSink
	report  ports.ReportSink
	logger  ports.Logger
	emitter EventEmitter
}

// NewDecoder creates a decoder. output and report may be nil, in which case
// the result is only returned to the caller.
func NewDecoder(
	config DecoderConfig,
	source ports.FrameSource,
	kernel ports.Kernel,
	output ports.OutputSink,
	report ports.ReportSink,
	logger ports.Logger,
	emitter EventEmitter,
) *Decoder {
	return &Decoder{
		config:  config,
		source:  source,
		kernel:  kernel,
		output:  output,
		report:  report,
		logger:  logger,
		emitter: emitterOrNoop(emitter),
	}
}

// Decode streams every frame from the source, classifies them concurrently,
// waits for all of them and reassembles the payload. Source and
// classification failures abort the run before anything is written.
func (d *Decoder) Decode(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	log := d.logger.With(ports.String("run_id", runID))
	log.Info("decode started",
		ports.String("source", d.source.Name()),
		ports.String("input", d.config.Input),
	)

	classifier := NewClassifier(d.kernel, d.config.SentinelPolicy, log, d.emitter)
	sched := NewScheduler(ctx, classifier, log, d.emitter)

	streamErr := d.source.Stream(ctx, sched)
	// join even on source failure so no task outlives the run
	results, joinErr := sched.Wait()
	// cancellation is not a source or kernel fault
	if err := ctx.Err(); err != nil {
		log.Warn("decode interrupted", ports.Err(err))
		return Result{}, err
	}
	if streamErr != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceFailure, d.source.Name(), streamErr)
	}
	if joinErr != nil {
		if errors.Is(joinErr, domain.ErrClassificationFailure) {
			return Result{}, joinErr
		}
		return Result{}, fmt.Errorf("%w: %w", domain.ErrClassificationFailure, joinErr)
	}

	info := sched.StreamInfo()
	frames := sched.Frames()
	if info.TotalFrames > 0 && info.TotalFrames != frames {
		log.Warn("frame count differs from stream metadata",
			ports.Int("expected", info.TotalFrames),
			ports.Int("received", frames),
		)
	}

	re := NewReassembler(log, d.emitter, d.config.Meta).Reassemble(results)
	d.emitter.OnOutput(len(re.Output))

	sum := sha256.Sum256(re.Output)
	report := domain.Report{
		RunID:          runID,
		Source:         d.source.Name(),
		Input:          d.config.Input,
		StartedAt:      started,
		Duration:       time.Since(started),
		FramesReceived: frames,
		ExpectedFrames: info.TotalFrames,
		Stats:          re.Stats,
		OutputSHA256:   hex.EncodeToString(sum[:]),
	}

	if d.output != nil {
		if err := d.output.Write(ctx, re.Output); err != nil {
			return Result{}, fmt.Errorf("write output: %w", err)
		}
	}
	if d.report != nil {
		if err := d.report.Save(ctx, report); err != nil {
			log.Error("failed to save report", ports.Err(err))
		}
	}

	log.Info("decode finished",
		ports.Int("frames", frames),
		ports.Any("stats", re.Stats),
		ports.Duration("duration", report.Duration),
	)

	return Result{RunID: runID, Output: re.Output, Report: report}, nil
}
