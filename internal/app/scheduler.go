package app

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Scheduler dispatches one classification per incoming frame and joins them.
//
// It implements ports.FrameHandler. Dispatch never waits for earlier frames;
// the only bound on concurrency is the kernel's own capacity.
type Scheduler struct {
	classifier *Classifier
	logger     ports.Logger
	emitter    EventEmitter

	group *errgroup.Group
	ctx   context.Context

	mu      sync.Mutex
	results []domain.FrameResult
	info    domain.StreamInfo
	frames  int
}

// NewScheduler creates a scheduler whose tasks run under ctx. The first
// failing task cancels the context seen by the others.
func NewScheduler(ctx context.Context, classifier *Classifier, logger ports.Logger, emitter EventEmitter) *Scheduler {
	g, gctx := errgroup.WithContext(ctx)
	return &Scheduler{
		classifier: classifier,
		logger:     logger,
		emitter:    emitterOrNoop(emitter),
		group:      g,
		ctx:        gctx,
	}
}

// OnConfig records the stream metadata announced by the source.
func (s *Scheduler) OnConfig(info domain.StreamInfo) {
	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	s.logger.Info("stream configured",
		ports.Int("total_frames", info.TotalFrames),
		ports.Int("width", info.Width),
		ports.Int("height", info.Height),
	)
	s.emitter.OnStreamInfo(info)
}

// OnFrame starts classifying frame and returns immediately. The frame,
// pixels included, is owned by the task from here on.
func (s *Scheduler) OnFrame(frame domain.Frame) {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()

	s.group.Go(func() error {
		res, err := s.classifier.Classify(s.ctx, frame)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.results = append(s.results, res)
		s.mu.Unlock()
		return nil
	})
}

// Wait blocks until every dispatched classification has finished and
// returns all results in completion order. If any task failed, Wait returns
// the first error and no results.
func (s *Scheduler) Wait() ([]domain.FrameResult, error) {
	if err := s.group.Wait(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, nil
}

// Frames returns the number of frames dispatched so far.
func (s *Scheduler) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// StreamInfo returns the metadata from the source's config event, if any.
func (s *Scheduler) StreamInfo() domain.StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}
