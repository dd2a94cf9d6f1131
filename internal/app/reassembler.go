package app

import (
	"slices"

	"github.com/bft-labs/vidrecover/internal/domain"
	"github.com/bft-labs/vidrecover/internal/ports"
)

// Reassembly is the outcome of folding a set of frame results.
type Reassembly struct {
	Output []byte
	Stats  domain.ReassemblyStats
}

// Reassembler turns classified frames into the payload stream.
type Reassembler struct {
	logger  ports.Logger
	emitter EventEmitter
	meta    bool
}

// NewReassembler creates a reassembler. With meta set, every packet header
// is logged at debug level.
func NewReassembler(logger ports.Logger, emitter EventEmitter, meta bool) *Reassembler {
	return &Reassembler{
		logger:  logger,
		emitter: emitterOrNoop(emitter),
		meta:    meta,
	}
}

// Reassemble sorts results by frame index and folds them through a fresh
// ReassemblyState. The input slice is not modified, so calling it twice on
// the same results yields identical output.
func (r *Reassembler) Reassemble(results []domain.FrameResult) Reassembly {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b domain.FrameResult) int {
		return a.Index - b.Index
	})

	state := domain.NewReassemblyState()
	for _, res := range sorted {
		p, err := domain.ParsePacket(res)
		if err != nil {
			state.Reject()
			r.logger.Warn("malformed packet dropped",
				ports.Int("frame", res.Index),
				ports.Int("tiles", len(res.Bytes)),
				ports.Err(err),
			)
			r.emitter.OnPacket(res.Index, domain.OutcomeMalformed)
			continue
		}

		if r.meta {
			r.logger.Debug("packet",
				ports.Int("frame", p.FrameIndex),
				ports.Uint8("seq", p.Sequence),
				ports.Int("length", int(p.Length)),
				ports.Uint8("version", p.Version),
				ports.Bool("magic", p.HasMagic()),
			)
		}

		expected := state.Next()
		err = state.Accept(p)
		outcome := domain.OutcomeOf(err)
		switch outcome {
		case domain.OutcomeDuplicate:
			r.logger.Debug("duplicate packet dropped",
				ports.Int("frame", p.FrameIndex),
				ports.Uint8("seq", p.Sequence),
			)
		case domain.OutcomeMismatch:
			r.logger.Warn("packet out of order dropped",
				ports.Int("frame", p.FrameIndex),
				ports.Uint8("seq", p.Sequence),
				ports.Uint8("expected", expected),
			)
		}
		r.emitter.OnPacket(p.FrameIndex, outcome)
	}

	out := state.Output()
	if out == nil {
		out = []byte{}
	}
	return Reassembly{Output: out, Stats: state.Stats()}
}
