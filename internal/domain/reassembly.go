package domain

import (
	"errors"
	"fmt"
)

// PacketOutcome is what the reassembly state did with one packet.
type PacketOutcome int

const (
	OutcomeAccepted PacketOutcome = iota
	OutcomeDuplicate
	OutcomeMismatch
	OutcomeMalformed
)

// String returns a human-readable representation of the outcome.
func (o PacketOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ReassemblyStats counts packet outcomes of one reassembly run.
type ReassemblyStats struct {
	Packets    int `json:"packets"`
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Mismatches int `json:"mismatches"`
	Malformed  int `json:"malformed"`
	Bytes      int `json:"bytes"`
}

// ReassemblyState folds packets into the output buffer.
// It must be fed in frame index order and is not safe for concurrent use.
type ReassemblyState struct {
	prev    uint8
	hasPrev bool
	next    uint8
	output  []byte
	stats   ReassemblyStats
}

// NewReassemblyState returns a state expecting sequence number 0.
func NewReassemblyState() *ReassemblyState {
	return &ReassemblyState{}
}

// Accept applies one packet. It returns nil when the payload was appended,
// ErrDuplicateFrame or ErrSequenceMismatch when the packet was dropped.
// A dropped packet leaves the state unchanged.
func (s *ReassemblyState) Accept(p Packet) error {
	s.stats.Packets++

	if s.hasPrev && p.Sequence == s.prev {
		s.stats.Duplicates++
		return fmt.Errorf("%w: seq %d", ErrDuplicateFrame, p.Sequence)
	}
	if p.Sequence != s.next {
		s.stats.Mismatches++
		return fmt.Errorf("%w: got %d, expected %d", ErrSequenceMismatch, p.Sequence, s.next)
	}

	s.output = append(s.output, p.Payload...)
	s.prev = p.Sequence
	s.hasPrev = true
	// uint8 arithmetic wraps 255 -> 0
	s.next = p.Sequence + 1
	s.stats.Accepted++
	s.stats.Bytes = len(s.output)
	return nil
}

// Reject records a packet that could not be parsed.
func (s *ReassemblyState) Reject() {
	s.stats.Packets++
	s.stats.Malformed++
}

// Next returns the next expected sequence number.
func (s *ReassemblyState) Next() uint8 {
	return s.next
}

// Output returns the accumulated payload bytes.
func (s *ReassemblyState) Output() []byte {
	return s.output
}

// Stats returns the outcome counters so far.
func (s *ReassemblyState) Stats() ReassemblyStats {
	return s.stats
}

// OutcomeOf maps an Accept or ParsePacket error to its outcome.
func OutcomeOf(err error) PacketOutcome {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, ErrDuplicateFrame):
		return OutcomeDuplicate
	case errors.Is(err, ErrSequenceMismatch):
		return OutcomeMismatch
	default:
		return OutcomeMalformed
	}
}
