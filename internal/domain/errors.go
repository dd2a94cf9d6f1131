package domain

import "errors"

// Fatal errors abort the whole decode and no output is produced.
var (
	// ErrSourceFailure is returned when the frame source fails to demux or decode.
	ErrSourceFailure = errors.New("vidrecover: frame source failure")

	// ErrClassificationFailure is returned when a kernel invocation fails.
	// A single failed frame fails the whole join.
	ErrClassificationFailure = errors.New("vidrecover: classification failure")

	// ErrAmbiguousTile is the cause of a classification failure when the
	// kernel reported SentinelTile and the sentinel policy is to fail.
	ErrAmbiguousTile = errors.New("vidrecover: ambiguous tile")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("vidrecover: invalid configuration")
)

// Recoverable errors drop a single packet; reassembly continues.
var (
	// ErrSequenceMismatch marks a packet whose sequence number is not the
	// next expected one.
	ErrSequenceMismatch = errors.New("vidrecover: sequence mismatch")

	// ErrDuplicateFrame marks a packet repeating the last accepted sequence number.
	ErrDuplicateFrame = errors.New("vidrecover: duplicate frame")

	// ErrMalformedPacket marks a result too short for the header or whose
	// length field runs past the classified bytes.
	ErrMalformedPacket = errors.New("vidrecover: malformed packet")
)
