// Package domain contains the core entities and value objects for vidrecover.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (video decoding, file system, logging) and contains
// only the tiling arithmetic, the packet layout and the reassembly rules.
//
// # Entities
//
//   - [Frame]: one decoded RGBA video frame tagged with its arrival index
//   - [TileGrid]: the fixed 48x48 tile partition of a frame
//   - [FrameResult]: the dense per-tile byte array classified from a frame
//   - [Packet]: the link-layer view (sequence, length, payload) of a result
//   - [ReassemblyState]: the sequencing state machine and output buffer
//
// Domain entities are free of infrastructure dependencies and testable
// without mocks.
package domain
