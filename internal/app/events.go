package app

import (
	"time"

	"github.com/bft-labs/vidrecover/internal/domain"
)

// EventEmitter observes a decode run. Implementations must be safe for
// concurrent use: OnFrameClassified is called from classification tasks.
type EventEmitter interface {
	OnStreamInfo(info domain.StreamInfo)
	OnFrameClassified(frameIndex, numTiles int, duration time.Duration)
	OnPacket(frameIndex int, outcome domain.PacketOutcome)
	OnOutput(bytes int)
}

type noopEmitter struct{}

func (noopEmitter) OnStreamInfo(domain.StreamInfo)            {}
func (noopEmitter) OnFrameClassified(int, int, time.Duration) {}
func (noopEmitter) OnPacket(int, domain.PacketOutcome)        {}
func (noopEmitter) OnOutput(int)                              {}

func emitterOrNoop(e EventEmitter) EventEmitter {
	if e == nil {
		return noopEmitter{}
	}
	return e
}
