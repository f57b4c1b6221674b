package hwplayer

import (
	"context"
	"io"
)

// Player runs hardware-accelerated playback of one input: it decodes the
// input LoopCount times (at least once) and hands every decoded frame to the
// configured sinks.
type Player interface {
	io.Closer

	Play(ctx context.Context, url string) error
	GetStats(ctx context.Context) (*Stats, error)
}

type Stats struct {
	FramesDispatched uint64
	PassesCompleted  uint64
}
