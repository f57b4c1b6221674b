package player

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// OutputSink consumes decoded frames. A sink never retains the frame beyond
// the SendFrame call.
type OutputSink interface {
	SendFrame(ctx context.Context, frame *Frame) error
}

type DispatchResult int

const (
	DispatchContinue = DispatchResult(iota)
	DispatchStop
)

// FrameDispatcher fans one decoded frame out to the configured sinks, in
// order, under a frame budget. It lives for one playback pass.
type FrameDispatcher struct {
	Sinks  []OutputSink
	Budget *FrameBudget
	Count  *atomic.Uint64

	stopped bool
}

// Dispatch forwards the frame to every sink and accounts it against the
// budget. The frame is released before returning, on every path. Once the
// budget is exhausted, any further frame (e.g. one surfacing while the
// decoder is flushed) is released without being dispatched.
func (d *FrameDispatcher) Dispatch(
	ctx context.Context,
	frame *Frame,
) (_ret DispatchResult, _err error) {
	logger.Tracef(ctx, "Dispatch")
	defer func() { logger.Tracef(ctx, "/Dispatch: %v %v", _ret, _err) }()
	defer func() {
		if err := frame.Close(); err != nil {
			logger.Errorf(ctx, "unable to close the frame: %v", err)
		}
	}()

	if d.stopped {
		return DispatchStop, nil
	}

	for _, sink := range d.Sinks {
		if err := sink.SendFrame(ctx, frame); err != nil {
			return DispatchStop, fmt.Errorf("unable to send the frame to %T: %w", sink, err)
		}
	}
	if d.Count != nil {
		d.Count.Add(1)
	}

	if d.Budget.ConsumeOne() {
		d.stopped = true
		return DispatchStop, nil
	}
	return DispatchContinue, nil
}
