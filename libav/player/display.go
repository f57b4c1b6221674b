package player

import (
	"context"
)

// DisplayFunc adapts a function to the display sink position. The actual
// presentation surface (e.g. a DRM plane) lives outside this package; it is
// expected to accept hardware-resident frames as-is.
type DisplayFunc func(ctx context.Context, frame *Frame) error

var _ OutputSink = (DisplayFunc)(nil)

func (fn DisplayFunc) SendFrame(ctx context.Context, frame *Frame) error {
	return fn(ctx, frame)
}

// NopDisplay discards frames; useful when only the raw dump matters.
func NopDisplay() DisplayFunc {
	return func(context.Context, *Frame) error {
		return nil
	}
}
