package player

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingSink) SendFrame(_ context.Context, _ *Frame) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func TestDispatchSinkOrder(t *testing.T) {
	ctx := context.Background()
	var log []string
	d := &FrameDispatcher{
		Sinks: []OutputSink{
			&recordingSink{name: "display", log: &log},
			&recordingSink{name: "dump", log: &log},
		},
		Budget: NewFrameBudget(int64(FrameBudgetUnlimited)),
	}

	result, err := d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Equal(t, DispatchContinue, result)
	require.Equal(t, []string{"display", "dump"}, log)
}

func TestDispatchBudgetStopsGracefully(t *testing.T) {
	ctx := context.Background()
	var log []string
	var count atomic.Uint64
	d := &FrameDispatcher{
		Sinks:  []OutputSink{&recordingSink{name: "display", log: &log}},
		Budget: NewFrameBudget(2),
		Count:  &count,
	}

	result, err := d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Equal(t, DispatchContinue, result)

	result, err = d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Equal(t, DispatchStop, result)
	require.Equal(t, uint64(2), count.Load())

	// a trailing frame after the stop must be swallowed, not dispatched
	result, err = d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Equal(t, DispatchStop, result)
	require.Len(t, log, 2)
	require.Equal(t, uint64(2), count.Load())
}

func TestDispatchSinkFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	var log []string
	d := &FrameDispatcher{
		Sinks: []OutputSink{
			&recordingSink{name: "display", log: &log},
			&recordingSink{name: "dump", log: &log, err: fmt.Errorf("disk full")},
		},
		Budget: NewFrameBudget(int64(FrameBudgetUnlimited)),
	}

	result, err := d.Dispatch(ctx, &Frame{})
	require.Error(t, err)
	require.Equal(t, DispatchStop, result)
	require.Equal(t, []string{"display", "dump"}, log)
}

func TestDispatchZeroBudgetDispatchesExactlyOne(t *testing.T) {
	ctx := context.Background()
	var log []string
	d := &FrameDispatcher{
		Sinks:  []OutputSink{&recordingSink{name: "display", log: &log}},
		Budget: NewFrameBudget(0),
	}

	result, err := d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Equal(t, DispatchStop, result)

	_, err = d.Dispatch(ctx, &Frame{})
	require.NoError(t, err)
	require.Len(t, log, 1)
}
