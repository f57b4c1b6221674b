package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/hwplayer"
)

// Player drives the whole pipeline: per pass it opens the input, negotiates
// a hardware decoding session, feeds/drains it packet by packet and hands
// every decoded frame to the dispatcher; and it repeats the pass according
// to the configured loop count. The raw dump file (if any) is the only
// resource that survives across passes.
type Player struct {
	Config  hwplayer.PlayerConfig
	Display OutputSink

	dump *RawDump

	framesDispatched atomic.Uint64
	passesCompleted  atomic.Uint64

	openSource func(ctx context.Context, url string) (StreamSource, error)
	newSession func(ctx context.Context, stream VideoStream) (DecoderSession, error)
}

var _ hwplayer.Player = (*Player)(nil)

func New(
	ctx context.Context,
	cfg hwplayer.PlayerConfig,
	display OutputSink,
) (_ret *Player, _err error) {
	if display == nil {
		display = NopDisplay()
	}

	hardwareDeviceType := astiav.FindHardwareDeviceTypeByName(string(cfg.HardwareDeviceTypeName))
	if hardwareDeviceType == astiav.HardwareDeviceTypeNone {
		return nil, fmt.Errorf(
			"the hardware device '%s' not found: %w",
			cfg.HardwareDeviceTypeName, hwplayer.ErrUnsupportedDeviceType,
		)
	}

	p := &Player{
		Config:  cfg,
		Display: display,
	}
	p.openSource = func(ctx context.Context, url string) (StreamSource, error) {
		return NewInputFromURL(ctx, url)
	}
	p.newSession = func(ctx context.Context, stream VideoStream) (DecoderSession, error) {
		return NewDecoder(ctx, stream, hardwareDeviceType, cfg.HardwareDeviceTypeName, cfg.CodecName)
	}

	if cfg.OutputPath != "" {
		dump, err := NewRawDump(ctx, cfg.OutputPath)
		if err != nil {
			return nil, err
		}
		p.dump = dump
	}

	return p, nil
}

func (p *Player) Play(
	ctx context.Context,
	url string,
) (_err error) {
	logger.Debugf(ctx, "Play('%s')", url)
	defer func() { logger.Debugf(ctx, "/Play('%s'): %v", url, _err) }()

	// The decrement-then-test order matches the replay semantics of the
	// original tool: any loop count below two still means exactly one pass.
	remaining := int64(p.Config.LoopCount)
	for {
		if err := p.playOnce(ctx, url); err != nil {
			return err
		}
		p.passesCompleted.Add(1)

		remaining--
		if remaining <= 0 {
			return nil
		}
	}
}

func (p *Player) playOnce(
	ctx context.Context,
	url string,
) (_err error) {
	src, err := p.openSource(ctx, url)
	if err != nil {
		return fmt.Errorf("unable to open '%s': %w", url, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			_err = multierror.Append(_err, fmt.Errorf("unable to close the input: %w", err)).ErrorOrNil()
		}
	}()

	stream, err := src.BestVideoStream(ctx)
	if err != nil {
		return err
	}

	session, err := p.newSession(ctx, stream)
	if err != nil {
		return fmt.Errorf("unable to initialize a decoding session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			_err = multierror.Append(_err, fmt.Errorf("unable to close the decoding session: %w", err)).ErrorOrNil()
		}
	}()

	dispatcher := &FrameDispatcher{
		Sinks:  p.sinks(),
		Budget: NewFrameBudget(p.Config.FrameCount),
		Count:  &p.framesDispatched,
	}

	stopped := false
	for !stopped {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pkt, err := src.ReadPacket(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if pkt.StreamIndex != stream.Index {
			pkt.Unref()
			continue
		}

		err = session.SendPacket(ctx, pkt)
		pkt.Unref()
		if err != nil {
			return err
		}

		stopped, err = p.drainAndDispatch(ctx, session, dispatcher)
		if err != nil {
			return err
		}
	}

	// Drain the decoder even when the budget already stopped the pass; the
	// dispatcher releases any trailing frames without dispatching them.
	if err := session.Flush(ctx); err != nil {
		return err
	}
	if _, err := p.drainAndDispatch(ctx, session, dispatcher); err != nil {
		return err
	}

	return nil
}

func (p *Player) drainAndDispatch(
	ctx context.Context,
	session DecoderSession,
	dispatcher *FrameDispatcher,
) (_stop bool, _err error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		frame, err := session.ReceiveFrame(ctx)
		switch {
		case errors.Is(err, ErrNeedMoreInput):
			return false, nil
		case errors.Is(err, io.EOF):
			return true, nil
		case err != nil:
			return false, err
		}

		result, err := dispatcher.Dispatch(ctx, frame)
		if err != nil {
			return false, err
		}
		if result == DispatchStop {
			return true, nil
		}
	}
}

func (p *Player) sinks() []OutputSink {
	sinks := []OutputSink{p.Display}
	if p.dump != nil {
		sinks = append(sinks, p.dump)
	}
	return sinks
}

func (p *Player) GetStats(
	_ context.Context,
) (*hwplayer.Stats, error) {
	return &hwplayer.Stats{
		FramesDispatched: p.framesDispatched.Load(),
		PassesCompleted:  p.passesCompleted.Load(),
	}, nil
}

func (p *Player) Close() error {
	if p.dump == nil {
		return nil
	}
	return p.dump.Close()
}
