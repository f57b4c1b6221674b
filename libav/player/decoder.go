package player

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/hwplayer"
)

// ErrNeedMoreInput is returned by ReceiveFrame when the decoder has no frame
// ready and needs another packet first. It is control flow, not a failure.
var ErrNeedMoreInput = errors.New("the decoder needs more input")

const decoderThreadCount = 3

// DecoderSession is the feed/drain surface of one decoding session. It is
// created per playback pass and closed with it.
type DecoderSession interface {
	io.Closer
	SendPacket(ctx context.Context, pkt *Packet) error
	ReceiveFrame(ctx context.Context) (*Frame, error)
	Flush(ctx context.Context) error
}

type Decoder struct {
	codec                 *astiav.Codec
	codecContext          *astiav.CodecContext
	hardwareDeviceContext *astiav.HardwareDeviceContext
	hardwarePixelFormat   astiav.PixelFormat
}

var _ DecoderSession = (*Decoder)(nil)

func NewDecoder(
	ctx context.Context,
	stream VideoStream,
	hardwareDeviceType astiav.HardwareDeviceType,
	hardwareDeviceTypeName hwplayer.HardwareDeviceTypeName,
	codecName hwplayer.CodecName,
) (_ret *Decoder, _err error) {
	decoder := &Decoder{}
	defer func() {
		if _err != nil {
			_ = decoder.Close()
		}
	}()

	var err error
	decoder.codec, decoder.hardwarePixelFormat, err = negotiateHardwareDecoder(
		ctx,
		stream.CodecID,
		codecName,
		hardwareDeviceType,
	)
	if err != nil {
		return nil, err
	}

	if decoder.codecContext = astiav.AllocCodecContext(decoder.codec); decoder.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate codec context")
	}

	if err := stream.CodecParameters.ToCodecContext(decoder.codecContext); err != nil {
		return nil, fmt.Errorf("CodecParameters().ToCodecContext(...) returned error: %w", err)
	}

	hardwarePixelFormat := decoder.hardwarePixelFormat
	decoder.codecContext.SetPixelFormatCallback(func(pfs []astiav.PixelFormat) astiav.PixelFormat {
		for _, pf := range pfs {
			if pf == hardwarePixelFormat {
				return pf
			}
		}

		logger.Errorf(ctx, "unable to find appropriate pixel format")
		return astiav.PixelFormatNone
	})

	decoder.hardwareDeviceContext, err = astiav.CreateHardwareDeviceContext(
		hardwareDeviceType,
		string(hardwareDeviceTypeName),
		nil,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create hardware device context: %w", err)
	}
	decoder.codecContext.SetHardwareDeviceContext(decoder.hardwareDeviceContext)

	decoder.codecContext.SetThreadCount(decoderThreadCount)

	if err := decoder.codecContext.Open(decoder.codec, nil); err != nil {
		return nil, fmt.Errorf("unable to open codec context: %w", err)
	}

	return decoder, nil
}

func (d *Decoder) HardwarePixelFormat() astiav.PixelFormat {
	return d.hardwarePixelFormat
}

func (d *Decoder) SendPacket(
	_ context.Context,
	pkt *Packet,
) error {
	if err := d.codecContext.SendPacket(pkt.Packet); err != nil {
		return fmt.Errorf("unable to send the packet to the decoder: %w", err)
	}
	return nil
}

// Flush puts the decoder into draining mode; afterwards ReceiveFrame yields
// the remaining frames and then io.EOF.
func (d *Decoder) Flush(
	_ context.Context,
) error {
	if err := d.codecContext.SendPacket(nil); err != nil {
		return fmt.Errorf("unable to send the flush packet to the decoder: %w", err)
	}
	return nil
}

// ReceiveFrame returns the next decoded frame. It returns ErrNeedMoreInput
// when the decoder wants another packet first and io.EOF when the session is
// fully drained; both are expected, any other error is fatal.
func (d *Decoder) ReceiveFrame(
	_ context.Context,
) (_ret *Frame, _err error) {
	frame := astiav.AllocFrame()
	defer func() {
		if _err != nil {
			frame.Free()
		}
	}()

	err := d.codecContext.ReceiveFrame(frame)
	switch {
	case err == nil:
		return &Frame{
			Frame:               frame,
			hardwarePixelFormat: d.hardwarePixelFormat,
		}, nil
	case errors.Is(err, astiav.ErrEagain):
		return nil, ErrNeedMoreInput
	case errors.Is(err, astiav.ErrEof):
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("unable to receive a frame from the decoder: %w", err)
	}
}

func (d *Decoder) Close() error {
	if d.codecContext != nil {
		d.codecContext.Free()
		d.codecContext = nil
	}
	if d.hardwareDeviceContext != nil {
		d.hardwareDeviceContext.Free()
		d.hardwareDeviceContext = nil
	}
	return nil
}
