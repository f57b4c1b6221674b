package player

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/hwplayer"
)

// StreamSource provides encoded packets of one input. It is consumed by a
// single playback pass and closed at the end of it.
type StreamSource interface {
	io.Closer
	BestVideoStream(ctx context.Context) (VideoStream, error)
	ReadPacket(ctx context.Context) (*Packet, error)
}

type VideoStream struct {
	Index           int
	CodecID         astiav.CodecID
	CodecParameters *astiav.CodecParameters
}

type Input struct {
	*astikit.Closer
	*astiav.FormatContext

	packet *astiav.Packet
}

var _ StreamSource = (*Input)(nil)

func NewInputFromURL(
	ctx context.Context,
	url string,
) (*Input, error) {
	if url == "" {
		return nil, fmt.Errorf("the provided URL is empty")
	}

	input := &Input{
		Closer: astikit.NewCloser(),
	}

	input.FormatContext = astiav.AllocFormatContext()
	if input.FormatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	input.Closer.Add(input.FormatContext.Free)

	if err := input.FormatContext.OpenInput(url, nil, nil); err != nil {
		_ = input.Closer.Close()
		return nil, fmt.Errorf("unable to open input by URL '%s': %w", url, err)
	}
	input.Closer.Add(input.FormatContext.CloseInput)

	if err := input.FormatContext.FindStreamInfo(nil); err != nil {
		_ = input.Closer.Close()
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	input.packet = astiav.AllocPacket()
	input.Closer.Add(input.packet.Free)

	logger.Debugf(ctx, "opened '%s'", url)
	return input, nil
}

// BestVideoStream returns the first video stream of the input, in container
// order. Inputs with more than one video stream are not ranked any further.
func (i *Input) BestVideoStream(
	_ context.Context,
) (VideoStream, error) {
	for _, stream := range i.FormatContext.Streams() {
		codecParameters := stream.CodecParameters()
		if codecParameters.MediaType() != astiav.MediaTypeVideo {
			continue
		}
		return VideoStream{
			Index:           stream.Index(),
			CodecID:         codecParameters.CodecID(),
			CodecParameters: codecParameters,
		}, nil
	}
	return VideoStream{}, fmt.Errorf("the input has no video: %w", hwplayer.ErrNoVideoStream)
}

// ReadPacket returns the next packet of the input, or io.EOF when the input
// is exhausted. The returned packet references a buffer reused by the next
// call, so it must be Unref-ed before reading again.
func (i *Input) ReadPacket(
	_ context.Context,
) (*Packet, error) {
	err := i.FormatContext.ReadFrame(i.packet)
	switch {
	case err == nil:
		return &Packet{
			Packet:      i.packet,
			StreamIndex: i.packet.StreamIndex(),
		}, nil
	case errors.Is(err, astiav.ErrEof):
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("unable to read a packet: %w", err)
	}
}
