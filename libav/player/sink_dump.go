package player

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/xsync"
)

// RawDump appends the raw pixel planes of every frame it receives to one
// file: no header, no per-frame delimiter, rows packed at 1-byte alignment.
// The same handle is reused by every playback pass, so the passes concatenate
// into a single file.
type RawDump struct {
	Locker xsync.Mutex

	dst  io.Writer
	file *os.File
}

var _ OutputSink = (*RawDump)(nil)

func NewRawDump(
	ctx context.Context,
	path string,
) (*RawDump, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open the output file '%s': %w", path, err)
	}
	logger.Debugf(ctx, "dumping raw frames into '%s'", path)
	return &RawDump{
		dst:  f,
		file: f,
	}, nil
}

func newRawDumpToWriter(dst io.Writer) *RawDump {
	return &RawDump{dst: dst}
}

func (d *RawDump) SendFrame(
	ctx context.Context,
	frame *Frame,
) error {
	return xsync.DoR1(ctx, &d.Locker, func() error {
		return d.writeFrame(ctx, frame)
	})
}

func (d *RawDump) writeFrame(
	ctx context.Context,
	frame *Frame,
) (_err error) {
	target := frame
	if frame.IsHardwareBacked() {
		swFrame, err := frame.TransferToRAM()
		if err != nil {
			return fmt.Errorf("unable to get a host-resident copy of the frame: %w", err)
		}
		defer func() {
			if err := swFrame.Close(); err != nil {
				logger.Errorf(ctx, "unable to close the host-resident frame copy: %v", err)
			}
		}()
		target = swFrame
	}

	size, err := target.ImageBufferSize(1)
	if err != nil {
		return fmt.Errorf("unable to compute the image buffer size: %w", err)
	}
	buf := make([]byte, size)
	if _, err := target.ImageCopyToBuffer(buf, 1); err != nil {
		return fmt.Errorf("unable to copy the image into the buffer: %w", err)
	}

	n, err := d.dst.Write(buf)
	if err != nil {
		return fmt.Errorf("unable to write the frame to the dump: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("unable to write the frame to the dump: %w", io.ErrShortWrite)
	}
	return nil
}

func (d *RawDump) Close() error {
	if d.file == nil {
		return nil
	}
	if err := d.file.Close(); err != nil {
		return fmt.Errorf("unable to close the dump file: %w", err)
	}
	d.file = nil
	return nil
}
