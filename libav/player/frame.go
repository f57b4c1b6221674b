package player

import (
	"fmt"

	"github.com/asticode/go-astiav"
)

// Frame is one decoded image. If the decoder is hardware-backed, the pixel
// data may still live in device memory; TransferToRAM produces a host-resident
// copy. A Frame is owned by whoever received it and must be Close-d after one
// dispatch cycle.
type Frame struct {
	*astiav.Frame

	hardwarePixelFormat astiav.PixelFormat
}

func (f *Frame) IsHardwareBacked() bool {
	return f.Frame != nil &&
		f.hardwarePixelFormat != astiav.PixelFormatNone &&
		f.Frame.PixelFormat() == f.hardwarePixelFormat
}

// TransferToRAM copies the pixel data from the hardware device to a newly
// allocated host-resident frame. The caller owns the result.
func (f *Frame) TransferToRAM() (_ret *Frame, _err error) {
	swFrame := astiav.AllocFrame()
	defer func() {
		if _err != nil {
			swFrame.Free()
		}
	}()

	if err := f.Frame.TransferHardwareData(swFrame); err != nil {
		return nil, fmt.Errorf("unable to transfer the frame data from the hardware device to RAM: %w", err)
	}
	swFrame.SetPts(f.Frame.Pts())

	return &Frame{Frame: swFrame}, nil
}

func (f *Frame) Close() error {
	if f.Frame != nil {
		f.Frame.Free()
		f.Frame = nil
	}
	return nil
}
