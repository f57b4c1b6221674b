package player

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/hwplayer"
)

// The stateless V4L2 path is the only practical hardware route for H.264 on
// the boards this was written for, and the m2m decoder does not advertise it
// via HardwareConfigs, so it is special-cased.
const v4l2m2mH264DecoderName = "h264_v4l2m2m"

type hardwareConfig struct {
	SupportsDeviceContext bool
	DeviceType            astiav.HardwareDeviceType
	PixelFormat           astiav.PixelFormat
}

// negotiateHardwareDecoder selects the decoder implementation and the
// hardware pixel format a decoding session should request for the given
// codec and device type.
func negotiateHardwareDecoder(
	ctx context.Context,
	codecID astiav.CodecID,
	codecName hwplayer.CodecName,
	deviceType astiav.HardwareDeviceType,
) (*astiav.Codec, astiav.PixelFormat, error) {
	if codecName != "" {
		codec := astiav.FindDecoderByName(string(codecName))
		if codec == nil {
			return nil, astiav.PixelFormatNone, fmt.Errorf("unable to find a decoder named '%s'", codecName)
		}
		if pixelFormat, ok := bypassPixelFormat(string(codecName)); ok {
			logger.Debugf(ctx, "decoder '%s' is memory-to-memory, using '%v' without enumeration", codecName, pixelFormat)
			return codec, pixelFormat, nil
		}
		return codecWithEnumeratedFormat(ctx, codec, deviceType)
	}

	if codecID == astiav.CodecIDH264 {
		codec := astiav.FindDecoderByName(v4l2m2mH264DecoderName)
		if codec == nil {
			return nil, astiav.PixelFormatNone, fmt.Errorf("unable to find the '%s' decoder", v4l2m2mH264DecoderName)
		}
		logger.Debugf(ctx, "using the '%s' decoder with the DRM-PRIME pixel format", v4l2m2mH264DecoderName)
		return codec, astiav.PixelFormatDrmPrime, nil
	}

	codec := astiav.FindDecoder(codecID)
	if codec == nil {
		return nil, astiav.PixelFormatNone, fmt.Errorf("unable to find a decoder using codec ID %v", codecID)
	}
	return codecWithEnumeratedFormat(ctx, codec, deviceType)
}

func codecWithEnumeratedFormat(
	ctx context.Context,
	codec *astiav.Codec,
	deviceType astiav.HardwareDeviceType,
) (*astiav.Codec, astiav.PixelFormat, error) {
	var candidates []hardwareConfig
	for _, p := range codec.HardwareConfigs() {
		candidates = append(candidates, hardwareConfig{
			SupportsDeviceContext: p.MethodFlags().Has(astiav.CodecHardwareConfigMethodFlagHwDeviceCtx),
			DeviceType:            p.HardwareDeviceType(),
			PixelFormat:           p.PixelFormat(),
		})
	}

	pixelFormat, ok := pickHardwareFormat(candidates, deviceType)
	if !ok {
		return nil, astiav.PixelFormatNone, fmt.Errorf(
			"decoder '%s' does not support device type '%v': %w",
			codec.Name(), deviceType, hwplayer.ErrUnsupportedConfiguration,
		)
	}
	logger.Debugf(ctx, "decoder '%s' emits '%v' for device type '%v'", codec.Name(), pixelFormat, deviceType)
	return codec, pixelFormat, nil
}

// bypassPixelFormat returns the fixed pixel format of decoders whose
// hardware path is a memory-to-memory device; those advertise no hardware
// configurations, so enumeration must be skipped for them.
func bypassPixelFormat(decoderName string) (astiav.PixelFormat, bool) {
	if decoderName == v4l2m2mH264DecoderName {
		return astiav.PixelFormatDrmPrime, true
	}
	return astiav.PixelFormatNone, false
}

// pickHardwareFormat returns the pixel format of the first advertised
// configuration that supports device-context hardware acceleration on the
// requested device type.
func pickHardwareFormat(
	candidates []hardwareConfig,
	deviceType astiav.HardwareDeviceType,
) (astiav.PixelFormat, bool) {
	for _, c := range candidates {
		if c.SupportsDeviceContext && c.DeviceType == deviceType {
			return c.PixelFormat, true
		}
	}
	return astiav.PixelFormatNone, false
}
