package player

import (
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
)

func TestPickHardwareFormat(t *testing.T) {
	t.Run("matching_entry_not_first", func(t *testing.T) {
		pf, ok := pickHardwareFormat([]hardwareConfig{
			{SupportsDeviceContext: true, DeviceType: astiav.HardwareDeviceTypeVAAPI, PixelFormat: astiav.PixelFormatVaapi},
			{SupportsDeviceContext: false, DeviceType: astiav.HardwareDeviceTypeDRM, PixelFormat: astiav.PixelFormatYuv420P},
			{SupportsDeviceContext: true, DeviceType: astiav.HardwareDeviceTypeDRM, PixelFormat: astiav.PixelFormatDrmPrime},
		}, astiav.HardwareDeviceTypeDRM)
		require.True(t, ok)
		require.Equal(t, astiav.PixelFormatDrmPrime, pf)
	})

	t.Run("first_match_wins", func(t *testing.T) {
		pf, ok := pickHardwareFormat([]hardwareConfig{
			{SupportsDeviceContext: true, DeviceType: astiav.HardwareDeviceTypeDRM, PixelFormat: astiav.PixelFormatDrmPrime},
			{SupportsDeviceContext: true, DeviceType: astiav.HardwareDeviceTypeDRM, PixelFormat: astiav.PixelFormatYuv420P},
		}, astiav.HardwareDeviceTypeDRM)
		require.True(t, ok)
		require.Equal(t, astiav.PixelFormatDrmPrime, pf)
	})

	t.Run("device_context_flag_required", func(t *testing.T) {
		_, ok := pickHardwareFormat([]hardwareConfig{
			{SupportsDeviceContext: false, DeviceType: astiav.HardwareDeviceTypeDRM, PixelFormat: astiav.PixelFormatDrmPrime},
		}, astiav.HardwareDeviceTypeDRM)
		require.False(t, ok)
	})

	t.Run("no_entries", func(t *testing.T) {
		pf, ok := pickHardwareFormat(nil, astiav.HardwareDeviceTypeDRM)
		require.False(t, ok)
		require.Equal(t, astiav.PixelFormatNone, pf)
	})
}

func TestBypassPixelFormat(t *testing.T) {
	t.Run("m2m_decoder_bypasses_enumeration", func(t *testing.T) {
		pf, ok := bypassPixelFormat(v4l2m2mH264DecoderName)
		require.True(t, ok)
		require.Equal(t, astiav.PixelFormatDrmPrime, pf)
	})

	t.Run("other_decoders_enumerate", func(t *testing.T) {
		_, ok := bypassPixelFormat("hevc")
		require.False(t, ok)
	})
}
