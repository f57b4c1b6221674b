package hwplayer

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func TestPlayerConfigMarshalUnmarshal(t *testing.T) {
	cfg := &PlayerConfig{
		LoopCount:              2,
		FrameCount:             30,
		OutputPath:             "/tmp/out.yuv",
		HardwareDeviceTypeName: "drm",
		CodecName:              "h264_v4l2m2m",
	}

	b, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var cfgDup PlayerConfig
	err = yaml.Unmarshal(b, &cfgDup)
	require.NoError(t, err)

	require.Equal(t, cfg, &cfgDup)
}

func TestParsePlayerConfigDefaults(t *testing.T) {
	cfg, err := ParsePlayerConfig([]byte(`loop_count: 3`))
	require.NoError(t, err)
	require.Equal(t, uint(3), cfg.LoopCount)
	require.Equal(t, int64(FrameCountUnlimited), cfg.FrameCount)
	require.Equal(t, HardwareDeviceTypeName("drm"), cfg.HardwareDeviceTypeName)
}

func TestParsePlayerConfigInvalid(t *testing.T) {
	_, err := ParsePlayerConfig([]byte("\tnot yaml"))
	require.Error(t, err)
}
