package hwplayer

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

type HardwareDeviceTypeName string

type CodecName string

// FrameCountUnlimited disables the per-pass frame budget.
const FrameCountUnlimited = -1

type PlayerConfig struct {
	// LoopCount is how many times to replay the input. Zero (the default)
	// still plays the input once.
	LoopCount uint `json:"loop_count,omitempty" yaml:"loop_count,omitempty"`

	// FrameCount is the per-pass frame budget. FrameCountUnlimited disables
	// it; zero stops after the first dispatched frame.
	FrameCount int64 `json:"frame_count,omitempty" yaml:"frame_count,omitempty"`

	// OutputPath enables the raw dump sink when non-empty.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	HardwareDeviceTypeName HardwareDeviceTypeName `json:"hardware_device_type,omitempty" yaml:"hardware_device_type,omitempty"`

	// CodecName overrides the decoder selection by name (otherwise the
	// decoder is derived from the input stream's codec ID).
	CodecName CodecName `json:"codec_name,omitempty" yaml:"codec_name,omitempty"`
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		FrameCount:             FrameCountUnlimited,
		HardwareDeviceTypeName: "drm",
	}
}

func ParsePlayerConfig(b []byte) (*PlayerConfig, error) {
	cfg := DefaultPlayerConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("unable to un-YAML-ize the player config: %w", err)
	}
	return &cfg, nil
}
