package hwplayer

import "errors"

var (
	// ErrUnsupportedDeviceType means the requested hardware device type is
	// unknown to the libav build.
	ErrUnsupportedDeviceType = errors.New("unsupported hardware device type")

	// ErrUnsupportedConfiguration means the decoder advertises no hardware
	// configuration matching the requested device type.
	ErrUnsupportedConfiguration = errors.New("no matching hardware decoder configuration")

	// ErrNoVideoStream means the input contains no video stream.
	ErrNoVideoStream = errors.New("no video stream found")
)
