package asset

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no decoder handles
	ErrUnsupportedFormat = errors.New("asset: unsupported audio format")

	// ErrNoAudioData is returned when a file decodes to zero frames
	ErrNoAudioData = errors.New("asset: no audio data")

	// ErrInvalidWav is returned when a .wav file fails header validation
	ErrInvalidWav = errors.New("asset: invalid wav file")
)
