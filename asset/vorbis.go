package asset

import (
	"fmt"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

func loadVorbis(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open ogg: %w", err)
	}
	defer f.Close()

	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("asset: decode ogg: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudioData
	}

	interleaved := make([]float64, len(data))
	for i, v := range data {
		interleaved[i] = float64(v)
	}

	out := frames(interleaved, format.Channels)
	if len(out) == 0 {
		return nil, ErrNoAudioData
	}
	return New(path, format.SampleRate, out), nil
}
