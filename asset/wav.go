package asset

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

func loadWav(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWav
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("asset: decode wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrNoAudioData
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	interleaved := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = float64(v) / scale
	}

	out := frames(interleaved, buf.Format.NumChannels)
	if len(out) == 0 {
		return nil, ErrNoAudioData
	}
	return New(path, buf.Format.SampleRate, out), nil
}
