package asset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

func loadMP3(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open mp3: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("asset: decode mp3: %w", err)
	}

	// go-mp3 always emits 16-bit stereo little-endian
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("asset: read mp3: %w", err)
	}

	count := len(raw) / 4
	if count == 0 {
		return nil, ErrNoAudioData
	}

	out := make([][2]float64, count)
	for i := 0; i < count; i++ {
		l := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2 : i*4+4]))
		out[i] = [2]float64{float64(l) / 32768.0, float64(r) / 32768.0}
	}
	return New(path, dec.SampleRate(), out), nil
}
