// Package asset loads audio files into in-memory PCM streams.
// A Stream is immutable once loaded; each playback slot pulls its own
// cursor so slots never share read position.
package asset

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
)

// Stream is a decoded audio asset: stereo float64 frames at a fixed rate
type Stream struct {
	name    string
	rate    int
	samples [][2]float64
}

// New wraps pre-built samples as a Stream, used by tests and generated tones
func New(name string, rate int, samples [][2]float64) *Stream {
	return &Stream{name: name, rate: rate, samples: samples}
}

func (s *Stream) Name() string {
	return s.name
}

func (s *Stream) SampleRate() int {
	return s.rate
}

func (s *Stream) Len() int {
	return len(s.samples)
}

func (s *Stream) Duration() time.Duration {
	if s.rate == 0 {
		return 0
	}
	return time.Duration(len(s.samples)) * time.Second / time.Duration(s.rate)
}

// Streamer returns an independent playback cursor over the stream
func (s *Stream) Streamer(loop bool) beep.Streamer {
	return &cursor{stream: s, loop: loop}
}

type cursor struct {
	stream *Stream
	pos    int
	loop   bool
}

func (c *cursor) Stream(samples [][2]float64) (n int, ok bool) {
	src := c.stream.samples
	if len(src) == 0 {
		return 0, false
	}
	for i := range samples {
		if c.pos >= len(src) {
			if !c.loop {
				return i, i > 0
			}
			c.pos = 0
		}
		samples[i] = src[c.pos]
		c.pos++
	}
	return len(samples), true
}

func (c *cursor) Err() error { return nil }

// Load decodes an audio file by extension.
// Supported: .wav, .mp3, .ogg, .oga
func Load(path string) (*Stream, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return loadWav(path)
	case ".mp3":
		return loadMP3(path)
	case ".ogg", ".oga":
		return loadVorbis(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// frames converts interleaved float samples into stereo frames
// Mono input is duplicated; extra channels beyond two are dropped
func frames(interleaved []float64, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
	count := len(interleaved) / channels
	out := make([][2]float64, count)
	for i := 0; i < count; i++ {
		l := interleaved[i*channels]
		r := l
		if channels > 1 {
			r = interleaved[i*channels+1]
		}
		out[i] = [2]float64{l, r}
	}
	return out
}
