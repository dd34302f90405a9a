package asset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestCursorEnds(t *testing.T) {
	s := New("t", 100, [][2]float64{{1, 1}, {2, 2}, {3, 3}})
	c := s.Streamer(false)

	buf := make([][2]float64, 5)
	n, ok := c.Stream(buf)
	if n != 3 || !ok {
		t.Fatalf("Stream = %d %v, want 3 true", n, ok)
	}
	if buf[2] != ([2]float64{3, 3}) {
		t.Errorf("last sample = %v", buf[2])
	}

	n, ok = c.Stream(buf)
	if n != 0 || ok {
		t.Errorf("drained cursor Stream = %d %v, want 0 false", n, ok)
	}
}

func TestCursorLoops(t *testing.T) {
	s := New("t", 100, [][2]float64{{1, 1}, {2, 2}})
	c := s.Streamer(true)

	buf := make([][2]float64, 5)
	n, ok := c.Stream(buf)
	if n != 5 || !ok {
		t.Fatalf("Stream = %d %v, want full loop", n, ok)
	}
	want := [][2]float64{{1, 1}, {2, 2}, {1, 1}, {2, 2}, {1, 1}}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestCursorsIndependent(t *testing.T) {
	s := New("t", 100, [][2]float64{{1, 1}, {2, 2}, {3, 3}})
	a := s.Streamer(false)
	b := s.Streamer(false)

	buf := make([][2]float64, 2)
	a.Stream(buf)

	n, ok := b.Stream(buf)
	if n != 2 || !ok {
		t.Fatalf("second cursor Stream = %d %v", n, ok)
	}
	if buf[0] != ([2]float64{1, 1}) {
		t.Errorf("second cursor starts at %v, want beginning", buf[0])
	}
}

func TestStreamDuration(t *testing.T) {
	s := New("t", 44100, make([][2]float64, 44100))
	if s.Duration().Seconds() != 1 {
		t.Errorf("Duration = %v, want 1s", s.Duration())
	}
	if s.Len() != 44100 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestFramesMonoDuplicated(t *testing.T) {
	out := frames([]float64{0.1, 0.2}, 1)
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0][0] != 0.1 || out[0][1] != 0.1 {
		t.Errorf("mono frame = %v, want duplicated", out[0])
	}
}

func TestFramesExtraChannelsDropped(t *testing.T) {
	out := frames([]float64{0.1, 0.2, 0.9, 0.3, 0.4, 0.9}, 3)
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[1] != ([2]float64{0.3, 0.4}) {
		t.Errorf("frame = %v", out[1])
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("sound.flac")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadWavRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	data := make([]int, 800)
	for i := range data {
		data[i] = int(16000 * math.Sin(2*math.Pi*440*float64(i)/8000))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.SampleRate() != 8000 {
		t.Errorf("SampleRate = %d, want 8000", s.SampleRate())
	}
	if s.Len() != 800 {
		t.Errorf("Len = %d, want 800", s.Len())
	}
	for i, frame := range s.samples {
		if frame[0] < -1 || frame[0] > 1 {
			t.Fatalf("sample %d = %v, out of range", i, frame[0])
		}
		if frame[0] != frame[1] {
			t.Fatalf("mono sample %d not duplicated", i)
		}
	}
}

func TestLoadWavInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	if err := os.WriteFile(path, []byte("not a riff file"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid wav")
	}
}
