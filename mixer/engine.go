package mixer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/claudehohl/SpatialAudio3D/internal/log"
	"github.com/claudehohl/SpatialAudio3D/parameter"
)

// Config holds engine-level mixer settings
type Config struct {
	SampleRate     int
	BufferDuration time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		SampleRate:     parameter.SampleRate,
		BufferDuration: parameter.MixerBufferDuration,
	}
}

// Engine owns the speaker lifecycle and the shared beep mixer
// When no output device is available it degrades to silent mode: channels
// still exist and accept parameters, nothing is audible
type Engine struct {
	config *Config
	mixer  *beep.Mixer

	running    atomic.Bool
	silentMode atomic.Bool

	mu       sync.Mutex
	channels []*Channel
}

// NewEngine creates a mixer engine
func NewEngine(cfg ...*Config) *Engine {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}
	return &Engine{
		config: config,
		mixer:  &beep.Mixer{},
	}
}

// Start initializes the speaker and begins pulling the mixer
// A missing audio device is not an error; the engine runs silent
func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("mixer engine already running")
	}

	rate := beep.SampleRate(e.config.SampleRate)
	if err := speaker.Init(rate, rate.N(e.config.BufferDuration)); err != nil {
		e.silentMode.Store(true)
		log.Warn("audio device unavailable, running silent", "err", err)
		return nil
	}

	speaker.Play(e.mixer)
	return nil
}

// Stop halts output and drops all channels from the mixer
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	if !e.silentMode.Load() {
		speaker.Clear()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.channels {
		ch.Close()
	}
	e.channels = nil
	e.mixer.Clear()
}

// NewChannel allocates a private channel and adds it to the mixer graph
func (e *Engine) NewChannel() *Channel {
	ch := newChannel(e.config.SampleRate)

	e.mu.Lock()
	e.channels = append(e.channels, ch)
	e.mu.Unlock()

	if e.running.Load() && !e.silentMode.Load() {
		speaker.Lock()
		e.mixer.Add(ch)
		speaker.Unlock()
	} else {
		e.mixer.Add(ch)
	}
	return ch
}

// SampleRate returns the engine sample rate
func (e *Engine) SampleRate() int {
	return e.config.SampleRate
}

// IsRunning returns true if the engine started (even in silent mode)
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// SilentMode returns true when no output device could be opened
func (e *Engine) SilentMode() bool {
	return e.silentMode.Load()
}
