// Package mixer is the DSP backend: a beep speaker/mixer lifecycle and
// per-slot channels with private gain, delay, low-pass, bass and reverb
// stages. Each channel is exclusively owned by one playback slot.
package mixer

import (
	"math"
	"sync"

	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/parameter"
)

// Channel is one private voice in the mixer graph
// It streams silence until a source is attached, keeps streaming silence
// after the source ends (so reverb tails ring out), and is only removed
// from the graph by Close
type Channel struct {
	mu sync.Mutex

	src beep.Streamer

	delay *delayLine
	lp    *lowPass
	bass  *bassShelf
	rev   *reverb

	rate    int
	gainDB  float64
	gainLin float64
	delayMs float64
	cutoff  float64
	room    float64
	wet     float64
	bassDB  float64

	closed bool
}

func newChannel(sampleRate int) *Channel {
	c := &Channel{
		delay:  newDelayLine(int(parameter.MaxDelaySeconds * float64(sampleRate))),
		lp:     newLowPass(),
		bass:   newBassShelf(sampleRate),
		rev:    newReverb(sampleRate),
		rate:   sampleRate,
		cutoff: parameter.CutoffOpen,
	}
	// Channels are born silent; a slot raises gain only through activation
	c.applyGain(parameter.SilenceDB)
	return c
}

func (c *Channel) applyGain(db float64) {
	c.gainDB = db
	if db <= parameter.SilenceDB {
		c.gainLin = 0
		return
	}
	c.gainLin = math.Pow(10, db/20)
}

// SetSource attaches a streamer; nil detaches and returns to silence
func (c *Channel) SetSource(src beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.src = src
	c.delay.reset()
	c.rev.reset()
	c.lp.reset()
}

// SetGain sets channel gain in dB; values at or below the silence floor
// mute the channel outright
func (c *Channel) SetGain(db float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyGain(db)
}

func (c *Channel) Gain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gainDB
}

// SetDelay sets the propagation delay in milliseconds
func (c *Channel) SetDelay(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ms < 0 {
		ms = 0
	}
	c.delayMs = ms
	c.delay.setOffset(int(ms / 1000 * float64(c.rate)))
}

func (c *Channel) Delay() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delayMs
}

// SetLowPass sets the low-pass cutoff in Hz
func (c *Channel) SetLowPass(hz float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cutoff = hz
	c.lp.setCutoff(hz, c.rate)
}

func (c *Channel) LowPass() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cutoff
}

// SetReverb sets room size and wetness, both 0..1
func (c *Channel) SetReverb(roomSize, wetness float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = clamp01(roomSize)
	c.wet = clamp01(wetness)
	c.rev.setParams(c.room, c.wet)
}

func (c *Channel) Reverb() (roomSize, wetness float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.wet
}

// SetBass sets the low-shelf boost in dB for proximity bass
func (c *Channel) SetBass(db float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bassDB = db
	c.bass.setBoost(db)
}

func (c *Channel) Bass() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bassDB
}

// Close releases the channel; the mixer drops it on the next pull
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.src = nil
}

// Stream implements beep.Streamer
func (c *Channel) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, false
	}

	filled := 0
	if c.src != nil {
		filled, _ = c.src.Stream(samples)
	}
	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	// Run the full buffer through the chain even past source end so the
	// delay line and reverb tail drain audibly
	for i := range samples {
		l, r := c.delay.process(samples[i][0], samples[i][1])
		l, r = c.lp.process(l, r)
		l, r = c.bass.process(l, r)
		l, r = c.rev.process(l, r)
		samples[i][0] = l * c.gainLin
		samples[i][1] = r * c.gainLin
	}
	return len(samples), true
}

func (c *Channel) Err() error { return nil }
