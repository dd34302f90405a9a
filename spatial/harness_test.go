package spatial

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// fakeChannel records every parameter push for assertions
type fakeChannel struct {
	mu sync.Mutex

	gain    float64
	delayMs float64
	cutoff  float64
	room    float64
	wet     float64
	bass    float64

	delayPushes int
	gainPushes  int
	closed      bool
	src         beep.Streamer
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{cutoff: 20000}
}

func (c *fakeChannel) SetSource(src beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.src = src
}

func (c *fakeChannel) SetGain(db float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gain = db
	c.gainPushes++
}

func (c *fakeChannel) Gain() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gain
}

func (c *fakeChannel) SetDelay(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delayMs = ms
	c.delayPushes++
}

func (c *fakeChannel) Delay() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delayMs
}

func (c *fakeChannel) SetLowPass(hz float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cutoff = hz
}

func (c *fakeChannel) LowPass() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cutoff
}

func (c *fakeChannel) SetReverb(roomSize, wetness float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = roomSize
	c.wet = wetness
}

func (c *fakeChannel) Reverb() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.wet
}

func (c *fakeChannel) SetBass(db float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bass = db
}

func (c *fakeChannel) Bass() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bass
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) delayCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delayPushes
}

// fakeProvider hands out fake channels and remembers them in order
type fakeProvider struct {
	mu       sync.Mutex
	channels []*fakeChannel
}

func (p *fakeProvider) NewChannel() Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := newFakeChannel()
	p.channels = append(p.channels, ch)
	return ch
}

// rayFunc adapts a closure to trace.Raycaster
type rayFunc func(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit

func (f rayFunc) Cast(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit {
	return f(origin, dir, maxDist, mask)
}

// missRay never hits anything
var missRay = rayFunc(func(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit {
	return trace.Hit{}
})

// enclosedRay hits a reflective surface at the given distance in every
// direction, normal facing straight back along the probe
func enclosedRay(dist float64) rayFunc {
	return func(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit {
		if dist > maxDist {
			return trace.Hit{}
		}
		return trace.Hit{
			Hit:      true,
			Point:    vmath.V3Add(origin, vmath.V3Scale(dir, dist)),
			Normal:   vmath.V3Scale(dir, -1),
			Distance: dist,
		}
	}
}

// waitFor polls until cond holds or the deadline passes
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition not reached before deadline")
	}
}
