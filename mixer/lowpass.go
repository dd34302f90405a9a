package mixer

import (
	"math"

	"github.com/claudehohl/SpatialAudio3D/parameter"
)

// lowPass is a one-pole filter per channel
// Cutoffs at or above CutoffOpen bypass the filter entirely
type lowPass struct {
	alpha  float64
	yl, yr float64
	bypass bool
}

func newLowPass() *lowPass {
	return &lowPass{bypass: true}
}

func (f *lowPass) setCutoff(hz float64, sampleRate int) {
	if hz >= parameter.CutoffOpen {
		f.bypass = true
		return
	}
	if hz < parameter.CutoffFloor {
		hz = parameter.CutoffFloor
	}
	f.bypass = false
	f.alpha = 1 - math.Exp(-2*math.Pi*hz/float64(sampleRate))
}

func (f *lowPass) process(l, r float64) (float64, float64) {
	if f.bypass {
		return l, r
	}
	f.yl += f.alpha * (l - f.yl)
	f.yr += f.alpha * (r - f.yr)
	return f.yl, f.yr
}

func (f *lowPass) reset() {
	f.yl, f.yr = 0, 0
}

// bassShelf adds a low-shelf boost below the shelf frequency
// Used for the proximity bass amount; 0 dB is a passthrough
type bassShelf struct {
	alpha  float64
	yl, yr float64
	gain   float64
}

const bassShelfHz = 250.0

func newBassShelf(sampleRate int) *bassShelf {
	return &bassShelf{
		alpha: 1 - math.Exp(-2*math.Pi*bassShelfHz/float64(sampleRate)),
	}
}

func (b *bassShelf) setBoost(db float64) {
	if db <= 0 {
		b.gain = 0
		return
	}
	b.gain = math.Pow(10, db/20) - 1
}

func (b *bassShelf) process(l, r float64) (float64, float64) {
	b.yl += b.alpha * (l - b.yl)
	b.yr += b.alpha * (r - b.yr)
	if b.gain == 0 {
		return l, r
	}
	return l + b.gain*b.yl, r + b.gain*b.yr
}
