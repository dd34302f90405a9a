package spatial

import (
	"sync"
	"time"

	"github.com/claudehohl/SpatialAudio3D/parameter"
)

// Ease selects the interpolation curve of a fade
type Ease uint8

const (
	EaseLinear Ease = iota
	// EaseQuadIn starts slow, for gentle onsets
	EaseQuadIn
	// EaseQuadOut starts fast, for prompt releases
	EaseQuadOut
)

func easeCurve(e Ease, t float64) float64 {
	switch e {
	case EaseQuadIn:
		return t * t
	case EaseQuadOut:
		return t * (2 - t)
	default:
		return t
	}
}

// fader drives one scalar parameter toward a target over time
// Exactly one ramp per fader may be in flight; starting a new ramp cancels
// the old one before it begins, so two drivers never fight over a target
type fader struct {
	mu    sync.Mutex
	stop  chan struct{}
	clock Clock
}

func newFader(clock Clock) *fader {
	return &fader{clock: clock}
}

// start begins a ramp from from to to over dur, invoking apply with
// intermediate values and done exactly once on natural completion
// dur must be positive; immediate transitions are the caller's fast path
func (f *fader) start(from, to float64, dur time.Duration, e Ease, apply func(float64), done func()) {
	f.mu.Lock()
	if f.stop != nil {
		close(f.stop)
	}
	stop := make(chan struct{})
	f.stop = stop
	f.mu.Unlock()

	begin := f.clock.Now()
	go func() {
		ticker := time.NewTicker(parameter.FadeStepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t := float64(f.clock.Now().Sub(begin)) / float64(dur)
				if t >= 1 {
					apply(to)
					f.mu.Lock()
					if f.stop == stop {
						f.stop = nil
					}
					f.mu.Unlock()
					if done != nil {
						done()
					}
					return
				}
				apply(from + (to-from)*easeCurve(e, t))
			}
		}
	}()
}

// cancel aborts the in-flight ramp, if any, without invoking done
func (f *fader) cancel() {
	f.mu.Lock()
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
	f.mu.Unlock()
}
