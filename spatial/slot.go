package spatial

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/parameter"
)

// SlotState is the playback slot activity state
type SlotState uint8

const (
	SlotInactive SlotState = iota
	SlotActive
	SlotFadingIn
	SlotFadingOut
)

func (s SlotState) String() string {
	switch s {
	case SlotInactive:
		return "inactive"
	case SlotActive:
		return "active"
	case SlotFadingIn:
		return "fading-in"
	case SlotFadingOut:
		return "fading-out"
	default:
		return "unknown"
	}
}

// Slot owns one physical voice: a private mixer channel plus the effect
// parameter state pushed to it. Slots come in pairs; handover between the
// pair masks parameter discontinuities.
//
// All state-machine misuse is a silent no-op, never an error.
type Slot struct {
	mu    sync.Mutex
	ch    Channel
	clock Clock

	state SlotState
	muted bool

	targetGainDB float64
	delayMs      float64
	lastDelay    time.Time
	cutoff       float64
	roomSize     float64
	wetness      float64
	bass         float64

	gainFade   *fader
	cutoffFade *fader
}

func newSlot(ch Channel, clock Clock, muted bool) *Slot {
	s := &Slot{
		ch:           ch,
		clock:        clock,
		muted:        muted,
		state:        SlotInactive,
		targetGainDB: parameter.SilenceDB,
		cutoff:       parameter.CutoffOpen,
		gainFade:     newFader(clock),
		cutoffFade:   newFader(clock),
	}
	// Inactive slots are pinned to silence from birth
	ch.SetGain(parameter.SilenceDB)
	return s
}

// State returns the current activity state
func (s *Slot) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Channel exposes the private channel, used at teardown and by debug views
func (s *Slot) Channel() Channel {
	return s.ch
}

func (s *Slot) effectiveGain() float64 {
	if s.muted {
		return parameter.SilenceDB
	}
	return s.targetGainDB
}

// Activate ramps the slot from silence to its target gain
// Valid only from inactive; any other state is a no-op
func (s *Slot) Activate(fade time.Duration, e Ease) {
	s.mu.Lock()
	if s.state != SlotInactive {
		s.mu.Unlock()
		return
	}
	target := s.effectiveGain()
	if fade <= 0 {
		s.state = SlotActive
		s.mu.Unlock()
		s.gainFade.cancel()
		s.ch.SetGain(target)
		return
	}
	s.state = SlotFadingIn
	s.mu.Unlock()

	s.gainFade.start(parameter.SilenceDB, target, fade, e,
		func(v float64) { s.ch.SetGain(v) },
		func() {
			s.mu.Lock()
			if s.state == SlotFadingIn {
				s.state = SlotActive
			}
			s.mu.Unlock()
		})
}

// Deactivate ramps the slot to silence
// Valid only from active or fading-in; any other state is a no-op
func (s *Slot) Deactivate(fade time.Duration, e Ease) {
	s.mu.Lock()
	if s.state != SlotActive && s.state != SlotFadingIn {
		s.mu.Unlock()
		return
	}
	if fade <= 0 {
		s.state = SlotInactive
		s.mu.Unlock()
		s.gainFade.cancel()
		s.ch.SetGain(parameter.SilenceDB)
		return
	}
	s.state = SlotFadingOut
	s.mu.Unlock()

	from := s.ch.Gain()
	s.gainFade.start(from, parameter.SilenceDB, fade, e,
		func(v float64) { s.ch.SetGain(v) },
		func() {
			s.mu.Lock()
			if s.state == SlotFadingOut {
				s.state = SlotInactive
			}
			s.mu.Unlock()
			s.ch.SetGain(parameter.SilenceDB)
		})
}

// silence cancels all ramps and forces the slot inactive and fully
// attenuated, guaranteeing no stale audio leaks from a standby slot
func (s *Slot) silence() {
	s.mu.Lock()
	s.state = SlotInactive
	s.mu.Unlock()
	s.gainFade.cancel()
	s.cutoffFade.cancel()
	s.ch.SetGain(parameter.SilenceDB)
}

// SetDelay applies a new propagation delay, suppressing audible flutter:
// changes within the dead-band, changes arriving before the minimum
// interval has elapsed, and changes to a retiring slot are all dropped
func (s *Slot) SetDelay(ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlotFadingOut {
		return
	}
	if math.Abs(ms-s.delayMs) <= parameter.DelayDeadBandMs {
		return
	}
	now := s.clock.Now()
	if !s.lastDelay.IsZero() && now.Sub(s.lastDelay) < parameter.DelayMinInterval {
		return
	}
	s.delayMs = ms
	s.lastDelay = now
	s.ch.SetDelay(ms)
}

// Delay returns the last accepted delay in milliseconds
func (s *Slot) Delay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delayMs
}

// SetRoomParams pushes room size and wetness, dead-banded independently
func (s *Slot) SetRoomParams(roomSize, wetness float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlotFadingOut {
		return
	}
	if math.Abs(roomSize-s.roomSize) <= parameter.RoomParamDeadBand &&
		math.Abs(wetness-s.wetness) <= parameter.RoomParamDeadBand {
		return
	}
	s.roomSize = roomSize
	s.wetness = wetness
	s.ch.SetReverb(roomSize, wetness)
}

// SetProximityBass pushes the distance bass boost in dB
func (s *Slot) SetProximityBass(db float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SlotFadingOut {
		return
	}
	if math.Abs(db-s.bass) <= parameter.BassDeadBand {
		return
	}
	s.bass = db
	s.ch.SetBass(db)
}

// SetLowPassCutoff smooths the occlusion cutoff toward hz
// Darkening is more perceptible than brightening, so downward moves ease in
// gently over the full fade while upward moves run at double speed
func (s *Slot) SetLowPassCutoff(hz float64, fadeTime time.Duration) {
	s.mu.Lock()
	if s.state == SlotFadingOut {
		s.mu.Unlock()
		return
	}
	if math.Abs(hz-s.cutoff) <= parameter.CutoffDeadBandHz {
		s.mu.Unlock()
		return
	}
	from := s.cutoff
	s.cutoff = hz
	s.mu.Unlock()

	if fadeTime <= 0 {
		s.cutoffFade.cancel()
		s.ch.SetLowPass(hz)
		return
	}
	dur := fadeTime
	e := EaseQuadIn
	if hz > from {
		dur = fadeTime / 2
		e = EaseQuadOut
	}
	s.cutoffFade.start(from, hz, dur, e, func(v float64) { s.ch.SetLowPass(v) }, nil)
}

// Cutoff returns the last accepted cutoff target in Hz
func (s *Slot) Cutoff() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cutoff
}

// SetGain records the slot's target gain; it is pushed immediately only
// while the slot is steady active — during fades the ramp owns the channel
func (s *Slot) SetGain(db float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetGainDB = db
	if s.state == SlotActive {
		s.ch.SetGain(s.effectiveGain())
	}
}

// SetSource attaches this slot's private playback cursor
func (s *Slot) SetSource(src beep.Streamer) {
	s.ch.SetSource(src)
}
