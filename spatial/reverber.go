package spatial

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// tickEnv carries the per-tick context the source coordinator fans out to
// its reflection point managers
type tickEnv struct {
	ray         trace.Raycaster
	listenerPos vmath.Vec3
	sourcePos   vmath.Vec3
	estimate    RoomEstimate
	delayMs     float64
	playing     bool
}

// Reverber manages one reflection point: a probe direction fixed at
// creation, the last detected reflective position, and a playback slot
// pair. Position updates only ever retarget the standby slot; the active
// slot is retired by fade so a spatially abandoned reflection rings out
// instead of teleporting.
type Reverber struct {
	cfg *Config

	dir        vmath.Vec3
	pos        vmath.Vec3
	hasPos     bool
	reflecting bool

	slots  [2]*Slot
	active int
}

func newReverber(dir vmath.Vec3, a, b *Slot, cfg *Config) *Reverber {
	return &Reverber{
		cfg:   cfg,
		dir:   dir,
		slots: [2]*Slot{a, b},
	}
}

// Dir returns the immutable probe direction
func (r *Reverber) Dir() vmath.Vec3 {
	return r.dir
}

// Position returns the last detected reflective position
func (r *Reverber) Position() (vmath.Vec3, bool) {
	return r.pos, r.hasPos
}

// Reflecting reports whether the probe currently sees a reflective surface
func (r *Reverber) Reflecting() bool {
	return r.reflecting
}

func (r *Reverber) activeSlot() *Slot {
	return r.slots[r.active]
}

func (r *Reverber) standbySlot() *Slot {
	return r.slots[1-r.active]
}

// UpdatePosition drives the manager one tick
// Movement beyond the relocation threshold triggers a slot handover;
// movement beyond the drift threshold repositions in place; anything
// smaller is held to avoid churn.
func (r *Reverber) UpdatePosition(target vmath.Vec3, reflecting bool, env *tickEnv) {
	moved := math.Inf(1)
	if r.hasPos {
		moved = vmath.V3Dist(r.pos, target)
	}

	switch {
	case moved > parameter.RelocateThreshold:
		r.relocate(target, reflecting, env)
	case moved > parameter.DriftThreshold:
		r.pos = target
		r.reflecting = reflecting
	default:
		r.reflecting = reflecting
	}

	// No stale audio may play from a slot not designated active; a tail
	// that is already fading out is left to ring
	if stb := r.standbySlot(); stb.State() == SlotActive || stb.State() == SlotFadingIn {
		stb.silence()
	}

	if r.reflecting && env.playing {
		r.refreshActive(env)
	}
}

// relocate moves the point and hands the pair over: the active slot fades
// out in place while the standby slot, if the move lands on an actual
// reflection, fades in at the new position and takes over
func (r *Reverber) relocate(target vmath.Vec3, reflecting bool, env *tickEnv) {
	r.pos = target
	r.hasPos = true

	fadeIn, fadeOut := r.fadeTimes(env.estimate.Wetness)
	r.activeSlot().Deactivate(fadeOut, EaseQuadOut)

	if reflecting && env.playing {
		stb := r.standbySlot()
		stb.silence()
		r.applyParams(stb, env)
		stb.Activate(fadeIn, EaseQuadIn)
		r.active = 1 - r.active
	}
	r.reflecting = reflecting
}

// refreshActive re-estimates occlusion, proximity and room parameters on
// the active slot every tick while the point reflects, activating it if
// playback started after the point had already settled
func (r *Reverber) refreshActive(env *tickEnv) {
	act := r.activeSlot()
	if act.State() == SlotInactive {
		fadeIn, _ := r.fadeTimes(env.estimate.Wetness)
		r.applyParams(act, env)
		act.Activate(fadeIn, EaseQuadIn)
		return
	}
	r.applyParams(act, env)
}

func (r *Reverber) applyParams(s *Slot, env *tickEnv) {
	s.SetDelay(env.delayMs)
	s.SetRoomParams(env.estimate.Size, env.estimate.Wetness)
	s.SetLowPassCutoff(
		OcclusionCutoff(env.ray, r.pos, env.listenerPos, r.cfg.OcclusionBaseCutoff, r.cfg.CollisionMask),
		r.cfg.OcclusionFadeTime,
	)
	s.SetGain(ProximityGain(r.pos, env.sourcePos, env.listenerPos, r.cfg.MaxProbeDistance, r.cfg.ReverbMaxGainDB))
	s.SetProximityBass(ProximityBass(r.pos, env.listenerPos, r.cfg.BassProximityRadius))
}

// fadeTimes resolves the relocation fades: fixed configured values, or
// derived from current wetness so wetter rooms get the longer tails their
// natural reverb would have
func (r *Reverber) fadeTimes(wetness float64) (fadeIn, fadeOut time.Duration) {
	if !r.cfg.DynamicFades {
		return r.cfg.ReverbFadeIn, r.cfg.ReverbFadeOut
	}
	fadeIn = parameter.DynamicFadeInBase + time.Duration(wetness*float64(parameter.DynamicFadeInScale))
	fadeOut = parameter.DynamicFadeOutBase + time.Duration(wetness*float64(parameter.DynamicFadeOutScale))
	return fadeIn, fadeOut
}

// Stop retires both slots
func (r *Reverber) Stop(fade time.Duration) {
	r.slots[0].Deactivate(fade, EaseQuadOut)
	r.slots[1].Deactivate(fade, EaseQuadOut)
}

// SetSource attaches independent playback cursors to both slots
func (r *Reverber) SetSource(cursor func() beep.Streamer) {
	for _, s := range r.slots {
		if cursor == nil {
			s.SetSource(nil)
			continue
		}
		s.SetSource(cursor())
	}
}

// close tears down both slot channels
func (r *Reverber) close() {
	for _, s := range r.slots {
		s.silence()
		s.Channel().Close()
	}
}
