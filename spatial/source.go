package spatial

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/claudehohl/SpatialAudio3D/asset"
	"github.com/claudehohl/SpatialAudio3D/internal/log"
	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// Source coordinates one emitted sound: the dry-path slot pair, the full
// set of reflection point managers, and the fixed-rate tick that drives
// room estimation and fans parameters to all children.
//
// Exactly one of the dry pair is designated active at any time; delay is
// only ever changed through the pair's handover path.
type Source struct {
	mu  sync.Mutex
	cfg *Config

	ray      trace.Raycaster
	listener PositionProvider
	clock    Clock

	pos vmath.Vec3

	dry       [2]*Slot
	dryActive int
	reverbers []*Reverber
	room      *RoomEstimator
	targets   []ReflectionTarget

	estimate RoomEstimate
	delayMs  float64

	delayRefDist float64
	hasDelayRef  bool

	playing   bool
	playArm   atomic.Bool
	playTimer *time.Timer

	stream *asset.Stream

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSource creates a source and allocates every channel it will ever own:
// one per dry slot plus one per reflection slot. Reflection point managers
// are created once here and never added or removed at runtime.
func NewSource(cfg *Config, ray trace.Raycaster, listener PositionProvider, channels ChannelProvider) *Source {
	return newSource(cfg, ray, listener, channels, SystemClock{})
}

func newSource(cfg *Config, ray trace.Raycaster, listener PositionProvider, channels ChannelProvider, clock Clock) *Source {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.clamped()

	s := &Source{
		cfg:      cfg,
		ray:      ray,
		listener: listener,
		clock:    clock,
		room:     NewRoomEstimator(),
		stopChan: make(chan struct{}),
	}

	s.dry[0] = newSlot(channels.NewChannel(), clock, cfg.Mute)
	s.dry[1] = newSlot(channels.NewChannel(), clock, cfg.Mute)

	if cfg.ReverbEnabled {
		dirs := s.room.ReflectionDirs()
		s.reverbers = make([]*Reverber, len(dirs))
		s.targets = make([]ReflectionTarget, len(dirs))
		for i, dir := range dirs {
			a := newSlot(channels.NewChannel(), clock, cfg.Mute)
			b := newSlot(channels.NewChannel(), clock, cfg.Mute)
			s.reverbers[i] = newReverber(dir, a, b, cfg)
		}
	}

	return s
}

// Config returns the clamped configuration in effect
func (s *Source) Config() *Config {
	return s.cfg
}

// SetPosition moves the source in world space
func (s *Source) SetPosition(p vmath.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = p
}

// Position returns the source world position
func (s *Source) Position() vmath.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Delay returns the current propagation delay in milliseconds
func (s *Source) Delay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delayMs
}

// Estimate returns the room estimate of the last tick
func (s *Source) Estimate() RoomEstimate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estimate
}

// SetStream assigns the audio asset, fanned to the dry pair and every
// reflection point with an independent playback cursor per slot
func (s *Source) SetStream(st *asset.Stream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = st

	var cursor func() beep.Streamer
	if st != nil {
		loop := s.cfg.Loop
		cursor = func() beep.Streamer { return st.Streamer(loop) }
	}
	for _, slot := range s.dry {
		if cursor == nil {
			slot.SetSource(nil)
		} else {
			slot.SetSource(cursor())
		}
	}
	for _, rv := range s.reverbers {
		rv.SetSource(cursor)
	}
}

// Play requests playback. Playing with no assigned stream is a silent
// no-op. Requests arriving while a prior play-start is still settling are
// coalesced: exactly one dispatch reaches the slots.
func (s *Source) Play() {
	s.mu.Lock()
	if s.stream == nil || s.playing {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if !s.playArm.CompareAndSwap(false, true) {
		return
	}

	if s.cfg.StartupDelay <= 0 {
		s.dispatchPlay()
		return
	}
	s.mu.Lock()
	s.playTimer = time.AfterFunc(s.cfg.StartupDelay, s.dispatchPlay)
	s.mu.Unlock()
}

func (s *Source) dispatchPlay() {
	s.mu.Lock()
	if !s.playing {
		s.playing = true
		act := s.dry[s.dryActive]
		// Seed parameters before the fade so it ramps to a correct target
		s.applyDryParams(act, s.listener.Position())
		act.Activate(parameter.PlayFadeTime, EaseQuadIn)
	}
	s.playTimer = nil
	s.mu.Unlock()
	s.playArm.Store(false)
}

// Stop retires every slot; a pending coalesced play is cancelled
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playTimer != nil {
		s.playTimer.Stop()
		s.playTimer = nil
		s.playArm.Store(false)
	}
	if !s.playing {
		return
	}
	s.playing = false

	for _, slot := range s.dry {
		slot.Deactivate(parameter.StopFadeTime, EaseQuadOut)
	}
	for _, rv := range s.reverbers {
		rv.Stop(parameter.StopFadeTime)
	}
}

// Playing reports whether playback has been dispatched and not stopped
func (s *Source) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Start launches the fixed-rate tick loop (attach)
func (s *Source) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.tickLoop()
	log.Debug("spatial source attached", "tick", s.cfg.TickInterval)
}

// Close stops the tick loop and tears down every owned channel (detach)
// No dangling channels are left behind; Close is idempotent
func (s *Source) Close() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}

		s.mu.Lock()
		if s.playTimer != nil {
			s.playTimer.Stop()
			s.playTimer = nil
		}
		s.playing = false
		s.mu.Unlock()

		for _, slot := range s.dry {
			slot.silence()
			slot.Channel().Close()
		}
		for _, rv := range s.reverbers {
			rv.close()
		}
		log.Debug("spatial source detached")
	})
}

// tickLoop runs the update at a fixed interval with drift correction,
// independent of the host's render or physics rate
func (s *Source) tickLoop() {
	defer s.wg.Done()

	interval := s.cfg.TickInterval
	next := time.Now().Add(interval)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case now := <-timer.C:
			s.tick()

			next = next.Add(interval)
			if now.Sub(next) > 2*interval {
				next = now.Add(interval)
			}
			d := time.Until(next)
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
		}
	}
}

// tick is one synchronous update step: delay recompute and dry handover,
// dry parameter refresh, room estimation, reflection fan-out
func (s *Source) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	listenerPos := s.listener.Position()
	dist := vmath.V3Dist(listenerPos, s.pos)

	if !s.hasDelayRef || math.Abs(dist-s.delayRefDist) > parameter.DelayRecomputeDistance {
		s.recomputeDelay(dist, listenerPos)
	}

	s.applyDryParams(s.dry[s.dryActive], listenerPos)

	s.estimate = s.room.Estimate(s.ray, s.pos, s.cfg.MaxProbeDistance, s.cfg.RoomSizeMultiplier, s.cfg.CollisionMask)

	if len(s.reverbers) > 0 {
		s.room.ReflectionTargets(s.ray, s.pos, s.cfg.MaxProbeDistance, s.cfg.CollisionMask, s.targets)
		env := &tickEnv{
			ray:         s.ray,
			listenerPos: listenerPos,
			sourcePos:   s.pos,
			estimate:    s.estimate,
			delayMs:     s.delayMs,
			playing:     s.playing,
		}
		for i, rv := range s.reverbers {
			rv.UpdatePosition(s.targets[i].Pos, s.targets[i].Reflecting, env)
		}
	}
}

// recomputeDelay derives the propagation delay from listener distance and
// applies it through the dry pair. While playing, the new delay lands on
// the standby slot and a crossfade hands the pair over, so the change is
// never audible on the live slot. The handover is deferred until the
// active slot is steady; a mid-fade slot is left to settle first.
func (s *Source) recomputeDelay(dist float64, listenerPos vmath.Vec3) {
	newDelay := math.Round(dist / s.cfg.SpeedOfSound * 1000)
	act := s.dry[s.dryActive]

	if newDelay == act.Delay() {
		s.delayMs = newDelay
		s.delayRefDist = dist
		s.hasDelayRef = true
		return
	}

	if !s.playing {
		act.SetDelay(newDelay)
		s.delayMs = newDelay
		s.delayRefDist = dist
		s.hasDelayRef = true
		return
	}

	if act.State() != SlotActive {
		// Defer: the reference distance is left untouched so the
		// recompute fires again next tick
		return
	}

	stb := s.dry[1-s.dryActive]
	stb.silence()
	stb.SetDelay(newDelay)
	s.applyDryParams(stb, listenerPos)
	stb.Activate(parameter.DelayCrossfade, EaseQuadIn)
	act.Deactivate(parameter.DelayCrossfade, EaseQuadOut)
	s.dryActive = 1 - s.dryActive

	s.delayMs = newDelay
	s.delayRefDist = dist
	s.hasDelayRef = true
}

// applyDryParams refreshes occlusion, proximity and room parameters on a
// dry slot
func (s *Source) applyDryParams(slot *Slot, listenerPos vmath.Vec3) {
	slot.SetLowPassCutoff(
		OcclusionCutoff(s.ray, s.pos, listenerPos, s.cfg.OcclusionBaseCutoff, s.cfg.CollisionMask),
		s.cfg.OcclusionFadeTime,
	)
	slot.SetGain(ProximityGain(s.pos, s.pos, listenerPos, s.cfg.MaxProbeDistance, parameter.DryMaxGainDB))
	slot.SetProximityBass(ProximityBass(s.pos, listenerPos, s.cfg.BassProximityRadius))
	slot.SetRoomParams(s.estimate.Size, s.estimate.Wetness)
}

// ReflectionDebug is one reflection point's state for debug views
type ReflectionDebug struct {
	Pos         vmath.Vec3
	Reflecting  bool
	ActiveState SlotState
	GainDB      float64
}

// DebugSnapshot is a copy of the source state for visualization
type DebugSnapshot struct {
	SourcePos   vmath.Vec3
	ListenerPos vmath.Vec3
	Estimate    RoomEstimate
	DelayMs     float64
	Playing     bool
	Reflections []ReflectionDebug
}

// DebugSnapshot captures the current state under lock
func (s *Source) DebugSnapshot() DebugSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := DebugSnapshot{
		SourcePos:   s.pos,
		ListenerPos: s.listener.Position(),
		Estimate:    s.estimate,
		DelayMs:     s.delayMs,
		Playing:     s.playing,
	}
	for _, rv := range s.reverbers {
		pos, ok := rv.Position()
		if !ok {
			continue
		}
		act := rv.activeSlot()
		snap.Reflections = append(snap.Reflections, ReflectionDebug{
			Pos:         pos,
			Reflecting:  rv.Reflecting(),
			ActiveState: act.State(),
			GainDB:      act.Channel().Gain(),
		})
	}
	return snap
}
