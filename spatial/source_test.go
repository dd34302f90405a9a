package spatial

import (
	"sync"
	"testing"
	"time"

	"github.com/claudehohl/SpatialAudio3D/asset"
	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// movableListener is a thread-safe listener position for tests
type movableListener struct {
	mu  sync.Mutex
	pos vmath.Vec3
}

func (l *movableListener) Position() vmath.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos
}

func (l *movableListener) moveTo(p vmath.Vec3) {
	l.mu.Lock()
	l.pos = p
	l.mu.Unlock()
}

func testStream() *asset.Stream {
	return asset.New("test", 44100, make([][2]float64, 4410))
}

func newTestSource(cfg *Config, ray trace.Raycaster) (*Source, *fakeProvider, *movableListener, *MockClock) {
	provider := &fakeProvider{}
	listener := &movableListener{}
	clock := NewMockClock(time.Unix(1000, 0))
	s := newSource(cfg, ray, listener, provider, clock)
	return s, provider, listener, clock
}

func dryOnlyConfig() *Config {
	cfg := DefaultConfig()
	cfg.ReverbEnabled = false
	cfg.StartupDelay = 0
	return cfg
}

func TestSourceChannelAllocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	_, provider, _, _ := newTestSource(cfg, missRay)

	// Dry pair plus one pair per reflection probe, allocated up front
	want := 2 + 2*parameter.ReflectionProbeCount
	if len(provider.channels) != want {
		t.Errorf("channels = %d, want %d", len(provider.channels), want)
	}
}

func TestSourcePlayWithoutStream(t *testing.T) {
	s, _, _, _ := newTestSource(dryOnlyConfig(), missRay)

	s.Play()
	if s.Playing() {
		t.Error("playing with no stream must be a no-op")
	}
}

func TestSourceOpenSpaceConvergence(t *testing.T) {
	s, _, _, _ := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())
	s.Play()

	s.tick()

	if d := s.Delay(); d != 0 {
		t.Errorf("delay = %v, want 0 with coincident positions", d)
	}
	est := s.Estimate()
	if est.Size != 0 || est.Wetness != 0 {
		t.Errorf("estimate = %+v, want fully dry in open space", est)
	}
}

func TestSourceDelayHandover(t *testing.T) {
	s, provider, listener, clock := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())
	s.Play()

	s.tick()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	listener.moveTo(vmath.Vec3{X: 6})
	s.tick()

	if d := s.Delay(); d != 18 {
		t.Errorf("delay = %v, want round(6/340*1000) = 18", d)
	}
	if s.dryActive != 1 {
		t.Fatal("handover did not swap the dry pair")
	}
	if st := s.dry[1].State(); st != SlotFadingIn && st != SlotActive {
		t.Errorf("new active slot state = %v, want activating", st)
	}
	if st := s.dry[0].State(); st != SlotFadingOut {
		t.Errorf("old active slot state = %v, want fading-out", st)
	}
	// The new delay landed on the incoming slot, never the live one
	if provider.channels[1].Delay() != 18 {
		t.Errorf("incoming slot delay = %v, want 18", provider.channels[1].Delay())
	}
	if provider.channels[0].Delay() != 0 {
		t.Errorf("live slot delay = %v, must stay untouched", provider.channels[0].Delay())
	}
}

func TestSourceDelayRecomputesOnce(t *testing.T) {
	s, _, listener, clock := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())
	s.Play()

	s.tick()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	listener.moveTo(vmath.Vec3{X: 6})
	s.tick()
	if s.dryActive != 1 {
		t.Fatal("expected handover")
	}

	// Sub-threshold movement afterwards must not recompute again
	listener.moveTo(vmath.Vec3{X: 6.5})
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[1].State() == SlotActive })
	s.tick()
	if s.dryActive != 1 {
		t.Error("sub-threshold movement triggered another handover")
	}
	if d := s.Delay(); d != 18 {
		t.Errorf("delay = %v, want held at 18", d)
	}
}

func TestSourceHandoverDeferredMidFade(t *testing.T) {
	s, _, listener, clock := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())
	s.Play()

	s.tick()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	listener.moveTo(vmath.Vec3{X: 20})
	s.tick()
	if s.dryActive != 1 {
		t.Fatal("expected first handover")
	}

	// Far again while slot 1 is still fading in: the swap must wait
	listener.moveTo(vmath.Vec3{X: 60})
	s.tick()
	if s.dryActive != 1 {
		t.Error("handover committed on a mid-fade slot")
	}

	// Once the pair settles, the deferred recompute fires
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[1].State() == SlotActive })
	s.tick()
	if s.dryActive != 0 {
		t.Error("deferred handover never committed")
	}
	if d := s.Delay(); d != 176 {
		t.Errorf("delay = %v, want round(60/340*1000) = 176", d)
	}
}

func TestSourceDelayDirectWhileStopped(t *testing.T) {
	s, provider, listener, _ := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())

	listener.moveTo(vmath.Vec3{X: 34})
	s.tick()

	if d := s.Delay(); d != 100 {
		t.Errorf("delay = %v, want 100", d)
	}
	if s.dryActive != 0 {
		t.Error("handover while stopped")
	}
	if provider.channels[0].Delay() != 100 {
		t.Errorf("slot delay = %v, want direct set while silent", provider.channels[0].Delay())
	}
}

func TestSourcePlayCoalesced(t *testing.T) {
	cfg := dryOnlyConfig()
	cfg.StartupDelay = 30 * time.Millisecond
	s, _, _, _ := newTestSource(cfg, missRay)
	s.SetStream(testStream())

	s.Play()
	s.Play()
	s.Play()

	waitFor(t, time.Second, func() bool { return s.Playing() })
	if st := s.dry[0].State(); st != SlotFadingIn && st != SlotActive {
		t.Errorf("dry slot state = %v, want single activation", st)
	}
}

func TestSourceStopCancelsPendingPlay(t *testing.T) {
	cfg := dryOnlyConfig()
	cfg.StartupDelay = 50 * time.Millisecond
	s, _, _, _ := newTestSource(cfg, missRay)
	s.SetStream(testStream())

	s.Play()
	s.Stop()

	time.Sleep(120 * time.Millisecond)
	if s.Playing() {
		t.Error("cancelled play still dispatched")
	}
	if st := s.dry[0].State(); st != SlotInactive {
		t.Errorf("dry slot state = %v, want inactive", st)
	}
}

func TestSourceStopRetiresEverything(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	s, _, _, clock := newTestSource(cfg, enclosedRay(10))
	s.SetStream(testStream())
	s.Play()
	s.tick()
	clock.Advance(5 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	s.Stop()
	if s.Playing() {
		t.Error("still playing after stop")
	}
	if st := s.dry[0].State(); st != SlotFadingOut {
		t.Errorf("dry slot state = %v, want fading-out", st)
	}
}

func TestSourceOcclusionAppliedToDrySlot(t *testing.T) {
	// Wall 2 units from the source on the way to the listener at 10
	wall := rayFunc(func(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit {
		return trace.Hit{Hit: true, Distance: 2, Normal: vmath.V3Scale(dir, -1)}
	})
	cfg := dryOnlyConfig()
	s, _, listener, clock := newTestSource(cfg, wall)
	s.SetStream(testStream())
	s.Play()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	listener.moveTo(vmath.Vec3{X: 10})
	s.tick()

	want := cfg.OcclusionBaseCutoff * 2 / 10
	if c := s.dry[s.dryActive].Cutoff(); c != want {
		t.Errorf("cutoff = %v, want %v", c, want)
	}
}

func TestSourceEnclosedReverb(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	s, _, _, _ := newTestSource(cfg, enclosedRay(10))
	s.SetStream(testStream())
	s.Play()

	s.tick()

	est := s.Estimate()
	if est.Wetness != 1 {
		t.Errorf("wetness = %v, want 1 fully enclosed", est.Wetness)
	}
	for i, rv := range s.reverbers {
		if !rv.Reflecting() {
			t.Errorf("reverber %d not reflecting", i)
			continue
		}
		if st := rv.activeSlot().State(); st != SlotFadingIn && st != SlotActive {
			t.Errorf("reverber %d active slot state = %v", i, st)
		}
	}
}

func TestSourceDryPairMutualExclusion(t *testing.T) {
	s, provider, listener, clock := newTestSource(dryOnlyConfig(), missRay)
	s.SetStream(testStream())
	s.Play()

	s.tick()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool { return s.dry[0].State() == SlotActive })

	listener.moveTo(vmath.Vec3{X: 6})
	s.tick()
	clock.Advance(2 * time.Second)
	waitFor(t, time.Second, func() bool {
		return s.dry[1].State() == SlotActive && s.dry[0].State() == SlotInactive
	})

	audible := 0
	for _, ch := range provider.channels[:2] {
		if ch.Gain() > parameter.SilenceDB {
			audible++
		}
	}
	if audible > 1 {
		t.Errorf("audible dry slots = %d, want at most 1 in steady state", audible)
	}
}

func TestSourceCloseTearsDownChannels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	s, provider, _, _ := newTestSource(cfg, enclosedRay(10))
	s.SetStream(testStream())
	s.Play()
	s.Start()
	s.tick()

	s.Close()
	for i, ch := range provider.channels {
		if !ch.isClosed() {
			t.Errorf("channel %d not closed", i)
		}
	}
	if s.Playing() {
		t.Error("still playing after close")
	}

	s.Close() // idempotent
}

func TestSourceDebugSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	s, _, listener, _ := newTestSource(cfg, enclosedRay(10))
	s.SetPosition(vmath.Vec3{X: 3})
	listener.moveTo(vmath.Vec3{X: 7})
	s.SetStream(testStream())
	s.Play()
	s.tick()

	snap := s.DebugSnapshot()
	if snap.SourcePos != (vmath.Vec3{X: 3}) {
		t.Errorf("source pos = %v", snap.SourcePos)
	}
	if snap.ListenerPos != (vmath.Vec3{X: 7}) {
		t.Errorf("listener pos = %v", snap.ListenerPos)
	}
	if !snap.Playing {
		t.Error("snapshot not playing")
	}
	if len(snap.Reflections) != parameter.ReflectionProbeCount {
		t.Errorf("reflections = %d, want %d", len(snap.Reflections), parameter.ReflectionProbeCount)
	}
}
