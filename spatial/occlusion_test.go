package spatial

import (
	"testing"

	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// hitAt returns a ray that always reports an obstruction at dist
func hitAt(dist float64) rayFunc {
	return func(origin, dir vmath.Vec3, maxDist float64, mask uint32) trace.Hit {
		return trace.Hit{Hit: true, Distance: dist}
	}
}

func TestOcclusionOpenPath(t *testing.T) {
	emit := vmath.Vec3{}
	listener := vmath.Vec3{X: 10}

	cutoff := OcclusionCutoff(missRay, emit, listener, 6000, 0xFFFFFFFF)
	if cutoff != parameter.CutoffOpen {
		t.Errorf("cutoff = %v, want fully open on clear path", cutoff)
	}
}

func TestOcclusionProportional(t *testing.T) {
	emit := vmath.Vec3{}
	listener := vmath.Vec3{X: 10}

	cutoff := OcclusionCutoff(hitAt(5), emit, listener, 6000, 0xFFFFFFFF)
	if cutoff != 3000 {
		t.Errorf("cutoff = %v, want 3000 (half-obstructed path)", cutoff)
	}
}

func TestOcclusionMonotonic(t *testing.T) {
	emit := vmath.Vec3{}
	listener := vmath.Vec3{X: 10}

	prev := parameter.CutoffOpen
	for dist := 9.0; dist > 0; dist -= 1.0 {
		cutoff := OcclusionCutoff(hitAt(dist), emit, listener, 6000, 0xFFFFFFFF)
		if cutoff >= prev {
			t.Fatalf("cutoff %v at hit distance %v not below previous %v", cutoff, dist, prev)
		}
		prev = cutoff
	}
	if prev > 600 {
		t.Errorf("near-zero hit distance cutoff = %v, want approaching zero", prev)
	}
}

func TestOcclusionHitBeyondListener(t *testing.T) {
	emit := vmath.Vec3{}
	listener := vmath.Vec3{X: 10}

	cutoff := OcclusionCutoff(hitAt(15), emit, listener, 6000, 0xFFFFFFFF)
	if cutoff != parameter.CutoffOpen {
		t.Errorf("cutoff = %v, wall behind listener must not occlude", cutoff)
	}
}

func TestOcclusionCoincidentPositions(t *testing.T) {
	p := vmath.Vec3{X: 3, Y: 1, Z: 2}
	cutoff := OcclusionCutoff(missRay, p, p, 6000, 0xFFFFFFFF)
	if cutoff != parameter.CutoffOpen {
		t.Errorf("cutoff = %v, want open at zero distance", cutoff)
	}
}

func TestProximityGainCapped(t *testing.T) {
	emit := vmath.Vec3{}
	for d := 0.0; d <= 200; d += 10 {
		g := ProximityGain(emit, emit, vmath.Vec3{X: d}, 100, 0)
		if g > 0 {
			t.Fatalf("gain %v at distance %v exceeds cap", g, d)
		}
	}
}

func TestProximityGainRisesWithDistance(t *testing.T) {
	emit := vmath.Vec3{}
	near := ProximityGain(emit, emit, vmath.Vec3{X: 1}, 100, 0)
	far := ProximityGain(emit, emit, vmath.Vec3{X: 100}, 100, 0)

	if near >= far {
		t.Errorf("near %v >= far %v, want attenuation close to the source", near, far)
	}
	if far != 0 {
		t.Errorf("gain at full range = %v, want configured maximum", far)
	}
}

func TestProximityGainReflectionBlend(t *testing.T) {
	// Listener sits on the reflection point: dl=0 attenuates fully
	emit := vmath.Vec3{X: 5}
	source := vmath.Vec3{}

	g := ProximityGain(emit, source, emit, 100, -6)
	if g != -6-parameter.ProximityReductionDB {
		t.Errorf("gain = %v, want max reduction when listener is on the point", g)
	}
}

func TestProximityBass(t *testing.T) {
	emit := vmath.Vec3{}

	if b := ProximityBass(emit, vmath.Vec3{X: 5}, 0); b != 0 {
		t.Errorf("bass = %v, radius 0 must disable", b)
	}
	if b := ProximityBass(emit, emit, 10); b != 0 {
		t.Errorf("bass = %v at zero distance, want 0", b)
	}
	if b := ProximityBass(emit, vmath.Vec3{X: 5}, 10); b != parameter.ProximityBassMaxDB/2 {
		t.Errorf("bass = %v at half radius, want half cap", b)
	}
	if b := ProximityBass(emit, vmath.Vec3{X: 50}, 10); b != parameter.ProximityBassMaxDB {
		t.Errorf("bass = %v beyond radius, want cap", b)
	}
}
