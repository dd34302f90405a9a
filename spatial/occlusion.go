package spatial

import (
	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// Occlusion and proximity estimation: pure functions of the probe result
// and the source/listener geometry, called once per tick per active slot
// owner. A probe miss means an unobstructed path, not an error.

// OcclusionCutoff casts one probe from the emit position toward the
// listener. A hit strictly closer than the listener yields a cutoff
// proportional to how much of the path is clear near the source; otherwise
// the filter is fully open.
func OcclusionCutoff(ray trace.Raycaster, emitPos, listenerPos vmath.Vec3, baseCutoff float64, mask uint32) float64 {
	delta := vmath.V3Sub(listenerPos, emitPos)
	dist := vmath.V3Mag(delta)
	if dist <= vmath.Epsilon {
		return parameter.CutoffOpen
	}

	hit := ray.Cast(emitPos, vmath.V3Scale(delta, 1/dist), dist, mask)
	if hit.Hit && hit.Distance < dist {
		return baseCutoff * hit.Distance / dist
	}
	return parameter.CutoffOpen
}

// ProximityGain attenuates a slot as the listener closes in on it
// Two clamped distance ratios are blended: listener distance against the
// probe range, and listener distance against the emit point's offset from
// its owning source (1.0 for the dry slot, which sits on the source).
// The blend scales a fixed reduction range below maxGainDB; the result
// approaches maxGainDB with distance and never exceeds it.
func ProximityGain(emitPos, sourcePos, listenerPos vmath.Vec3, maxProbeDist, maxGainDB float64) float64 {
	dl := vmath.V3Dist(listenerPos, emitPos)
	ds := vmath.V3Dist(sourcePos, emitPos)

	r1 := vmath.Clamp01(dl / maxProbeDist)
	r2 := 1.0
	if ds > vmath.Epsilon {
		r2 = vmath.Clamp01(dl / ds)
	}
	blend := (r1 + r2) / 2

	gain := maxGainDB - parameter.ProximityReductionDB*(1-blend)
	if gain > maxGainDB {
		gain = maxGainDB
	}
	return gain
}

// ProximityBass ramps a bass boost from 0 to the cap as listener distance
// grows from 0 to radius; radius 0 disables the feature
func ProximityBass(emitPos, listenerPos vmath.Vec3, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return parameter.ProximityBassMaxDB * vmath.Clamp01(vmath.V3Dist(listenerPos, emitPos)/radius)
}
