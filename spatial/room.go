package spatial

import (
	"math"

	"github.com/claudehohl/SpatialAudio3D/parameter"
	"github.com/claudehohl/SpatialAudio3D/trace"
	"github.com/claudehohl/SpatialAudio3D/vmath"
)

// RoomEstimate is the aggregate acoustic readout of the enclosing space
// Both values are normalized to [0,1]; recomputed every tick, never stored
// independently of its probes
type RoomEstimate struct {
	Size    float64
	Wetness float64
}

// ReflectionTarget is the placement computed for one wall probe
type ReflectionTarget struct {
	Pos        vmath.Vec3
	Reflecting bool
}

// RoomEstimator owns the two fixed probe bundles of one source:
// 8 lateral + 1 vertical reflection probes for wall detection, and a
// denser bearing/elevation fan for room-size measurement
type RoomEstimator struct {
	reflectDirs [parameter.ReflectionProbeCount]vmath.Vec3
	sizeDirs    [parameter.RoomProbeCount]vmath.Vec3
}

func NewRoomEstimator() *RoomEstimator {
	re := &RoomEstimator{}

	for i := 0; i < parameter.ReflectionLateralCount; i++ {
		a := 2 * math.Pi * float64(i) / parameter.ReflectionLateralCount
		re.reflectDirs[i] = vmath.Vec3{X: math.Cos(a), Z: math.Sin(a)}
	}
	re.reflectDirs[parameter.ReflectionLateralCount] = vmath.Vec3{Y: 1}

	idx := 0
	for e := 0; e < parameter.RoomProbeElevations; e++ {
		elev := (float64(e) - float64(parameter.RoomProbeElevations-1)/2) * (math.Pi / 4)
		for b := 0; b < parameter.RoomProbeBearings; b++ {
			az := 2 * math.Pi * float64(b) / parameter.RoomProbeBearings
			re.sizeDirs[idx] = vmath.Vec3{
				X: math.Cos(elev) * math.Cos(az),
				Y: math.Sin(elev),
				Z: math.Cos(elev) * math.Sin(az),
			}
			idx++
		}
	}
	return re
}

// ReflectionDirs exposes the wall probe directions for debug views
func (re *RoomEstimator) ReflectionDirs() []vmath.Vec3 {
	return re.reflectDirs[:]
}

// Estimate runs the room-size fan. Every hit raises the averaged
// normalized-distance size; every miss sheds an equal share of wetness.
// Open space converges to dry, enclosed space to full wetness.
func (re *RoomEstimator) Estimate(ray trace.Raycaster, origin vmath.Vec3, maxDist, multiplier float64, mask uint32) RoomEstimate {
	n := float64(len(re.sizeDirs))
	norm := maxDist / multiplier
	size := 0.0
	wet := 1.0

	for _, dir := range re.sizeDirs {
		hit := ray.Cast(origin, dir, maxDist, mask)
		if hit.Hit {
			size += vmath.Clamp01(hit.Distance/norm) / n
		} else {
			wet -= 1.0 / n
		}
	}

	return RoomEstimate{
		Size:    vmath.Clamp01(size),
		Wetness: vmath.Clamp01(wet),
	}
}

// ReflectionTargets casts the wall probes and fills out, one target per
// probe direction. A hit only qualifies when incidence is steep enough to
// throw a perceptible discrete echo; qualifying points are lifted slightly
// off the surface so later occlusion probes do not self-collide. A miss
// parks the point far outside audible range.
func (re *RoomEstimator) ReflectionTargets(ray trace.Raycaster, origin vmath.Vec3, maxDist float64, mask uint32, out []ReflectionTarget) {
	for i, dir := range re.reflectDirs {
		hit := ray.Cast(origin, dir, maxDist, mask)
		if hit.Hit && incidenceAngle(dir, hit.Normal) > parameter.ReflectionAngleMin {
			out[i] = ReflectionTarget{
				Pos:        vmath.V3Add(hit.Point, vmath.V3Scale(hit.Normal, parameter.ReflectionSurfaceOffset)),
				Reflecting: true,
			}
			continue
		}
		out[i] = ReflectionTarget{
			Pos: vmath.V3Add(origin, vmath.V3Scale(dir, maxDist*parameter.ReflectionMissScale)),
		}
	}
}

func incidenceAngle(dir, normal vmath.Vec3) float64 {
	return math.Acos(vmath.Clamp(vmath.V3Dot(dir, normal), -1, 1))
}
