// Package trace provides the raycast contract consumed by the audio-physics
// core, plus a concrete scene of masked primitives for tests and demos.
package trace

import "github.com/claudehohl/SpatialAudio3D/vmath"

// Hit is the result of a single probe
// A miss is valid data, interpreted by callers as open space
type Hit struct {
	Hit      bool
	Point    vmath.Vec3
	Normal   vmath.Vec3
	Distance float64
}

// Raycaster is the collision collaborator
// dir is assumed normalized; hits beyond maxDist are discarded; mask selects
// which geometry layers the probe can see
type Raycaster interface {
	Cast(origin, dir vmath.Vec3, maxDist float64, mask uint32) Hit
}
