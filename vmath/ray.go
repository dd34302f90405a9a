package vmath

import "math"

// Epsilon guards against self-intersection and parallel-slab divisions
const Epsilon = 1e-6

// RaySphere intersects a ray with a sphere
// Returns the hit distance along dir (assumed normalized) and whether the
// ray hits in front of the origin
func RaySphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := V3Sub(origin, center)
	b := 2.0 * V3Dot(oc, dir)
	c := V3MagSq(oc) - radius*radius
	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / 2.0
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// RayAABB intersects a ray with an axis-aligned box via the slab method
// Returns hit distance and the entry-face normal
func RayAABB(origin, dir, min, max Vec3) (float64, Vec3, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	axis := -1
	sign := 0.0

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < Epsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, Vec3{}, false
			}
			continue
		}
		invD := 1.0 / d[i]
		t0 := (lo[i] - o[i]) * invD
		t1 := (hi[i] - o[i]) * invD
		s := -1.0
		if invD < 0 {
			t0, t1 = t1, t0
			s = 1.0
		}
		if t0 > tMin {
			tMin = t0
			axis = i
			sign = s
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, Vec3{}, false
		}
	}
	if tMin <= Epsilon || axis < 0 {
		return 0, Vec3{}, false
	}

	var n Vec3
	switch axis {
	case 0:
		n = Vec3{sign, 0, 0}
	case 1:
		n = Vec3{0, sign, 0}
	case 2:
		n = Vec3{0, 0, sign}
	}
	return tMin, n, true
}

// RayPlane intersects a ray with an infinite plane through point with normal
// Returns hit distance and whether the ray crosses the plane in front of the
// origin
func RayPlane(origin, dir, point, normal Vec3) (float64, bool) {
	denom := V3Dot(dir, normal)
	if math.Abs(denom) < Epsilon {
		return 0, false
	}
	t := V3Dot(V3Sub(point, origin), normal) / denom
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}
