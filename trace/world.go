package trace

import "github.com/claudehohl/SpatialAudio3D/vmath"

// Sphere is a collidable ball
type Sphere struct {
	Center vmath.Vec3
	Radius float64
	Mask   uint32
}

// Box is a collidable axis-aligned box
type Box struct {
	Min, Max vmath.Vec3
	Mask     uint32
}

// Plane is an infinite collidable surface through Point facing Normal
type Plane struct {
	Point  vmath.Vec3
	Normal vmath.Vec3
	Mask   uint32
}

// World is a static primitive scene implementing Raycaster
// Geometry is added up front; Cast is read-only and safe for concurrent use
// once construction is done
type World struct {
	spheres []Sphere
	boxes   []Box
	planes  []Plane
}

func NewWorld() *World {
	return &World{}
}

func (w *World) AddSphere(s Sphere) {
	if s.Mask == 0 {
		s.Mask = 0xFFFFFFFF
	}
	w.spheres = append(w.spheres, s)
}

func (w *World) AddBox(b Box) {
	if b.Mask == 0 {
		b.Mask = 0xFFFFFFFF
	}
	w.boxes = append(w.boxes, b)
}

func (w *World) AddPlane(p Plane) {
	if p.Mask == 0 {
		p.Mask = 0xFFFFFFFF
	}
	p.Normal = vmath.V3Normalize(p.Normal)
	w.planes = append(w.planes, p)
}

// Cast returns the closest masked hit along dir within maxDist
func (w *World) Cast(origin, dir vmath.Vec3, maxDist float64, mask uint32) Hit {
	closest := Hit{Distance: maxDist}

	for i := range w.spheres {
		s := &w.spheres[i]
		if s.Mask&mask == 0 {
			continue
		}
		t, ok := vmath.RaySphere(origin, dir, s.Center, s.Radius)
		if !ok || t >= closest.Distance {
			continue
		}
		point := vmath.V3Add(origin, vmath.V3Scale(dir, t))
		closest = Hit{
			Hit:      true,
			Point:    point,
			Normal:   vmath.V3Normalize(vmath.V3Sub(point, s.Center)),
			Distance: t,
		}
	}

	for i := range w.boxes {
		b := &w.boxes[i]
		if b.Mask&mask == 0 {
			continue
		}
		t, n, ok := vmath.RayAABB(origin, dir, b.Min, b.Max)
		if !ok || t >= closest.Distance {
			continue
		}
		closest = Hit{
			Hit:      true,
			Point:    vmath.V3Add(origin, vmath.V3Scale(dir, t)),
			Normal:   n,
			Distance: t,
		}
	}

	for i := range w.planes {
		p := &w.planes[i]
		if p.Mask&mask == 0 {
			continue
		}
		t, ok := vmath.RayPlane(origin, dir, p.Point, p.Normal)
		if !ok || t >= closest.Distance {
			continue
		}
		n := p.Normal
		if vmath.V3Dot(dir, n) > 0 {
			n = vmath.V3Scale(n, -1)
		}
		closest = Hit{
			Hit:      true,
			Point:    vmath.V3Add(origin, vmath.V3Scale(dir, t)),
			Normal:   n,
			Distance: t,
		}
	}

	if !closest.Hit {
		return Hit{}
	}
	return closest
}
