package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind tags the collision shape variant. The order is significant:
// narrowphase pairs are always dispatched with the lower kind first.
type ShapeKind int

const (
	KindSphere ShapeKind = iota
	KindPlane
	KindBox
	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindBox:
		return "box"
	default:
		return fmt.Sprintf("shape(%d)", int(k))
	}
}

// planeNormal is the local normal of every plane. A floor is obtained by
// rotating the body -90 degrees about X.
var planeNormal = mgl64.Vec3{0, 0, 1}

// Shape is an immutable collision shape. Build it with NewSphere, NewBox or
// NewPlane; the zero value is not a valid shape.
type Shape struct {
	kind        ShapeKind
	radius      float64
	halfExtents mgl64.Vec3
	valid       bool
}

func NewSphere(radius float64) Shape {
	return Shape{kind: KindSphere, radius: radius, valid: radius > 0 && !math.IsInf(radius, 0)}
}

func NewBox(halfExtents mgl64.Vec3) Shape {
	ok := true
	for _, h := range halfExtents {
		if !(h > 0) || math.IsInf(h, 0) {
			ok = false
		}
	}
	return Shape{kind: KindBox, halfExtents: halfExtents, valid: ok}
}

func NewPlane() Shape {
	return Shape{kind: KindPlane, valid: true}
}

func (s Shape) Kind() ShapeKind         { return s.kind }
func (s Shape) Radius() float64         { return s.radius }
func (s Shape) HalfExtents() mgl64.Vec3 { return s.halfExtents }
func (s Shape) Valid() bool             { return s.valid }

// BoundingRadius is the radius of the smallest sphere around the shape's
// origin that contains it. Planes are unbounded.
func (s Shape) BoundingRadius() float64 {
	switch s.kind {
	case KindSphere:
		return s.radius
	case KindBox:
		return s.halfExtents.Len()
	default:
		return math.Inf(1)
	}
}

// Inertia returns the diagonal of the local inertia tensor for the given mass.
func (s Shape) Inertia(mass float64) mgl64.Vec3 {
	switch s.kind {
	case KindSphere:
		i := 2.0 / 5.0 * mass * s.radius * s.radius
		return mgl64.Vec3{i, i, i}
	case KindBox:
		x, y, z := 2*s.halfExtents[0], 2*s.halfExtents[1], 2*s.halfExtents[2]
		return mgl64.Vec3{
			mass / 12 * (y*y + z*z),
			mass / 12 * (x*x + z*z),
			mass / 12 * (x*x + y*y),
		}
	default:
		return mgl64.Vec3{}
	}
}

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max mgl64.Vec3
}

func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}

// WorldAABB bounds the shape placed at the given pose.
func (s Shape) WorldAABB(pos mgl64.Vec3, q mgl64.Quat) AABB {
	switch s.kind {
	case KindSphere:
		r := mgl64.Vec3{s.radius, s.radius, s.radius}
		return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
	case KindBox:
		m := q.Mat4().Mat3()
		var ext mgl64.Vec3
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				ext[i] += math.Abs(m.At(i, j)) * s.halfExtents[j]
			}
		}
		return AABB{Min: pos.Sub(ext), Max: pos.Add(ext)}
	default:
		return planeAABB(pos, q.Rotate(planeNormal))
	}
}

// planeAABB is unbounded except along an axis-aligned normal, where the
// half-space is capped at the plane.
func planeAABB(pos, n mgl64.Vec3) AABB {
	inf := math.Inf(1)
	box := AABB{
		Min: mgl64.Vec3{-inf, -inf, -inf},
		Max: mgl64.Vec3{inf, inf, inf},
	}
	const eps = 1e-9
	for i := 0; i < 3; i++ {
		switch {
		case math.Abs(n[i]-1) < eps:
			box.Max[i] = pos[i]
		case math.Abs(n[i]+1) < eps:
			box.Min[i] = pos[i]
		}
	}
	return box
}

// boxCorners returns the eight corners of a box in world space.
func boxCorners(h mgl64.Vec3, pos mgl64.Vec3, q mgl64.Quat) [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		local := mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			local[0] = -local[0]
		}
		if i&2 != 0 {
			local[1] = -local[1]
		}
		if i&4 != 0 {
			local[2] = -local[2]
		}
		out[i] = pos.Add(q.Rotate(local))
	}
	return out
}
