package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// collider generates contacts for a pair whose shape kinds match its table
// slot. a always holds the lower ShapeKind.
type collider func(a, b *Body, out []*contact) []*contact

var narrowphaseTable = [shapeKindCount][shapeKindCount]collider{
	KindSphere: {
		KindSphere: sphereSphere,
		KindPlane:  spherePlane,
		KindBox:    sphereBox,
	},
	KindPlane: {
		KindBox: planeBox,
	},
	KindBox: {
		KindBox: boxBox,
	},
}

// collide orders the pair by shape kind and runs the matching collider.
// Unsupported pairs (plane-plane) produce nothing.
func collide(a, b *Body, out []*contact) []*contact {
	if a.shape.kind > b.shape.kind {
		a, b = b, a
	}
	fn := narrowphaseTable[a.shape.kind][b.shape.kind]
	if fn == nil {
		return out
	}
	return fn(a, b, out)
}

func newContact(a, b *Body, n, ra, rb mgl64.Vec3, depth float64) *contact {
	return &contact{a: a, b: b, normal: n, ra: ra, rb: rb, depth: depth}
}

func sphereSphere(a, b *Body, out []*contact) []*contact {
	d := b.Position.Sub(a.Position)
	ra, rb := a.shape.radius, b.shape.radius
	dist := d.Len()
	if dist >= ra+rb {
		return out
	}
	n := mgl64.Vec3{0, 1, 0}
	if dist > 1e-12 {
		n = d.Mul(1 / dist)
	}
	return append(out, newContact(a, b, n, n.Mul(ra), n.Mul(-rb), ra+rb-dist))
}

// spherePlane treats the plane as a half-space below its normal.
func spherePlane(a, b *Body, out []*contact) []*contact {
	nw := b.Orientation.Rotate(planeNormal)
	r := a.shape.radius
	s := a.Position.Sub(b.Position).Dot(nw)
	if s >= r {
		return out
	}
	n := nw.Mul(-1)
	onPlane := a.Position.Sub(nw.Mul(s))
	return append(out, newContact(a, b, n, n.Mul(r), onPlane.Sub(b.Position), r-s))
}

func sphereBox(a, b *Body, out []*contact) []*contact {
	r := a.shape.radius
	h := b.shape.halfExtents
	inv := b.Orientation.Inverse()
	local := inv.Rotate(a.Position.Sub(b.Position))

	var closest mgl64.Vec3
	inside := true
	for i := 0; i < 3; i++ {
		closest[i] = mgl64.Clamp(local[i], -h[i], h[i])
		if closest[i] != local[i] {
			inside = false
		}
	}

	var nLocal mgl64.Vec3 // from box towards sphere
	var depth float64
	if inside {
		axis, best := 0, math.Inf(1)
		for i := 0; i < 3; i++ {
			if d := h[i] - math.Abs(local[i]); d < best {
				axis, best = i, d
			}
		}
		sign := 1.0
		if local[axis] < 0 {
			sign = -1
		}
		nLocal[axis] = sign
		closest[axis] = sign * h[axis]
		depth = r + best
	} else {
		diff := local.Sub(closest)
		dist := diff.Len()
		if dist >= r {
			return out
		}
		nLocal = diff.Mul(1 / dist)
		depth = r - dist
	}

	toSphere := b.Orientation.Rotate(nLocal)
	n := toSphere.Mul(-1)
	return append(out, newContact(a, b, n, n.Mul(r), b.Orientation.Rotate(closest), depth))
}

func planeBox(a, b *Body, out []*contact) []*contact {
	nw := a.Orientation.Rotate(planeNormal)
	for _, c := range boxCorners(b.shape.halfExtents, b.Position, b.Orientation) {
		s := c.Sub(a.Position).Dot(nw)
		if s >= 0 {
			continue
		}
		onPlane := c.Sub(nw.Mul(s))
		out = append(out, newContact(a, b, nw, onPlane.Sub(a.Position), c.Sub(b.Position), -s))
	}
	return out
}

// boxBox reports corners of either box that lie inside the other, pushed out
// through the nearest face. Edge-edge contacts are not detected.
func boxBox(a, b *Body, out []*contact) []*contact {
	for _, c := range boxCorners(a.shape.halfExtents, a.Position, a.Orientation) {
		if n, depth, ok := cornerInBox(c, b); ok {
			// n points out of b, so a is pushed along n and b against it.
			out = append(out, newContact(a, b, n.Mul(-1), c.Sub(a.Position), c.Add(n.Mul(depth)).Sub(b.Position), depth))
		}
	}
	for _, c := range boxCorners(b.shape.halfExtents, b.Position, b.Orientation) {
		if n, depth, ok := cornerInBox(c, a); ok {
			out = append(out, newContact(a, b, n, c.Add(n.Mul(depth)).Sub(a.Position), c.Sub(b.Position), depth))
		}
	}
	return out
}

// cornerInBox returns the outward face normal and depth of the nearest face
// when p lies inside box.
func cornerInBox(p mgl64.Vec3, box *Body) (mgl64.Vec3, float64, bool) {
	h := box.shape.halfExtents
	local := box.Orientation.Inverse().Rotate(p.Sub(box.Position))
	axis, best := -1, math.Inf(1)
	for i := 0; i < 3; i++ {
		d := h[i] - math.Abs(local[i])
		if d <= 0 {
			return mgl64.Vec3{}, 0, false
		}
		if d < best {
			axis, best = i, d
		}
	}
	var nLocal mgl64.Vec3
	nLocal[axis] = 1
	if local[axis] < 0 {
		nLocal[axis] = -1
	}
	return box.Orientation.Rotate(nLocal), best, true
}
