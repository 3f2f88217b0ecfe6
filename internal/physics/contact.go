package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ContactEvent reports a pair of bodies that started touching. Normal points
// from BodyA towards BodyB. ImpactVelocity is the approach speed along the
// normal when the surfaces met, measured before the solver ran; it is
// positive for bodies moving into each other.
type ContactEvent struct {
	BodyA, BodyB   *Body
	Normal         mgl64.Vec3
	ImpactVelocity float64
	Penetration    float64
}

// Other returns the body in the event that is not b.
func (e ContactEvent) Other(b *Body) *Body {
	if e.BodyA == b {
		return e.BodyB
	}
	return e.BodyA
}

// contact is one solver constraint between two bodies.
type contact struct {
	a, b   *Body
	normal mgl64.Vec3 // from a to b
	ra, rb mgl64.Vec3 // contact point relative to each center
	depth  float64

	friction    float64
	restitution float64

	t1, t2 mgl64.Vec3
	invIA  mgl64.Mat3
	invIB  mgl64.Mat3
	invMA  float64
	invMB  float64
	massN  float64
	massT1 float64
	massT2 float64
	target float64
	jn     float64
	jt1    float64
	jt2    float64
}

// impactVelocity is the approach speed along the normal at the moment the
// surfaces met. The gravity added during this sub-step is removed, and so is
// the speed gained while falling through the current penetration depth.
func (c *contact) impactVelocity(dt float64) float64 {
	va := c.a.velocityAt(c.ra)
	vb := c.b.velocityAt(c.rb)
	v := c.normal.Dot(va) - c.normal.Dot(vb)

	// closing acceleration along the normal
	kick := c.normal.Dot(c.a.gravityKick) - c.normal.Dot(c.b.gravityKick)
	v -= kick
	if v <= 0 || kick <= 0 || dt <= 0 {
		return v
	}
	return math.Sqrt(math.Max(v*v-2*(kick/dt)*c.depth, 0))
}

type pairKey struct {
	lo, hi int
}

func makePairKey(a, b *Body) pairKey {
	if a.id > b.id {
		a, b = b, a
	}
	return pairKey{a.id, b.id}
}

// collisionMatrix remembers which pairs touched during a sub-step.
type collisionMatrix map[pairKey]struct{}

func (m collisionMatrix) has(k pairKey) bool {
	_, ok := m[k]
	return ok
}

func (m collisionMatrix) reset() {
	for k := range m {
		delete(m, k)
	}
}
