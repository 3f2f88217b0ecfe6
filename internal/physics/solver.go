package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Approach speeds below this do not bounce, so resting bodies settle.
	restitutionThreshold = 0.5
	// Penetration tolerated before positional correction kicks in.
	penetrationSlop = 0.01
	// Fraction of the remaining penetration removed per sub-step.
	correctionRate = 0.8
)

// solver resolves contacts with sequential impulses and accumulated
// clamping, followed by a positional projection of the penetration.
type solver struct {
	iterations int
}

func (s *solver) solve(contacts []*contact, dt float64) {
	for _, c := range contacts {
		c.prepare(dt)
	}
	for it := 0; it < s.iterations; it++ {
		for _, c := range contacts {
			c.solveNormal()
			c.solveFriction()
		}
	}
	for _, c := range contacts {
		c.correctPosition()
	}
}

func (c *contact) prepare(dt float64) {
	c.invMA, c.invMB = c.a.invMassSolve(), c.b.invMassSolve()
	c.invIA, c.invIB = c.a.invInertiaSolve(), c.b.invInertiaSolve()
	c.t1, c.t2 = tangentBasis(c.normal)

	c.massN = c.effectiveMass(c.normal)
	c.massT1 = c.effectiveMass(c.t1)
	c.massT2 = c.effectiveMass(c.t2)

	c.target = 0
	if vn := c.impactVelocity(dt); vn > restitutionThreshold {
		c.target = c.restitution * vn
	}
	c.jn, c.jt1, c.jt2 = 0, 0, 0
}

func (c *contact) effectiveMass(dir mgl64.Vec3) float64 {
	ca := c.ra.Cross(dir)
	cb := c.rb.Cross(dir)
	k := c.invMA + c.invMB +
		ca.Dot(c.invIA.Mul3x1(ca)) +
		cb.Dot(c.invIB.Mul3x1(cb))
	if k <= 0 {
		return 0
	}
	return 1 / k
}

// relativeVelocity is the velocity of b relative to a at the contact point.
func (c *contact) relativeVelocity() mgl64.Vec3 {
	return c.b.velocityAt(c.rb).Sub(c.a.velocityAt(c.ra))
}

func (c *contact) apply(impulse mgl64.Vec3) {
	if c.invMA > 0 {
		c.a.applyImpulse(impulse.Mul(-1), c.ra, c.invIA)
	}
	if c.invMB > 0 {
		c.b.applyImpulse(impulse, c.rb, c.invIB)
	}
}

func (c *contact) solveNormal() {
	if c.massN == 0 {
		return
	}
	vn := c.relativeVelocity().Dot(c.normal)
	dj := c.massN * (c.target - vn)
	next := math.Max(c.jn+dj, 0)
	dj = next - c.jn
	c.jn = next
	c.apply(c.normal.Mul(dj))
}

func (c *contact) solveFriction() {
	limit := c.friction * c.jn
	if limit <= 0 {
		return
	}
	v := c.relativeVelocity()
	c.jt1 = c.frictionAxis(v, c.t1, c.massT1, c.jt1, limit)
	v = c.relativeVelocity()
	c.jt2 = c.frictionAxis(v, c.t2, c.massT2, c.jt2, limit)
}

func (c *contact) frictionAxis(v, t mgl64.Vec3, mass, acc, limit float64) float64 {
	if mass == 0 {
		return acc
	}
	dj := -mass * v.Dot(t)
	next := mgl64.Clamp(acc+dj, -limit, limit)
	c.apply(t.Mul(next - acc))
	return next
}

func (c *contact) correctPosition() {
	total := c.invMA + c.invMB
	if total == 0 {
		return
	}
	excess := c.depth - penetrationSlop
	if excess <= 0 {
		return
	}
	shift := c.normal.Mul(excess * correctionRate / total)
	if c.invMA > 0 {
		c.a.Position = c.a.Position.Sub(shift.Mul(c.invMA))
	}
	if c.invMB > 0 {
		c.b.Position = c.b.Position.Add(shift.Mul(c.invMB))
	}
}

// tangentBasis returns two unit vectors orthogonal to n and to each other.
func tangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(n[0]) > 0.57 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	t1 := n.Cross(ref).Normalize()
	return t1, n.Cross(t1)
}
