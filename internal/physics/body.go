package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType distinguishes bodies moved by the solver from immovable ones.
type BodyType int

const (
	// Dynamic bodies have finite mass and respond to gravity and contacts.
	Dynamic BodyType = iota
	// Static bodies have mass 0. They only move when their pose is set
	// directly (kinematic override).
	Static
)

// SleepState of a body. Sleeping bodies are skipped by integration but
// still take part in collision queries.
type SleepState int

const (
	Awake SleepState = iota
	Sleepy
	Sleeping
)

func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	default:
		return "sleeping"
	}
}

const (
	DefaultSleepSpeedLimit = 0.1
	DefaultSleepTimeLimit  = 1.0
)

// ContactHandler is called once per newly detected contact involving the body.
type ContactHandler func(ContactEvent)

// BodyOptions configure World.AddBody. A nil Material selects the world's
// default material, a zero Orientation selects the identity.
type BodyOptions struct {
	Shape        Shape
	Material     *Material
	Mass         float64
	Position     mgl64.Vec3
	Orientation  mgl64.Quat
	DisableSleep bool
}

// Body is a rigid body owned by a World. Position, Orientation and the
// velocities are exported for kinematic overrides and inspection; the world
// refreshes derived data (AABB, world inertia) at every sub-step.
type Body struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	AllowSleep      bool
	SleepSpeedLimit float64
	SleepTimeLimit  float64

	id         int
	bodyType   BodyType
	mass       float64
	invMass    float64
	invInertia mgl64.Vec3
	shape      Shape
	material   *Material
	aabb       AABB

	sleepState     SleepState
	timeLastSleepy float64

	// velocity gravity added during the current sub-step
	gravityKick mgl64.Vec3

	handlers []ContactHandler
}

func (b *Body) ID() int                { return b.id }
func (b *Body) Type() BodyType         { return b.bodyType }
func (b *Body) IsStatic() bool         { return b.bodyType == Static }
func (b *Body) Mass() float64          { return b.mass }
func (b *Body) Shape() Shape           { return b.shape }
func (b *Body) Material() *Material    { return b.material }
func (b *Body) AABB() AABB             { return b.aabb }
func (b *Body) SleepState() SleepState { return b.sleepState }

// OnContact appends a handler. Handlers run in registration order.
func (b *Body) OnContact(h ContactHandler) {
	b.handlers = append(b.handlers, h)
}

// SetPosition moves the body directly, bypassing dynamics.
func (b *Body) SetPosition(p mgl64.Vec3) {
	b.Position = p
	b.updateAABB()
}

// SetOrientation rotates the body directly, bypassing dynamics.
func (b *Body) SetOrientation(q mgl64.Quat) {
	b.Orientation = q.Normalize()
	b.updateAABB()
}

func (b *Body) WakeUp() {
	b.sleepState = Awake
	b.timeLastSleepy = 0
}

func (b *Body) Sleep() {
	b.sleepState = Sleeping
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

// ApplyImpulse applies an impulse at a point given relative to the body's
// center and wakes the body. Static bodies ignore it.
func (b *Body) ApplyImpulse(impulse, rel mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	b.WakeUp()
	b.applyImpulse(impulse, rel, b.invInertiaWorld())
}

func (b *Body) applyImpulse(impulse, rel mgl64.Vec3, invI mgl64.Mat3) {
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	b.AngularVelocity = b.AngularVelocity.Add(invI.Mul3x1(rel.Cross(impulse)))
}

// active reports whether the solver may move the body during this sub-step.
func (b *Body) active() bool {
	return b.bodyType == Dynamic && b.sleepState != Sleeping
}

func (b *Body) invMassSolve() float64 {
	if !b.active() {
		return 0
	}
	return b.invMass
}

func (b *Body) invInertiaWorld() mgl64.Mat3 {
	r := b.Orientation.Mat4().Mat3()
	return r.Mul3(mgl64.Diag3(b.invInertia)).Mul3(r.Transpose())
}

func (b *Body) invInertiaSolve() mgl64.Mat3 {
	if !b.active() {
		return mgl64.Mat3{}
	}
	return b.invInertiaWorld()
}

// velocityAt is the velocity of a point given relative to the center.
func (b *Body) velocityAt(rel mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(rel))
}

func (b *Body) speedSquared() float64 {
	return b.Velocity.LenSqr() + b.AngularVelocity.LenSqr()
}

func (b *Body) updateAABB() {
	b.aabb = b.shape.WorldAABB(b.Position, b.Orientation)
}

func (b *Body) integrate(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	w := mgl64.Quat{W: 0, V: b.AngularVelocity}
	dq := w.Mul(b.Orientation).Scale(0.5 * dt)
	b.Orientation = b.Orientation.Add(dq).Normalize()
}

func (b *Body) sleepTick(now float64) {
	if !b.AllowSleep || b.bodyType != Dynamic {
		return
	}
	speed2 := b.speedSquared()
	limit2 := b.SleepSpeedLimit * b.SleepSpeedLimit
	switch {
	case b.sleepState == Awake && speed2 < limit2:
		b.sleepState = Sleepy
		b.timeLastSleepy = now
	case b.sleepState == Sleepy && speed2 > limit2:
		b.WakeUp()
	case b.sleepState == Sleepy && now-b.timeLastSleepy > b.SleepTimeLimit:
		b.Sleep()
	}
}

func validVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
