package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultGravity          = -9.82
	DefaultFriction         = 0.1
	DefaultRestitution      = 0.7
	DefaultSolverIterations = 10

	// A sleeping body penetrated deeper than this by any body wakes up.
	wakePenetration = 0.05
)

type Config struct {
	Gravity          mgl64.Vec3
	Broadphase       Broadphase
	AllowSleep       bool
	SolverIterations int
	Friction         float64
	Restitution      float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:          mgl64.Vec3{0, DefaultGravity, 0},
		Broadphase:       NewSAPBroadphase(),
		AllowSleep:       true,
		SolverIterations: DefaultSolverIterations,
		Friction:         DefaultFriction,
		Restitution:      DefaultRestitution,
	}
}

// World owns every body and advances them in fixed sub-steps.
// It is not safe for concurrent use.
type World struct {
	gravity    mgl64.Vec3
	broadphase Broadphase
	allowSleep bool
	solver     solver

	defaultMaterial  *Material
	defaultContact   *ContactMaterial
	contactMaterials map[materialPair]*ContactMaterial

	bodies []*Body
	byID   map[int]*Body
	nextID int

	time        float64
	accumulator float64
	steps       uint64
	dropped     uint64

	matrix     collisionMatrix
	prevMatrix collisionMatrix
	pairs      []bodyPair
	contacts   []*contact
	events     []ContactEvent
}

func NewWorld(cfg Config) *World {
	if cfg.Broadphase == nil {
		cfg.Broadphase = NewSAPBroadphase()
	}
	if cfg.SolverIterations <= 0 {
		cfg.SolverIterations = DefaultSolverIterations
	}
	def := NewMaterial("default")
	return &World{
		gravity:          cfg.Gravity,
		broadphase:       cfg.Broadphase,
		allowSleep:       cfg.AllowSleep,
		solver:           solver{iterations: cfg.SolverIterations},
		defaultMaterial:  def,
		defaultContact:   NewContactMaterial(def, def, cfg.Friction, cfg.Restitution),
		contactMaterials: make(map[materialPair]*ContactMaterial),
		byID:             make(map[int]*Body),
		matrix:           make(collisionMatrix),
		prevMatrix:       make(collisionMatrix),
	}
}

func (w *World) Gravity() mgl64.Vec3             { return w.gravity }
func (w *World) SetGravity(g mgl64.Vec3)         { w.gravity = g }
func (w *World) Time() float64                   { return w.time }
func (w *World) Steps() uint64                   { return w.steps }
func (w *World) DroppedTime() uint64             { return w.dropped }
func (w *World) Bodies() []*Body                 { return w.bodies }
func (w *World) Broadphase() Broadphase          { return w.broadphase }
func (w *World) DefaultMaterial() *Material      { return w.defaultMaterial }
func (w *World) ContactCount() int               { return len(w.contacts) }
func (w *World) AllowSleep() bool                { return w.allowSleep }
func (w *World) DefaultContact() ContactMaterial { return *w.defaultContact }

// SetAllowSleep toggles sleeping for the whole world. Turning it off wakes
// every sleeping body.
func (w *World) SetAllowSleep(allow bool) {
	w.allowSleep = allow
	if allow {
		return
	}
	for _, b := range w.bodies {
		if b.bodyType == Dynamic && b.sleepState != Awake {
			b.WakeUp()
		}
	}
}

func (w *World) Body(id int) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// SetDefaultContact changes the surface used by every pair without an
// explicit contact material.
func (w *World) SetDefaultContact(friction, restitution float64) {
	w.defaultContact.Friction = friction
	w.defaultContact.Restitution = restitution
}

func (w *World) AddContactMaterial(cm *ContactMaterial) {
	w.contactMaterials[makeMaterialPair(cm.A, cm.B)] = cm
}

// AddBody validates the options, registers a new body and returns it.
// Mass 0 makes a static body.
func (w *World) AddBody(opts BodyOptions) (*Body, error) {
	if !opts.Shape.Valid() {
		return nil, fmt.Errorf("%w: invalid %s shape", ErrInvalidBody, opts.Shape.Kind())
	}
	if opts.Mass < 0 || math.IsNaN(opts.Mass) || math.IsInf(opts.Mass, 0) {
		return nil, fmt.Errorf("%w: mass %g", ErrInvalidBody, opts.Mass)
	}
	if opts.Shape.Kind() == KindPlane && opts.Mass != 0 {
		return nil, fmt.Errorf("%w: planes must be static", ErrInvalidBody)
	}
	if !validVec(opts.Position) {
		return nil, fmt.Errorf("%w: position %v", ErrInvalidBody, opts.Position)
	}

	q := opts.Orientation
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	mat := opts.Material
	if mat == nil {
		mat = w.defaultMaterial
	}

	w.nextID++
	b := &Body{
		Position:        opts.Position,
		Orientation:     q.Normalize(),
		AllowSleep:      !opts.DisableSleep,
		SleepSpeedLimit: DefaultSleepSpeedLimit,
		SleepTimeLimit:  DefaultSleepTimeLimit,
		id:              w.nextID,
		bodyType:        Static,
		mass:            opts.Mass,
		shape:           opts.Shape,
		material:        mat,
	}
	if opts.Mass > 0 {
		b.bodyType = Dynamic
		b.invMass = 1 / opts.Mass
		inertia := opts.Shape.Inertia(opts.Mass)
		for i := 0; i < 3; i++ {
			if inertia[i] > 0 {
				b.invInertia[i] = 1 / inertia[i]
			}
		}
	}
	b.updateAABB()

	w.bodies = append(w.bodies, b)
	w.byID[b.id] = b
	return b, nil
}

// Step advances the world by delta seconds of wall-clock time using sub-steps
// of fixed seconds, at most maxSubsteps of them. A zero delta performs
// exactly one sub-step. Time left over after the cap is dropped. It returns
// the number of sub-steps taken; invalid arguments leave the world untouched.
func (w *World) Step(fixed, delta float64, maxSubsteps int) (int, error) {
	if !(fixed > 0) || math.IsInf(fixed, 0) || !(delta >= 0) || math.IsInf(delta, 0) || maxSubsteps < 1 {
		return 0, &StepError{Time: w.time, Fixed: fixed, Delta: delta, Wrapped: ErrInvalidStep}
	}
	if delta == 0 {
		w.internalStep(fixed)
		return 1, nil
	}

	w.accumulator += delta
	// absorbs rounding in deltas computed from subtracted clock readings
	eps := 1e-9 * fixed
	n := 0
	for w.accumulator+eps >= fixed && n < maxSubsteps {
		w.internalStep(fixed)
		w.accumulator -= fixed
		n++
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}
	if w.accumulator+eps >= fixed {
		w.accumulator = math.Mod(w.accumulator, fixed)
		w.dropped++
	}
	return n, nil
}

func (w *World) internalStep(dt float64) {
	for _, b := range w.bodies {
		b.gravityKick = mgl64.Vec3{}
		if b.active() {
			b.gravityKick = w.gravity.Mul(dt)
			b.Velocity = b.Velocity.Add(b.gravityKick)
		}
		b.updateAABB()
	}

	w.pairs = w.broadphase.Pairs(w.bodies, w.pairs[:0])
	w.contacts = w.contacts[:0]
	for _, p := range w.pairs {
		w.contacts = collide(p.a, p.b, w.contacts)
	}

	w.prevMatrix, w.matrix = w.matrix, w.prevMatrix
	w.matrix.reset()
	w.events = w.events[:0]
	fresh := make(map[pairKey]int)

	for _, c := range w.contacts {
		c.friction, c.restitution = w.surface(c.a.material, c.b.material)
		w.wakeOnContact(c)

		k := makePairKey(c.a, c.b)
		w.matrix[k] = struct{}{}
		if w.prevMatrix.has(k) {
			continue
		}
		ev := ContactEvent{
			BodyA:          c.a,
			BodyB:          c.b,
			Normal:         c.normal,
			ImpactVelocity: c.impactVelocity(dt),
			Penetration:    c.depth,
		}
		if i, ok := fresh[k]; ok {
			if ev.ImpactVelocity > w.events[i].ImpactVelocity {
				w.events[i] = ev
			}
			continue
		}
		fresh[k] = len(w.events)
		w.events = append(w.events, ev)
	}
	w.carryLostPairs()

	w.solver.solve(w.contacts, dt)

	for _, b := range w.bodies {
		if b.active() {
			b.integrate(dt)
		}
	}
	w.time += dt
	w.steps++

	for _, b := range w.bodies {
		b.updateAABB()
		if w.allowSleep {
			b.sleepTick(w.time)
		}
	}

	for _, ev := range w.events {
		for _, h := range ev.BodyA.handlers {
			h(ev)
		}
		for _, h := range ev.BodyB.handlers {
			h(ev)
		}
	}
}

// wakeOnContact wakes a sleeping body hit by a fast awake body or pushed
// into by a kinematically moved one.
func (w *World) wakeOnContact(c *contact) {
	wakeIfDisturbed(c.a, c.b, c.depth)
	wakeIfDisturbed(c.b, c.a, c.depth)
}

func wakeIfDisturbed(sleeper, other *Body, depth float64) {
	if sleeper.bodyType != Dynamic || sleeper.sleepState != Sleeping {
		return
	}
	limit := other.SleepSpeedLimit * other.SleepSpeedLimit
	if other.active() && other.speedSquared() >= 2*limit {
		sleeper.WakeUp()
		return
	}
	if depth > wakePenetration {
		sleeper.WakeUp()
	}
}

// carryLostPairs keeps pairs of two sleeping bodies in the matrix, since the
// broadphase skips them, and wakes sleeping bodies that lost a contact.
func (w *World) carryLostPairs() {
	for k := range w.prevMatrix {
		if w.matrix.has(k) {
			continue
		}
		a, b := w.byID[k.lo], w.byID[k.hi]
		if a == nil || b == nil {
			continue
		}
		if a.sleepState == Sleeping && b.sleepState == Sleeping {
			w.matrix[k] = struct{}{}
			continue
		}
		for _, body := range []*Body{a, b} {
			if body.bodyType == Dynamic && body.sleepState == Sleeping {
				body.WakeUp()
			}
		}
	}
}
