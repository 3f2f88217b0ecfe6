// Package physics provides a small rigid-body world for sphere, box and
// plane shapes.
//
// The world advances in fixed sub-steps and resolves contacts with a
// sequential-impulse solver:
//
//   - [Shape]: closed variant of [KindSphere], [KindBox] and [KindPlane]
//   - [Material] and [ContactMaterial]: friction and restitution
//   - [Body]: static (mass 0) or dynamic rigid body
//   - [World]: gravity, broadphase, narrowphase table, solver, sleep
//   - [SAPBroadphase] and [NaiveBroadphase]: candidate pair culling
//
// # Stepping
//
//	w := physics.NewWorld(physics.DefaultConfig())
//	ball, _ := w.AddBody(physics.BodyOptions{
//	    Shape:    physics.NewSphere(0.3),
//	    Mass:     1,
//	    Position: mgl64.Vec3{0, 3, 0},
//	})
//	ball.OnContact(func(ev physics.ContactEvent) { ... })
//	w.Step(1.0/60, frameDelta, 3)
//
// # Contact Events
//
// Handlers attached with [Body.OnContact] run synchronously inside
// [World.Step], once per pair that starts touching, after the sub-step
// that detected it has been integrated.
package physics
