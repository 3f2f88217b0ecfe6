// Package render keeps visual stand-ins in step with the physics world and
// draws them into a terminal viewport.
//
// # Render Sync
//
// A [VisualProxy] is paired one-to-one with a dynamic body through a
// [Registry]. [Registry.Sync] copies the body's position and orientation
// into the proxy verbatim; nothing ever flows back into the body.
//
// # Drawing
//
// Proxies carry a [Mesh] in local coordinates. A [Viewport] projects every
// edge through a perspective [Camera] onto a braille [Canvas]:
//
//	cam := render.NewCamera()
//	vp := render.NewViewport(80, 24, cam)
//	out := vp.Render(proxies)
package render
