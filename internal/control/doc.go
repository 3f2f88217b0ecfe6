// Package control drives the paddle kinematically.
//
// The paddle is a static body, so gravity and contacts never move it. A
// [Paddle] is the only source of its motion: while Rising it lifts the
// paddle's proxy by a fixed step per frame and forces the body to follow;
// while Free it pins both back to the rest height.
//
// Terminals report key presses but not releases. [Hold] turns a stream of
// key repeats into press and release edges using a timeout.
//
// # Usage
//
//	p := control.NewPaddle(control.DefaultSpeed, control.DefaultRestHeight)
//	p.Press()
//	p.Apply(proxy, body) // once per frame
package control
