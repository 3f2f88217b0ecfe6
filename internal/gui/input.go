package gui

import (
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
)

// Key is a logical key. The window maps it to physical keys.
type Key int

const (
	KeyPaddle Key = iota
	KeySpawn
	KeyPause
	KeyQuit
	KeyOrbitLeft
	KeyOrbitRight
	KeyOrbitUp
	KeyOrbitDown
	KeyZoomIn
	KeyZoomOut
)

// Keys reports the keyboard for the current frame. Pressed and Released
// are edges and fire once per transition.
type Keys interface {
	Down(k Key) bool
	Pressed(k Key) bool
	Released(k Key) bool
}

// Player is the part of the game the keyboard drives.
type Player interface {
	Press()
	ReleasePaddle()
	SpawnSphere() (*physics.Body, error)
}

const (
	orbitSpeed = 1.5 // rad/s
	zoomSpeed  = 1.5 // factor per second
)

// Input turns one frame of key state into game and camera actions.
type Input struct {
	Paused bool
	Quit   bool

	holding bool
}

// Holding reports whether the paddle key is down.
func (in *Input) Holding() bool { return in.holding }

// Apply handles one frame lasting dt seconds. The paddle follows the real
// key-down and key-up edges. A spawn error is returned after the rest of
// the frame is handled.
func (in *Input) Apply(keys Keys, p Player, cam *render.Camera, dt float64) error {
	switch {
	case keys.Pressed(KeyPaddle) && !in.holding:
		in.holding = true
		p.Press()
	case keys.Released(KeyPaddle) && in.holding:
		in.holding = false
		p.ReleasePaddle()
	case in.holding && !keys.Down(KeyPaddle):
		// the window lost focus between edges
		in.holding = false
		p.ReleasePaddle()
	}

	if keys.Pressed(KeyPause) {
		in.Paused = !in.Paused
	}
	if keys.Pressed(KeyQuit) {
		in.Quit = true
	}

	if cam != nil {
		if keys.Down(KeyOrbitLeft) {
			cam.Orbit(-orbitSpeed*dt, 0)
		}
		if keys.Down(KeyOrbitRight) {
			cam.Orbit(orbitSpeed*dt, 0)
		}
		if keys.Down(KeyOrbitUp) {
			cam.Orbit(0, orbitSpeed*dt/2)
		}
		if keys.Down(KeyOrbitDown) {
			cam.Orbit(0, -orbitSpeed*dt/2)
		}
		if keys.Down(KeyZoomIn) {
			cam.Zoom(1 / (1 + zoomSpeed*dt))
		}
		if keys.Down(KeyZoomOut) {
			cam.Zoom(1 + zoomSpeed*dt)
		}
	}

	if keys.Pressed(KeySpawn) {
		if _, err := p.SpawnSphere(); err != nil {
			return err
		}
	}
	return nil
}
