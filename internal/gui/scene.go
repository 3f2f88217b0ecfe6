package gui

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
)

// Layer groups what is drawn with the same color.
type Layer int

const (
	LayerFloor Layer = iota
	LayerPaddle
	LayerSphere
)

// Segment is a world-space line.
type Segment struct {
	A, B  mgl64.Vec3
	Layer Layer
}

// Ball is a solid sphere in world space.
type Ball struct {
	Center mgl64.Vec3
	Radius float64
}

// Scene is one frame of drawable geometry.
type Scene struct {
	Segments []Segment
	Balls    []Ball
}

// BuildScene flattens proxies as returned by game.Game.Proxies: floor,
// paddle, then spheres. Sphere bodies become solid balls and everything
// else is drawn as its wireframe. The scene is reused between frames.
func BuildScene(dst *Scene, proxies []*render.VisualProxy) {
	dst.Segments = dst.Segments[:0]
	dst.Balls = dst.Balls[:0]
	for i, p := range proxies {
		if p == nil {
			continue
		}
		if b := p.Body(); b != nil && b.Shape().Kind() == physics.KindSphere {
			dst.Balls = append(dst.Balls, Ball{Center: p.Position, Radius: b.Shape().Radius()})
			continue
		}
		if p.Mesh == nil {
			continue
		}
		layer := LayerSphere
		switch i {
		case 0:
			layer = LayerFloor
		case 1:
			layer = LayerPaddle
		}
		for _, e := range p.Mesh.Edges {
			dst.Segments = append(dst.Segments, Segment{A: p.Transform(e.A), B: p.Transform(e.B), Layer: layer})
		}
	}
}

// CameraPose converts an orbit camera to eye, target and vertical field of
// view in degrees.
func CameraPose(c *render.Camera) (eye, target mgl64.Vec3, fovy float64) {
	return c.Eye(), c.Target, mgl64.RadToDeg(c.FOV)
}
