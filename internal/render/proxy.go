package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/physics"
)

// VisualProxy is the drawable stand-in of a body. Its pose is written by
// Sync for dynamic bodies and by the paddle controller for the paddle.
type VisualProxy struct {
	Name        string
	Mesh        *Mesh
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       float64

	body *physics.Body
}

func NewProxy(name string, mesh *Mesh, scale float64) *VisualProxy {
	return &VisualProxy{
		Name:        name,
		Mesh:        mesh,
		Orientation: mgl64.QuatIdent(),
		Scale:       scale,
	}
}

// Body returns the paired body, or nil before pairing.
func (p *VisualProxy) Body() *physics.Body { return p.body }

// Transform maps a local mesh vertex to world space.
func (p *VisualProxy) Transform(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Orientation.Rotate(v.Mul(p.Scale)))
}
