package control

import (
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
)

const (
	DefaultSpeed      = 0.1
	DefaultRestHeight = 1.5
)

type State int

const (
	Free State = iota
	Rising
)

func (s State) String() string {
	if s == Rising {
		return "rising"
	}
	return "free"
}

// Paddle is a two-state controller. Speed is in units per frame.
type Paddle struct {
	Speed      float64
	RestHeight float64

	state  State
	height float64
}

func NewPaddle(speed, rest float64) *Paddle {
	return &Paddle{Speed: speed, RestHeight: rest, height: rest}
}

func (p *Paddle) Press()          { p.state = Rising }
func (p *Paddle) Release()        { p.state = Free }
func (p *Paddle) State() State    { return p.state }
func (p *Paddle) Height() float64 { return p.height }

// Apply runs once per frame. Rising raises the proxy by Speed and copies
// its whole position into the body. Free resets the height of both to
// RestHeight and leaves x and z alone.
func (p *Paddle) Apply(proxy *render.VisualProxy, body *physics.Body) {
	switch p.state {
	case Rising:
		proxy.Position[1] += p.Speed
		body.SetPosition(proxy.Position)
	default:
		proxy.Position[1] = p.RestHeight
		pos := body.Position
		pos[1] = p.RestHeight
		body.SetPosition(pos)
	}
	p.height = proxy.Position[1]
}
