package metrics

import (
	"math"

	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/sim"
)

// mechanicalEnergy sums translational kinetic and potential energy of the
// dynamic bodies, with the potential measured from y = 0.
func mechanicalEnergy(w *physics.World) float64 {
	g := math.Abs(w.Gravity()[1])
	total := 0.0
	for _, b := range w.Bodies() {
		if b.IsStatic() {
			continue
		}
		v := b.Velocity
		total += 0.5*b.Mass()*v.Dot(v) + b.Mass()*g*b.Position[1]
	}
	return total
}

// Energy is the mean mechanical energy over observed frames.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f sim.Frame) {
	if f.World == nil {
		return
	}
	e.total += mechanicalEnergy(f.World)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyRetained is the latest mechanical energy as a fraction of the first
// observed non-zero value. Bounces lose energy, so it should fall towards the
// resting level and never grow past 1 without outside work by the paddle.
type EnergyRetained struct {
	name    string
	initial float64
	current float64
}

func NewEnergyRetained() *EnergyRetained {
	return &EnergyRetained{name: "energy_retained"}
}

func (e *EnergyRetained) Name() string { return e.name }

func (e *EnergyRetained) Observe(f sim.Frame) {
	if f.World == nil {
		return
	}
	energy := mechanicalEnergy(f.World)
	if e.initial == 0 {
		e.initial = energy
	}
	e.current = energy
}

func (e *EnergyRetained) Value() float64 {
	if e.initial == 0 {
		return 1
	}
	return e.current / e.initial
}

func (e *EnergyRetained) Reset() {
	e.initial = 0
	e.current = 0
}
