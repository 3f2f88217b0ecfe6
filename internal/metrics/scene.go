package metrics

import (
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/sim"
)

// MaxHeight is the highest position reached by any dynamic body.
type MaxHeight struct {
	max  float64
	seen bool
}

func NewMaxHeight() *MaxHeight { return &MaxHeight{} }

func (m *MaxHeight) Name() string { return "max_height" }

func (m *MaxHeight) Observe(f sim.Frame) {
	if f.World == nil {
		return
	}
	for _, b := range f.World.Bodies() {
		if b.IsStatic() {
			continue
		}
		if !m.seen || b.Position[1] > m.max {
			m.max = b.Position[1]
			m.seen = true
		}
	}
}

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() { m.max, m.seen = 0, false }

// Sleeping is the fraction of dynamic bodies asleep in the latest frame.
type Sleeping struct {
	ratio float64
}

func NewSleeping() *Sleeping { return &Sleeping{} }

func (s *Sleeping) Name() string { return "sleeping" }

func (s *Sleeping) Observe(f sim.Frame) {
	if f.World == nil {
		return
	}
	dynamic, asleep := 0, 0
	for _, b := range f.World.Bodies() {
		if b.IsStatic() {
			continue
		}
		dynamic++
		if b.SleepState() == physics.Sleeping {
			asleep++
		}
	}
	s.ratio = 0
	if dynamic > 0 {
		s.ratio = float64(asleep) / float64(dynamic)
	}
}

func (s *Sleeping) Value() float64 { return s.ratio }
func (s *Sleeping) Reset()         { s.ratio = 0 }

// PeakContacts is the largest number of solver contacts in one frame.
type PeakContacts struct {
	peak int
}

func NewPeakContacts() *PeakContacts { return &PeakContacts{} }

func (c *PeakContacts) Name() string { return "peak_contacts" }

func (c *PeakContacts) Observe(f sim.Frame) {
	if f.World != nil && f.World.ContactCount() > c.peak {
		c.peak = f.World.ContactCount()
	}
}

func (c *PeakContacts) Value() float64 { return float64(c.peak) }
func (c *PeakContacts) Reset()         { c.peak = 0 }

// Substeps is the mean number of physics sub-steps per frame.
type Substeps struct {
	sum     int
	samples int
}

func NewSubsteps() *Substeps { return &Substeps{} }

func (s *Substeps) Name() string { return "substeps" }

func (s *Substeps) Observe(f sim.Frame) {
	s.sum += f.Substeps
	s.samples++
}

func (s *Substeps) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.samples)
}

func (s *Substeps) Reset() { s.sum, s.samples = 0, 0 }

// Standard returns the metrics attached to every scripted run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyRetained(),
		NewStability(0.5),
		NewMaxHeight(),
		NewSleeping(),
		NewPeakContacts(),
		NewSubsteps(),
	}
}
