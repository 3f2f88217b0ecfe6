package metrics

import (
	"math"

	"github.com/san-kum/pingsim/internal/sim"
)

// Stability is the fraction of frames in which every dynamic body is finite
// and no deeper than floorTolerance below the floor.
type Stability struct {
	name           string
	floorTolerance float64
	violations     int
	samples        int
}

func NewStability(floorTolerance float64) *Stability {
	return &Stability{
		name:           "stability",
		floorTolerance: floorTolerance,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f sim.Frame) {
	if f.World == nil {
		return
	}
	s.samples++
	for _, b := range f.World.Bodies() {
		if b.IsStatic() {
			continue
		}
		y := b.Position[1]
		if math.IsNaN(y) || math.IsInf(y, 0) || y < -s.floorTolerance {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
