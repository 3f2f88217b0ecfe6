package physics

import (
	"fmt"
	"strings"
)

type bodyPair struct {
	a, b *Body
}

// Broadphase prunes body pairs whose bounds cannot intersect. It appends
// candidate pairs to out and returns the extended slice.
type Broadphase interface {
	Name() string
	Pairs(bodies []*Body, out []bodyPair) []bodyPair
}

// NewBroadphase returns a broadphase by name: "sap" or "naive".
func NewBroadphase(name string) (Broadphase, error) {
	switch strings.ToLower(name) {
	case "", "sap":
		return NewSAPBroadphase(), nil
	case "naive":
		return &NaiveBroadphase{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBroadphase, name)
	}
}

// needsCollision skips pairs that can never exchange impulses: two static
// bodies or two sleeping ones. A sleeping body is still tested against
// static bodies so resting contacts stay in the collision matrix and a
// kinematically moved static body can wake it.
func needsCollision(a, b *Body) bool {
	if a.IsStatic() && b.IsStatic() {
		return false
	}
	return !(a.sleepState == Sleeping && b.sleepState == Sleeping)
}

// NaiveBroadphase tests every pair.
type NaiveBroadphase struct{}

func (n *NaiveBroadphase) Name() string { return "naive" }

func (n *NaiveBroadphase) Pairs(bodies []*Body, out []bodyPair) []bodyPair {
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if needsCollision(a, b) && a.aabb.Overlaps(b.aabb) {
				out = append(out, bodyPair{a, b})
			}
		}
	}
	return out
}

// SAPBroadphase sorts bodies along one axis by the lower bound of their
// AABB and sweeps for overlapping intervals. The sorted order is kept
// between calls, so insertion sort runs close to linear for coherent motion.
type SAPBroadphase struct {
	Axis           int
	AutoDetectAxis bool

	sorted []*Body
}

func NewSAPBroadphase() *SAPBroadphase {
	return &SAPBroadphase{AutoDetectAxis: true}
}

func (s *SAPBroadphase) Name() string { return "sap" }

func (s *SAPBroadphase) Pairs(bodies []*Body, out []bodyPair) []bodyPair {
	if len(s.sorted) > len(bodies) {
		s.sorted = s.sorted[:0]
	}
	s.sorted = append(s.sorted, bodies[len(s.sorted):]...)

	if s.AutoDetectAxis {
		s.detectAxis()
	}
	axis := s.Axis
	insertionSort(s.sorted, axis)

	for i, a := range s.sorted {
		for _, b := range s.sorted[i+1:] {
			if b.aabb.Min[axis] > a.aabb.Max[axis] {
				break
			}
			if needsCollision(a, b) && a.aabb.Overlaps(b.aabb) {
				out = append(out, bodyPair{a, b})
			}
		}
	}
	return out
}

// detectAxis picks the axis along which body positions vary the most.
func (s *SAPBroadphase) detectAxis() {
	n := float64(len(s.sorted))
	if n < 2 {
		return
	}
	var sum, sumSq [3]float64
	for _, b := range s.sorted {
		for i := 0; i < 3; i++ {
			sum[i] += b.Position[i]
			sumSq[i] += b.Position[i] * b.Position[i]
		}
	}
	best, bestVar := 0, -1.0
	for i := 0; i < 3; i++ {
		v := sumSq[i] - sum[i]*sum[i]/n
		if v > bestVar {
			best, bestVar = i, v
		}
	}
	s.Axis = best
}

func insertionSort(bodies []*Body, axis int) {
	for i := 1; i < len(bodies); i++ {
		b := bodies[i]
		j := i - 1
		for ; j >= 0 && bodies[j].aabb.Min[axis] > b.aabb.Min[axis]; j-- {
			bodies[j+1] = bodies[j]
		}
		bodies[j+1] = b
	}
}
