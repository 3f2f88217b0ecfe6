package game

import (
	"math/rand"

	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/physics"
)

const DefaultImpactThreshold = 1.5

// ImpactFeedback plays the hit sound for contacts faster than Threshold,
// at a random volume in [0, 1), restarting the sound each time. Playback
// errors are counted and otherwise ignored.
type ImpactFeedback struct {
	Threshold float64

	sink audio.Sink
	rng  *rand.Rand

	played  int
	ignored int
	failed  int
	peak    float64
}

func NewImpactFeedback(sink audio.Sink, threshold float64, rng *rand.Rand) *ImpactFeedback {
	if sink == nil {
		sink = audio.Discard{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &ImpactFeedback{Threshold: threshold, sink: sink, rng: rng}
}

func (f *ImpactFeedback) Handle(ev physics.ContactEvent) {
	if ev.ImpactVelocity > f.peak {
		f.peak = ev.ImpactVelocity
	}
	if !(ev.ImpactVelocity > f.Threshold) {
		f.ignored++
		return
	}
	if err := f.sink.Play(f.rng.Float64(), true); err != nil {
		f.failed++
		return
	}
	f.played++
}

func (f *ImpactFeedback) Played() int  { return f.played }
func (f *ImpactFeedback) Ignored() int { return f.ignored }
func (f *ImpactFeedback) Failed() int  { return f.failed }

// Peak is the fastest impact seen, including ignored ones.
func (f *ImpactFeedback) Peak() float64 { return f.peak }
