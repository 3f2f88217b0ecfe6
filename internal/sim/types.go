package sim

import "github.com/san-kum/pingsim/internal/physics"

const (
	DefaultFixedStep   = 1.0 / 60
	DefaultMaxSubsteps = 3
)

// Controller applies its per-frame effect after the physics step.
type Controller interface {
	Control()
}

type ControllerFunc func()

func (f ControllerFunc) Control() { f() }

// Syncer copies simulated poses into their visual proxies and returns how
// many were updated.
type Syncer interface {
	Sync() int
}

// Frame describes one completed loop invocation.
type Frame struct {
	Index    uint64
	Elapsed  float64
	Delta    float64
	Substeps int
	Synced   int
	World    *physics.World
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(Frame)

func (f ObserverFunc) OnFrame(fr Frame) { f(fr) }

type Config struct {
	FixedStep   float64
	MaxSubsteps int
}

func DefaultConfig() Config {
	return Config{FixedStep: DefaultFixedStep, MaxSubsteps: DefaultMaxSubsteps}
}

// FrameError reports a skipped loop invocation.
type FrameError struct {
	Frame   uint64
	Elapsed float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return "sim: frame skipped: " + e.Wrapped.Error()
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
