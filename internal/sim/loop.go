package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/san-kum/pingsim/internal/physics"
)

// Loop is the per-frame driver. It owns the continuation state between
// invocations: the clock reading of the previous frame and the frame count.
// All world mutation happens inside Tick.
type Loop struct {
	world      *physics.World
	controller Controller
	syncer     Syncer
	clock      Clock
	cfg        Config

	metrics   []Metric
	observers []Observer
	logger    *log.Logger

	prevElapsed float64
	frames      uint64
	skipped     uint64
}

// New builds a loop. controller and syncer may be nil.
func New(world *physics.World, controller Controller, syncer Syncer, clock Clock, cfg Config) *Loop {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultFixedStep
	}
	if cfg.MaxSubsteps < 1 {
		cfg.MaxSubsteps = DefaultMaxSubsteps
	}
	if clock == nil {
		clock = NewWallClock()
	}
	return &Loop{
		world:      world,
		controller: controller,
		syncer:     syncer,
		clock:      clock,
		cfg:        cfg,
		logger:     log.Default(),
	}
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }
func (l *Loop) Metrics() []Metric      { return l.metrics }
func (l *Loop) World() *physics.World  { return l.world }
func (l *Loop) Config() Config         { return l.cfg }
func (l *Loop) Frames() uint64         { return l.frames }
func (l *Loop) Skipped() uint64        { return l.skipped }

func (l *Loop) SetLogger(logger *log.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Tick runs one invocation: step the world by the time elapsed since the
// previous invocation, apply the controller, sync proxies, then notify
// metrics and observers. When the step fails the rest of the invocation
// is skipped and a *FrameError is returned.
func (l *Loop) Tick() (Frame, error) {
	elapsed := l.clock.Elapsed()
	delta := elapsed - l.prevElapsed
	l.prevElapsed = elapsed

	n, err := l.world.Step(l.cfg.FixedStep, delta, l.cfg.MaxSubsteps)
	if err != nil {
		l.skipped++
		return Frame{}, &FrameError{Frame: l.frames, Elapsed: elapsed, Wrapped: err}
	}

	if l.controller != nil {
		l.controller.Control()
	}
	synced := 0
	if l.syncer != nil {
		synced = l.syncer.Sync()
	}

	f := Frame{
		Index:    l.frames,
		Elapsed:  elapsed,
		Delta:    delta,
		Substeps: n,
		Synced:   synced,
		World:    l.world,
	}
	l.frames++

	for _, m := range l.metrics {
		m.Observe(f)
	}
	for _, o := range l.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// Run ticks once per value received from frames until ctx is done or
// frames is closed. Skipped frames are logged and do not stop the loop.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if _, err := l.Tick(); err != nil {
				l.logger.Printf("[sim] %v", err)
			}
		}
	}
}

// Results collects the current metric values by name.
func (l *Loop) Results() map[string]float64 {
	out := make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// ResetMetrics resets every metric.
func (l *Loop) ResetMetrics() {
	for _, m := range l.metrics {
		m.Reset()
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("frame %d t=%.3fs dt=%.4fs substeps=%d", f.Index, f.Elapsed, f.Delta, f.Substeps)
}

// Advance drives the loop headlessly: before each of n frames the clock is
// moved forward by step seconds. It stops early when ctx is done.
func (l *Loop) Advance(ctx context.Context, clock *ManualClock, step float64, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		clock.Advance(step)
		if _, err := l.Tick(); err != nil {
			l.logger.Printf("[sim] %v", err)
		}
	}
	return nil
}
