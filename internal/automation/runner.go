package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/metrics"
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
	"github.com/san-kum/pingsim/internal/sim"
)

// Sample is one row of a run trace, taken after each frame.
type Sample struct {
	Time         float64
	Score        int
	PaddleHeight float64
	MaxHeight    float64
	Spheres      int
	Awake        int
	Contacts     int
	Substeps     int
}

// TraceColumns names the Sample fields in Row order.
var TraceColumns = []string{"time", "score", "paddle_y", "max_y", "spheres", "awake", "contacts", "substeps"}

func (s Sample) Row() []float64 {
	return []float64{
		s.Time,
		float64(s.Score),
		s.PaddleHeight,
		s.MaxHeight,
		float64(s.Spheres),
		float64(s.Awake),
		float64(s.Contacts),
		float64(s.Substeps),
	}
}

type Report struct {
	Scenario      string
	Preset        string
	Seed          int64
	FixedStep     float64
	Duration      float64
	Frames        int
	Score         int
	Spheres       int
	SoundsPlayed  int
	SoundsIgnored int
	PeakImpact    float64
	Metrics       map[string]float64
	Trace         []Sample
}

// Options tune RunScenario. Sink defaults to audio.Discard and Logger to a
// discarding logger.
type Options struct {
	Config *config.Config
	Sink   audio.Sink
	Logger *log.Logger
	// NoTrace skips recording per-frame samples.
	NoTrace bool
	// Snapshot, when set, receives a drawing of the final scene.
	Snapshot *render.Viewport
}

// RunScenario plays sc headlessly on a manual clock advanced by exactly one
// fixed step per frame. The run is deterministic for a given seed.
func RunScenario(ctx context.Context, sc *Scenario, opts Options) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg, err := scenarioConfig(sc, opts.Config)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	clock := &sim.ManualClock{}
	g, err := game.Load(ctx, game.Options{
		Config: cfg,
		Sink:   opts.Sink,
		Clock:  clock,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Standard() {
		g.Loop().AddMetric(m)
	}

	step := cfg.World.FixedStep
	frames := int(math.Ceil(sc.Duration/step - 1e-9))
	report := &Report{
		Scenario:  sc.Name,
		Preset:    sc.Preset,
		Seed:      cfg.Seed,
		FixedStep: step,
		Duration:  sc.Duration,
	}
	if !opts.NoTrace {
		report.Trace = make([]Sample, 0, frames)
	}

	next := 0
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		now := float64(i) * step
		for next < len(sc.Actions) && sc.Actions[next].At <= now+1e-9 {
			if err := apply(g, sc.Actions[next]); err != nil {
				return nil, fmt.Errorf("automation: action at %gs: %w", sc.Actions[next].At, err)
			}
			next++
		}

		clock.Advance(step)
		f, err := g.Tick()
		if err != nil {
			logger.Printf("[automation] %v", err)
			continue
		}
		if !opts.NoTrace {
			report.Trace = append(report.Trace, sample(g, f))
		}
	}

	if opts.Snapshot != nil {
		opts.Snapshot.Draw(g.Proxies())
	}

	fb := g.Feedback()
	report.Frames = int(g.Loop().Frames())
	report.Score = g.Score()
	report.Spheres = len(g.Spheres())
	report.SoundsPlayed = fb.Played()
	report.SoundsIgnored = fb.Ignored()
	report.PeakImpact = fb.Peak()
	report.Metrics = g.Loop().Results()
	report.Metrics["score"] = float64(report.Score)
	report.Metrics["peak_impact"] = report.PeakImpact
	logger.Printf("[automation] %s: %d frames, score %d", sc.Name, report.Frames, report.Score)
	return report, nil
}

// scenarioConfig layers the scenario's preset and seed over base. Headless
// runs are always seeded so they can be repeated.
func scenarioConfig(sc *Scenario, base *config.Config) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case sc.Preset != "":
		cfg = config.GetPreset(sc.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidScenario, sc.Preset)
		}
		if base != nil {
			cfg.Paddle.Model = base.Paddle.Model
		}
	case base != nil:
		cfg = base.Clone()
	default:
		cfg = config.DefaultConfig()
	}
	if sc.Seed != 0 {
		cfg.Seed = sc.Seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return cfg, nil
}

func apply(g *game.Game, a Action) error {
	switch a.Do {
	case ActionPress:
		g.Press()
	case ActionRelease:
		g.ReleasePaddle()
	case ActionSpawn:
		n := a.Count
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if _, err := g.SpawnSphere(); err != nil {
				return err
			}
		}
	case ActionSphere:
		r := a.Radius
		if r == 0 {
			r = g.Config().Spawn.Radius
		}
		_, err := g.CreateSphere(r, mgl64.Vec3{a.Position[0], a.Position[1], a.Position[2]})
		return err
	}
	return nil
}

func sample(g *game.Game, f sim.Frame) Sample {
	s := Sample{
		Time:         f.Elapsed,
		Score:        g.Score(),
		PaddleHeight: g.PaddleBody().Position[1],
		Spheres:      len(g.Spheres()),
		Contacts:     g.World().ContactCount(),
		Substeps:     f.Substeps,
	}
	for i, b := range g.Spheres() {
		if i == 0 || b.Position[1] > s.MaxHeight {
			s.MaxHeight = b.Position[1]
		}
		if b.SleepState() != physics.Sleeping {
			s.Awake++
		}
	}
	return s
}

// Column extracts one trace column by name.
func (r *Report) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range TraceColumns {
		if c == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("automation: unknown trace column %q", name)
	}
	out := make([]float64, len(r.Trace))
	for i, s := range r.Trace {
		out[i] = s.Row()[idx]
	}
	return out, nil
}
