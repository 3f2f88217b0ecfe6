package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/sim"
)

// Sweepable names the config fields a sweep can vary.
var Sweepable = map[string]func(*config.Config, float64){
	"gravity":      func(c *config.Config, v float64) { c.World.Gravity = v },
	"restitution":  func(c *config.Config, v float64) { c.Material.Restitution = v },
	"friction":     func(c *config.Config, v float64) { c.Material.Friction = v },
	"paddle_speed": func(c *config.Config, v float64) { c.Paddle.Speed = v },
	"radius":       func(c *config.Config, v float64) { c.Spawn.Radius = v },
}

// ParameterSweep runs the same scenario across evenly spaced values of one
// config field.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	Steps    int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, sc *Scenario, sweep ParameterSweep, base *config.Config) ([]SweepResult, error) {
	set, ok := Sweepable[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("automation: %q cannot be swept", sweep.Param)
	}
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	if base == nil {
		base = config.DefaultConfig()
	}

	results := make([]SweepResult, 0, sweep.Steps)
	for i := 0; i < sweep.Steps; i++ {
		v := sweep.Min
		if sweep.Steps > 1 {
			v += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
		}
		cfg := base.Clone()
		set(cfg, v)
		run := *sc
		run.Preset = ""
		report, err := RunScenario(ctx, &run, Options{Config: cfg, NoTrace: true})
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.Param, v, err)
		}
		results = append(results, SweepResult{Value: v, Metrics: report.Metrics})
	}
	return results, nil
}

// RunEnsemble repeats sc concurrently with consecutive seeds and returns the
// per-run metrics together with their mean.
func RunEnsemble(ctx context.Context, sc *Scenario, runs int, seedStart int64, base *config.Config) ([]map[string]float64, map[string]float64, error) {
	if seedStart == 0 {
		seedStart = 1
	}
	ens := sim.NewEnsemble(runs, seedStart)
	results, err := ens.Run(ctx, func(ctx context.Context, seed int64) (map[string]float64, error) {
		run := *sc
		run.Seed = seed
		run.Actions = append([]Action(nil), sc.Actions...)
		report, err := RunScenario(ctx, &run, Options{Config: base, NoTrace: true})
		if err != nil {
			return nil, err
		}
		return report.Metrics, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return results, sim.Mean(results), nil
}

// Objective runs sc once per parameter assignment, with each named
// Sweepable field set on a copy of base, and returns the run metrics.
func Objective(sc *Scenario, base *config.Config) func(context.Context, map[string]float64) (map[string]float64, error) {
	if base == nil {
		base = config.DefaultConfig()
	}
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			set, ok := Sweepable[name]
			if !ok {
				return nil, fmt.Errorf("automation: %q cannot be swept", name)
			}
			set(cfg, v)
		}
		run := *sc
		run.Preset = ""
		report, err := RunScenario(ctx, &run, Options{Config: cfg, NoTrace: true})
		if err != nil {
			return nil, err
		}
		return report.Metrics, nil
	}
}
