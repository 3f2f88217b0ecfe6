package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidGrid = errors.New("optim: invalid grid")

// Objective evaluates one parameter assignment and returns its metrics.
type Objective func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// GridSearch evaluates every combination of the parameter ranges and keeps
// the trial with the lowest metric, or the highest with Maximize.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d names for %d ranges", ErrInvalidGrid, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrInvalidGrid, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search returns the best trial and all trials in evaluation order. Trials
// whose metric is missing or NaN never win. The first objective error
// stops the search.
func (g *GridSearch) Search(ctx context.Context, eval Objective, metricName string) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	trials := make([]Trial, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		metrics, err := eval(ctx, params)
		if err != nil {
			return err
		}
		val, ok := metrics[metricName]
		if !ok {
			val = math.NaN()
		}
		trial := Trial{Params: params, Value: val}
		trials = append(trials, trial)
		if !math.IsNaN(val) && g.better(val, best.Value) {
			best = trial
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	if best.Params == nil {
		return Trial{}, trials, fmt.Errorf("optim: no trial reported %q", metricName)
	}
	return best, trials, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns steps evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	if steps == 1 {
		return []float64{lo}
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(steps-1)
	}
	return out
}

// ParseRanges reads "name=min:max:steps" or "name=v1,v2,..." specs into
// parameter names and value ranges, sorted by name.
func ParseRanges(specs []string) ([]string, [][]float64, error) {
	parsed := make(map[string][]float64, len(specs))
	for _, spec := range specs {
		name, values, ok := strings.Cut(spec, "=")
		if !ok || name == "" || values == "" {
			return nil, nil, fmt.Errorf("%w: %q is not name=values", ErrInvalidGrid, spec)
		}
		if _, dup := parsed[name]; dup {
			return nil, nil, fmt.Errorf("%w: %s given twice", ErrInvalidGrid, name)
		}
		r, err := parseValues(values)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidGrid, name, err)
		}
		parsed[name] = r
	}

	names := make([]string, 0, len(parsed))
	for name := range parsed {
		names = append(names, name)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, name := range names {
		ranges[i] = parsed[name]
	}
	return names, ranges, nil
}

func parseValues(s string) ([]float64, error) {
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, err
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, err
		}
		steps, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, err
		}
		if steps < 1 {
			return nil, fmt.Errorf("steps must be positive")
		}
		return Linspace(lo, hi, steps), nil
	}
	var out []float64
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
