package sim

import (
	"context"
	"sync"
)

// RunFunc performs one independent run and returns its metric results.
// Each call must build its own world.
type RunFunc func(ctx context.Context, seed int64) (map[string]float64, error)

// Ensemble repeats a run concurrently with consecutive seeds.
type Ensemble struct {
	numRuns   int
	seedStart int64
}

func NewEnsemble(numRuns int, seedStart int64) *Ensemble {
	if numRuns < 1 {
		numRuns = 1
	}
	return &Ensemble{numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, run RunFunc) ([]map[string]float64, error) {
	results := make([]map[string]float64, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = run(ctx, e.seedStart+int64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Mean averages each metric across results.
func Mean(results []map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
