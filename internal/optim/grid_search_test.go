package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func bowl(_ context.Context, p map[string]float64) (map[string]float64, error) {
	dx, dy := p["x"]-1, p["y"]+0.5
	return map[string]float64{"cost": dx*dx + dy*dy}, nil
}

func TestGridSearchMinimizes(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{Linspace(-2, 2, 5), Linspace(-1, 1, 5)})
	if err != nil {
		t.Fatal(err)
	}
	best, trials, err := g.Search(context.Background(), bowl, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != g.Size() || g.Size() != 25 {
		t.Errorf("expected 25 trials, got %d", len(trials))
	}
	if best.Params["x"] != 1 || best.Params["y"] != -0.5 || best.Value != 0 {
		t.Errorf("unexpected best %+v", best)
	}
}

func TestGridSearchMaximizes(t *testing.T) {
	g, err := NewGridSearch([]string{"x", "y"}, [][]float64{{0, 3}, {0}})
	if err != nil {
		t.Fatal(err)
	}
	g.Maximize = true
	best, _, err := g.Search(context.Background(), bowl, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["x"] != 3 {
		t.Errorf("expected x=3, got %+v", best)
	}
}

func TestGridSearchStopsOnError(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	boom := errors.New("boom")
	calls := 0
	_, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (map[string]float64, error) {
		calls++
		return nil, boom
	}, "cost")
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("expected to stop after the first error, got %v after %d calls", err, calls)
	}
}

func TestGridSearchMissingMetric(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), bowl, "missing"); err == nil {
		t.Error("expected an error when no trial reports the metric")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	g, _ := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, bowl, "cost"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGridSearchInvalid(t *testing.T) {
	if _, err := NewGridSearch([]string{"x"}, nil); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
	if _, err := NewGridSearch([]string{"x"}, [][]float64{{}}); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestParseRanges(t *testing.T) {
	names, ranges, err := ParseRanges([]string{"restitution=0.5:0.9:3", "gravity=-9.82,-1.62"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "gravity" || names[1] != "restitution" {
		t.Fatalf("expected sorted names, got %v", names)
	}
	if len(ranges[0]) != 2 || ranges[0][1] != -1.62 {
		t.Errorf("unexpected gravity values %v", ranges[0])
	}
	if len(ranges[1]) != 3 || math.Abs(ranges[1][1]-0.7) > 1e-12 {
		t.Errorf("unexpected restitution values %v", ranges[1])
	}

	for _, bad := range []string{"x", "x=", "x=1:2:0", "x=a", "x=1,,2"} {
		if _, _, err := ParseRanges([]string{bad}); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("%q: expected ErrInvalidGrid, got %v", bad, err)
		}
	}
	if _, _, err := ParseRanges([]string{"x=1", "x=2"}); !errors.Is(err, ErrInvalidGrid) {
		t.Error("duplicate names should be rejected")
	}
}
