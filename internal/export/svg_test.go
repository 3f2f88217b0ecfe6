package export

import (
	"strings"
	"testing"

	"github.com/san-kum/pingsim/internal/render"
)

func TestCanvasToSVG(t *testing.T) {
	c := render.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected size in %q", svg)
	}
	if !strings.Contains(svg, `<circle cx="15.0" cy="15.0" r="0.8"/>`) {
		t.Errorf("last dot misplaced in %q", svg)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give no output")
	}
}

func TestChartSeries(t *testing.T) {
	chart := Chart{Width: 100, Height: 50, Stroke: "#fff", Caption: "max_y"}
	svg := chart.Series([]float64{0, 1, 2}, []float64{3, 1, 2, 9})
	if strings.Count(svg, " L") != 2 || !strings.Contains(svg, `d="M`) {
		t.Errorf("expected a three point path: %s", svg)
	}
	// x spans [-0.2, 2.2], so the first point sits at 0.2/2.4 of the width.
	if !strings.Contains(svg, `d="M8.3,`) {
		t.Errorf("first point not padded: %s", svg)
	}
	if !strings.Contains(svg, ">max_y [") {
		t.Errorf("missing caption: %s", svg)
	}
	if chart.Series([]float64{0}, []float64{1}) != "" {
		t.Error("a single point is not a series")
	}
}

func TestChartSeriesConstant(t *testing.T) {
	svg := Chart{Width: 10, Height: 10, Stroke: "#fff"}.Series([]float64{0, 1}, []float64{2, 2})
	// A constant series is drawn across the middle.
	if !strings.Contains(svg, ",5.0") {
		t.Errorf("expected a centered line: %s", svg)
	}
	if strings.Contains(svg, "<text") {
		t.Error("no caption requested")
	}
}
