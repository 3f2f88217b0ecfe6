package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/pingsim/internal/render"
)

const background = "#0a0a0a"

func openSVG(w io.Writer, width, height float64) {
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(w, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		width, height, width, height)
	fmt.Fprintf(w, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", background)
}

// CanvasToSVG draws every lit dot of a braille canvas as a circle of
// diameter 0.8*scale centered in its scale-sized cell.
func CanvasToSVG(canvas *render.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	dw, dh := canvas.Dots()

	var sb strings.Builder
	openSVG(&sb, float64(dw)*scale, float64(dh)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, 0.4*scale)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Chart lays out a single line series.
type Chart struct {
	Width, Height int
	Stroke        string
	// Caption is drawn in the top-left corner together with the y range.
	Caption string
}

// bounds returns [lo, hi] widened by 10% of the span, or by 1 for a
// constant series.
func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// Series plots ys against xs as a polyline. Extra values in the longer
// slice are ignored and fewer than two points give no output.
func (c Chart) Series(xs, ys []float64) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}
	xs, ys = xs[:n], ys[:n]
	x0, x1 := bounds(xs)
	y0, y1 := bounds(ys)
	w, h := float64(c.Width), float64(c.Height)

	var sb strings.Builder
	openSVG(&sb, w, h)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", c.Stroke)
	for i := range xs {
		cmd := " L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, (xs[i]-x0)/(x1-x0)*w, h-(ys[i]-y0)/(y1-y0)*h)
	}
	sb.WriteString("\"/>\n")
	if c.Caption != "" {
		fmt.Fprintf(&sb, "<text x=\"8\" y=\"16\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s [%.3g, %.3g]</text>\n",
			c.Stroke, c.Caption, y0, y1)
	}
	sb.WriteString("</svg>")
	return sb.String()
}
