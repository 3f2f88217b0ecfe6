package render

// Viewport rasterizes proxies onto a braille canvas.
type Viewport struct {
	Camera *Camera
	canvas *Canvas
}

func NewViewport(cols, rows int, cam *Camera) *Viewport {
	if cam == nil {
		cam = NewCamera()
	}
	return &Viewport{Camera: cam, canvas: NewCanvas(cols, rows)}
}

// Resize reallocates the canvas when the terminal size changes.
func (v *Viewport) Resize(cols, rows int) {
	if cols < 1 || rows < 1 || (cols == v.canvas.Cols && rows == v.canvas.Rows) {
		return
	}
	v.canvas = NewCanvas(cols, rows)
}

func (v *Viewport) Canvas() *Canvas { return v.canvas }

// Draw clears the canvas and draws every proxy's mesh. Edges with an
// endpoint behind the camera or far off screen are skipped.
func (v *Viewport) Draw(proxies []*VisualProxy) {
	v.canvas.Clear()
	w, h := v.canvas.Dots()
	vp := v.Camera.ViewProjection(w, h)
	for _, p := range proxies {
		if p == nil || p.Mesh == nil {
			continue
		}
		for _, e := range p.Mesh.Edges {
			x0, y0, _, ok0 := Project(vp, p.Transform(e.A), w, h)
			x1, y1, _, ok1 := Project(vp, p.Transform(e.B), w, h)
			if ok0 && ok1 && near(x0, y0, w, h) && near(x1, y1, w, h) {
				v.canvas.Line(x0, y0, x1, y1)
			}
		}
	}
}

// near bounds rasterization work for points projected far off screen.
func near(x, y, w, h int) bool {
	return x > -4*w && x < 5*w && y > -4*h && y < 5*h
}

func (v *Viewport) Render(proxies []*VisualProxy) string {
	v.Draw(proxies)
	return v.canvas.String()
}
