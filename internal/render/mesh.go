package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Edge is a segment between two local-space points.
type Edge struct {
	A, B mgl64.Vec3
}

// Mesh is a wireframe in local coordinates.
type Mesh struct {
	Edges []Edge
}

func (m *Mesh) Add(a, b mgl64.Vec3) { m.Edges = append(m.Edges, Edge{a, b}) }

// BoxMesh outlines a box with the given half extents.
func BoxMesh(h mgl64.Vec3) *Mesh {
	var v [8]mgl64.Vec3
	for i := range v {
		v[i] = mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			v[i][0] = -h[0]
		}
		if i&2 != 0 {
			v[i][1] = -h[1]
		}
		if i&4 != 0 {
			v[i][2] = -h[2]
		}
	}
	m := &Mesh{}
	// Corners differing in exactly one bit share an edge.
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if j := i | bit; j != i {
				m.Add(v[i], v[j])
			}
		}
	}
	return m
}

// SphereMesh approximates a unit sphere with three great circles.
func SphereMesh(segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{}
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		s0, c0 := math.Sincos(float64(i) * step)
		s1, c1 := math.Sincos(float64(i+1) * step)
		m.Add(mgl64.Vec3{c0, s0, 0}, mgl64.Vec3{c1, s1, 0})
		m.Add(mgl64.Vec3{c0, 0, s0}, mgl64.Vec3{c1, 0, s1})
		m.Add(mgl64.Vec3{0, c0, s0}, mgl64.Vec3{0, c1, s1})
	}
	return m
}

// GridMesh is a square grid in the local XY plane, matching the plane
// shape's +Z normal.
func GridMesh(size float64, lines int) *Mesh {
	if lines < 2 {
		lines = 2
	}
	m := &Mesh{}
	half := size / 2
	for i := 0; i < lines; i++ {
		t := -half + size*float64(i)/float64(lines-1)
		m.Add(mgl64.Vec3{t, -half, 0}, mgl64.Vec3{t, half, 0})
		m.Add(mgl64.Vec3{-half, t, 0}, mgl64.Vec3{half, t, 0})
	}
	return m
}
