package assets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pingsim/internal/render"
)

var ErrModelLoad = errors.New("assets: paddle model failed to load")

// PaddleModel describes the paddle. Vertices are in model units and are
// multiplied by Scale when drawn; HalfExtents are already in world units.
type PaddleModel struct {
	Name        string       `yaml:"name"`
	Scale       float64      `yaml:"scale"`
	RestHeight  float64      `yaml:"rest_height"`
	HalfExtents [3]float64   `yaml:"half_extents"`
	Vertices    [][3]float64 `yaml:"vertices"`
	Edges       [][2]int     `yaml:"edges"`
}

// DefaultPaddle is a 30x2x20 slab at scale 1/5, matching a (3, 0.2, 2)
// box collider resting at y = 1.5.
func DefaultPaddle() *PaddleModel {
	m := &PaddleModel{
		Name:        "paddle",
		Scale:       1.0 / 5,
		RestHeight:  1.5,
		HalfExtents: [3]float64{3, 0.2, 2},
	}
	h := [3]float64{15, 1, 10}
	for i := 0; i < 8; i++ {
		v := h
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				v[axis] = -v[axis]
			}
		}
		m.Vertices = append(m.Vertices, v)
	}
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if j := i | 1<<axis; j != i {
				m.Edges = append(m.Edges, [2]int{i, j})
			}
		}
	}
	return m
}

func (m *PaddleModel) Validate() error {
	if !(m.Scale > 0) || math.IsInf(m.Scale, 0) {
		return fmt.Errorf("scale must be positive, got %g", m.Scale)
	}
	for i, h := range m.HalfExtents {
		if !(h > 0) || math.IsInf(h, 0) {
			return fmt.Errorf("half_extents[%d] must be positive, got %g", i, h)
		}
	}
	if math.IsNaN(m.RestHeight) || math.IsInf(m.RestHeight, 0) {
		return fmt.Errorf("rest_height must be finite")
	}
	for i, e := range m.Edges {
		for _, idx := range e {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("edge %d references vertex %d of %d", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

func (m *PaddleModel) Collider() mgl64.Vec3 {
	return mgl64.Vec3(m.HalfExtents)
}

// Mesh returns the wireframe in model units.
func (m *PaddleModel) Mesh() *render.Mesh {
	mesh := &render.Mesh{}
	for _, e := range m.Edges {
		mesh.Add(mgl64.Vec3(m.Vertices[e[0]]), mgl64.Vec3(m.Vertices[e[1]]))
	}
	return mesh
}

func ParsePaddle(data []byte) (*PaddleModel, error) {
	m := &PaddleModel{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return m, nil
}

// LoadPaddle reads a model file. An empty path yields DefaultPaddle.
func LoadPaddle(path string) (*PaddleModel, error) {
	if path == "" {
		return DefaultPaddle(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	m, err := ParsePaddle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func SavePaddle(path string, m *PaddleModel) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Model *PaddleModel
	Err   error
}

// LoadAsync loads the model in a goroutine. The channel receives exactly one
// Result and is then closed.
func LoadAsync(ctx context.Context, path string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		m, err := LoadPaddle(path)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			m = nil
		}
		ch <- Result{Model: m, Err: err}
	}()
	return ch
}

// Wait blocks until the load completes or ctx is done.
func Wait(ctx context.Context, ch <-chan Result) (*PaddleModel, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, ctx.Err())
	case r, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("%w: loader closed without a result", ErrModelLoad)
		}
		if r.Err != nil {
			if !errors.Is(r.Err, ErrModelLoad) {
				r.Err = fmt.Errorf("%w: %v", ErrModelLoad, r.Err)
			}
			return nil, r.Err
		}
		return r.Model, nil
	}
}
