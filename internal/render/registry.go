package render

import (
	"errors"
	"fmt"

	"github.com/san-kum/pingsim/internal/physics"
)

var (
	ErrAlreadyPaired = errors.New("render: body or proxy already paired")
	ErrStaticBody    = errors.New("render: static bodies are not synced")
	ErrNilPair       = errors.New("render: nil body or proxy")
)

// Registry pairs dynamic bodies with their proxies.
type Registry struct {
	byBody  map[*physics.Body]*VisualProxy
	proxies []*VisualProxy
}

func NewRegistry() *Registry {
	return &Registry{byBody: make(map[*physics.Body]*VisualProxy)}
}

// Pair binds proxy to body. Each body and each proxy can be paired once.
func (r *Registry) Pair(body *physics.Body, proxy *VisualProxy) error {
	if body == nil || proxy == nil {
		return ErrNilPair
	}
	if body.IsStatic() {
		return fmt.Errorf("%w: body %d", ErrStaticBody, body.ID())
	}
	if _, ok := r.byBody[body]; ok || proxy.body != nil {
		return fmt.Errorf("%w: body %d, proxy %q", ErrAlreadyPaired, body.ID(), proxy.Name)
	}
	proxy.body = body
	r.byBody[body] = proxy
	r.proxies = append(r.proxies, proxy)
	return nil
}

// Sync copies the pose of every paired body into its proxy and returns the
// number of proxies updated.
func (r *Registry) Sync() int {
	for _, p := range r.proxies {
		p.Position = p.body.Position
		p.Orientation = p.body.Orientation
	}
	return len(r.proxies)
}

func (r *Registry) Proxy(body *physics.Body) (*VisualProxy, bool) {
	p, ok := r.byBody[body]
	return p, ok
}

// Proxies returns paired proxies in pairing order.
func (r *Registry) Proxies() []*VisualProxy { return r.proxies }

func (r *Registry) Len() int { return len(r.proxies) }

// Unpaired lists dynamic bodies of the world that have no proxy.
func (r *Registry) Unpaired(w *physics.World) []*physics.Body {
	var out []*physics.Body
	for _, b := range w.Bodies() {
		if b.IsStatic() {
			continue
		}
		if _, ok := r.byBody[b]; !ok {
			out = append(out, b)
		}
	}
	return out
}
