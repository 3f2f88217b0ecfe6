package control

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
)

func newPaddle(t *testing.T) (*render.VisualProxy, *physics.Body) {
	t.Helper()
	w := physics.NewWorld(physics.DefaultConfig())
	body, err := w.AddBody(physics.BodyOptions{
		Shape:    physics.NewBox(mgl64.Vec3{3, 0.2, 2}),
		Position: mgl64.Vec3{0.5, DefaultRestHeight, -0.25},
	})
	if err != nil {
		t.Fatal(err)
	}
	proxy := render.NewProxy("paddle", nil, 0.2)
	proxy.Position = body.Position
	return proxy, body
}

func TestPaddleRising(t *testing.T) {
	for _, n := range []int{1, 5, 30} {
		proxy, body := newPaddle(t)
		p := NewPaddle(DefaultSpeed, DefaultRestHeight)
		p.Press()
		for i := 0; i < n; i++ {
			p.Apply(proxy, body)
		}

		want := DefaultRestHeight + float64(n)*DefaultSpeed
		if math.Abs(proxy.Position.Y()-want) > 1e-9 {
			t.Errorf("n=%d: expected proxy y %f, got %f", n, want, proxy.Position.Y())
		}
		if body.Position != proxy.Position {
			t.Errorf("n=%d: body %v does not follow proxy %v", n, body.Position, proxy.Position)
		}
		if p.Height() != proxy.Position.Y() {
			t.Errorf("n=%d: expected height %f, got %f", n, proxy.Position.Y(), p.Height())
		}
	}
}

func TestPaddleReleaseResets(t *testing.T) {
	proxy, body := newPaddle(t)
	p := NewPaddle(DefaultSpeed, DefaultRestHeight)
	p.Press()
	for i := 0; i < 12; i++ {
		p.Apply(proxy, body)
	}
	p.Release()
	p.Apply(proxy, body)

	if proxy.Position.Y() != DefaultRestHeight || body.Position.Y() != DefaultRestHeight {
		t.Errorf("expected y exactly %f, got proxy %f body %f", DefaultRestHeight, proxy.Position.Y(), body.Position.Y())
	}
	if body.Position.X() != 0.5 || body.Position.Z() != -0.25 {
		t.Errorf("expected x and z unchanged, got %v", body.Position)
	}
	if p.State() != Free {
		t.Errorf("expected free, got %s", p.State())
	}
}

func TestPaddleFreeHoldsRest(t *testing.T) {
	proxy, body := newPaddle(t)
	proxy.Position[1] = 7
	p := NewPaddle(DefaultSpeed, DefaultRestHeight)
	for i := 0; i < 3; i++ {
		p.Apply(proxy, body)
	}
	if proxy.Position.Y() != DefaultRestHeight {
		t.Errorf("expected rest height, got %f", proxy.Position.Y())
	}
	if math.Abs(body.AABB().Max.Y()-(DefaultRestHeight+0.2)) > 1e-9 {
		t.Errorf("expected AABB refreshed, got %v", body.AABB())
	}
}

func TestHold(t *testing.T) {
	h := NewHold(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	if !h.Press(t0) {
		t.Error("expected first press to start a hold")
	}
	if h.Press(t0.Add(60 * time.Millisecond)) {
		t.Error("expected repeat to extend the hold")
	}
	if h.Update(t0.Add(150 * time.Millisecond)) {
		t.Error("expected hold to survive within the timeout of the repeat")
	}
	if !h.Update(t0.Add(160 * time.Millisecond)) {
		t.Error("expected release after the timeout")
	}
	if h.Held() || h.Update(t0.Add(time.Second)) {
		t.Error("expected a single release edge")
	}

	if NewHold(0).Timeout != DefaultHoldTimeout {
		t.Error("expected default timeout")
	}
}
