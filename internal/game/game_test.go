package game

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/assets"
	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/sim"
)

const frame = 1.0 / 60

type recordingSink struct {
	volumes  []float64
	restarts int
	err      error
}

func (s *recordingSink) Play(volume float64, restart bool) error {
	if s.err != nil {
		return s.err
	}
	s.volumes = append(s.volumes, volume)
	if restart {
		s.restarts++
	}
	return nil
}

func newGame(t *testing.T, initial int, sink audio.Sink, display ScoreDisplay) (*Game, *sim.ManualClock) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	cfg.Spawn.Initial = initial
	clock := &sim.ManualClock{}
	g, err := New(assets.DefaultPaddle(), Options{
		Config:  cfg,
		Sink:    sink,
		Display: display,
		Clock:   clock,
		Logger:  log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g, clock
}

func run(t *testing.T, g *Game, clock *sim.ManualClock, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		clock.Advance(frame)
		if _, err := g.Tick(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
}

func TestNewBuildsScene(t *testing.T) {
	g, _ := newGame(t, 1, nil, nil)

	if !g.Floor().IsStatic() || !g.PaddleBody().IsStatic() {
		t.Error("floor and paddle must be static")
	}
	if y := g.PaddleBody().Position[1]; y != 1.5 {
		t.Errorf("paddle at y=%f, want 1.5", y)
	}
	if s := g.PaddleProxy().Scale; math.Abs(s-0.2) > 1e-12 {
		t.Errorf("paddle model scale %f, want 1/5", s)
	}
	up := g.Floor().Orientation.Rotate(mgl64.Vec3{0, 0, 1})
	if !up.ApproxEqual(mgl64.Vec3{0, 1, 0}) {
		t.Errorf("floor normal %v, want +Y", up)
	}

	if len(g.Spheres()) != 1 || g.Registry().Len() != 1 {
		t.Fatalf("expected one initial sphere, got %d", len(g.Spheres()))
	}
	pos := g.Spheres()[0].Position
	if pos[1] != 3 || math.Abs(pos[0]) >= 0.75 || math.Abs(pos[2]) >= 0.75 {
		t.Errorf("sphere spawned at %v", pos)
	}
	if n := len(g.Proxies()); n != 3 {
		t.Errorf("expected floor, paddle and one sphere proxy, got %d", n)
	}
}

func TestSpawnSpheres(t *testing.T) {
	for _, k := range []int{0, 1, 5, 20} {
		g, _ := newGame(t, 0, nil, nil)
		for i := 0; i < k; i++ {
			if _, err := g.SpawnSphere(); err != nil {
				t.Fatal(err)
			}
		}
		if g.Registry().Len() != k {
			t.Errorf("k=%d: %d proxies", k, g.Registry().Len())
		}
		if len(g.Registry().Unpaired(g.World())) != 0 {
			t.Errorf("k=%d: unpaired dynamic bodies", k)
		}
	}
}

func TestCreateSphereRejectsBadRadius(t *testing.T) {
	g, _ := newGame(t, 0, nil, nil)
	if _, err := g.CreateSphere(0, mgl64.Vec3{0, 3, 0}); !errors.Is(err, physics.ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}
	if g.Registry().Len() != 0 {
		t.Error("a rejected sphere must not get a proxy")
	}
}

func TestScoreCountsPaddleContacts(t *testing.T) {
	var shown []int
	sink := &recordingSink{}
	g, clock := newGame(t, 0, sink, ScoreDisplayFunc(func(s int) { shown = append(shown, s) }))

	if _, err := g.CreateSphere(0.3, mgl64.Vec3{0, 2.5, 0}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 120 && g.Score() == 0; i++ {
		run(t, g, clock, 1)
	}
	if g.Score() != 1 || len(shown) != 1 || shown[0] != 1 {
		t.Fatalf("expected one reported point, got score %d shown %v", g.Score(), shown)
	}
	// A 0.5 m drop is well above the sound threshold.
	if len(sink.volumes) != 1 || sink.restarts != 1 {
		t.Fatalf("expected one restarted hit sound, got %v", sink.volumes)
	}
	if v := sink.volumes[0]; v < 0 || v >= 1 {
		t.Errorf("volume %f outside [0, 1)", v)
	}

	run(t, g, clock, 300)
	for i := 1; i < len(shown); i++ {
		if shown[i] != shown[i-1]+1 {
			t.Fatalf("score must grow by one per contact: %v", shown)
		}
	}
}

func TestImpactFeedbackThreshold(t *testing.T) {
	sink := &recordingSink{}
	f := NewImpactFeedback(sink, DefaultImpactThreshold, nil)
	for _, v := range []float64{0.2, 1.5, 1.51, 4, -3} {
		f.Handle(physics.ContactEvent{ImpactVelocity: v})
	}
	if f.Played() != 2 || f.Ignored() != 3 || f.Failed() != 0 {
		t.Errorf("played %d ignored %d failed %d", f.Played(), f.Ignored(), f.Failed())
	}
	if f.Peak() != 4 {
		t.Errorf("peak %f, want 4", f.Peak())
	}

	failing := &recordingSink{err: audio.ErrNoDevice}
	f = NewImpactFeedback(failing, DefaultImpactThreshold, nil)
	f.Handle(physics.ContactEvent{ImpactVelocity: 5})
	f.Handle(physics.ContactEvent{ImpactVelocity: 5})
	if f.Failed() != 2 || f.Played() != 0 {
		t.Errorf("expected two swallowed failures, got failed %d played %d", f.Failed(), f.Played())
	}
}

func TestPaddleLaunchesRestingSphere(t *testing.T) {
	g, clock := newGame(t, 0, nil, nil)
	ball, err := g.CreateSphere(0.3, mgl64.Vec3{0, 2.0, 0})
	if err != nil {
		t.Fatal(err)
	}
	run(t, g, clock, 240)
	if ball.SleepState() != physics.Sleeping {
		t.Fatalf("ball should rest on the paddle, state %v at %v", ball.SleepState(), ball.Position)
	}
	rest := ball.Position[1]

	g.Press()
	run(t, g, clock, 5)
	if ball.Position[1] <= rest+0.1 {
		t.Errorf("ball did not follow the rising paddle: %f -> %f", rest, ball.Position[1])
	}
	proxy, _ := g.Registry().Proxy(ball)
	if proxy.Position != ball.Position {
		t.Error("proxy out of sync after the frame")
	}

	g.ReleasePaddle()
	run(t, g, clock, 1)
	if y := g.PaddleBody().Position[1]; y != 1.5 {
		t.Errorf("released paddle at %f, want 1.5", y)
	}
}

func TestLoadFailsWithoutModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paddle.Model = filepath.Join(t.TempDir(), "missing.yaml")
	g, err := Load(context.Background(), Options{Config: cfg, Logger: log.New(io.Discard, "", 0)})
	if !errors.Is(err, assets.ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
	if g != nil {
		t.Error("no game may be built when the model fails")
	}
}

func TestLoadDefaultModel(t *testing.T) {
	g, err := Load(context.Background(), Options{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Spheres()) != 1 {
		t.Errorf("expected the startup sphere, got %d", len(g.Spheres()))
	}
}

func TestApplyConfig(t *testing.T) {
	g, _ := newGame(t, 0, nil, nil)
	cfg := config.GetPreset("moon")
	cfg.World.FixedStep = 0.5
	if err := g.ApplyConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if g.World().Gravity()[1] != -1.62 {
		t.Errorf("gravity not applied: %v", g.World().Gravity())
	}
	if g.Config().World.FixedStep != config.DefaultFixedStep {
		t.Error("step size must not change while running")
	}

	bad := config.DefaultConfig()
	bad.Material.Restitution = 3
	if err := g.ApplyConfig(bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if g.World().DefaultContact().Restitution == 3 {
		t.Error("invalid config must not be applied")
	}
}
