package gui

import (
	"errors"
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/assets"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/control"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
	"github.com/san-kum/pingsim/internal/sim"
)

// fakeKeys holds one frame of key state.
type fakeKeys struct {
	down, pressed, released map[Key]bool
}

func frame() *fakeKeys {
	return &fakeKeys{down: map[Key]bool{}, pressed: map[Key]bool{}, released: map[Key]bool{}}
}

func (k *fakeKeys) press(key Key) *fakeKeys {
	k.down[key], k.pressed[key] = true, true
	return k
}

func (k *fakeKeys) hold(key Key) *fakeKeys {
	k.down[key] = true
	return k
}

func (k *fakeKeys) release(key Key) *fakeKeys {
	k.released[key] = true
	return k
}

func (k *fakeKeys) Down(key Key) bool     { return k.down[key] }
func (k *fakeKeys) Pressed(key Key) bool  { return k.pressed[key] }
func (k *fakeKeys) Released(key Key) bool { return k.released[key] }

type recordingPlayer struct {
	calls    []string
	spawnErr error
}

func (p *recordingPlayer) Press()         { p.calls = append(p.calls, "press") }
func (p *recordingPlayer) ReleasePaddle() { p.calls = append(p.calls, "release") }
func (p *recordingPlayer) SpawnSphere() (*physics.Body, error) {
	p.calls = append(p.calls, "spawn")
	return nil, p.spawnErr
}

func newGame(t *testing.T, spheres int) *game.Game {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 5
	cfg.Spawn.Initial = spheres
	g, err := game.New(assets.DefaultPaddle(), game.Options{
		Config: cfg,
		Clock:  &sim.ManualClock{},
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestInputPaddleFollowsKeyEdges(t *testing.T) {
	var in Input
	p := &recordingPlayer{}

	frames := []*fakeKeys{
		frame().press(KeyPaddle),
		frame().hold(KeyPaddle),
		frame().hold(KeyPaddle),
		frame().release(KeyPaddle),
		frame(),
		// release lost while the window was unfocused
		frame().press(KeyPaddle),
		frame(),
	}
	for i, k := range frames {
		if err := in.Apply(k, p, nil, 1.0/60); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	want := "press release press release"
	if got := strings.Join(p.calls, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if in.Holding() {
		t.Error("expected the paddle to be released")
	}
}

func TestInputDrivesGamePaddle(t *testing.T) {
	g := newGame(t, 0)
	var in Input

	in.Apply(frame().press(KeyPaddle), g, nil, 1.0/60)
	if g.Paddle().State() != control.Rising {
		t.Fatalf("expected rising paddle, got %v", g.Paddle().State())
	}
	in.Apply(frame().hold(KeyPaddle), g, nil, 1.0/60)
	if g.Paddle().State() != control.Rising {
		t.Fatalf("expected the paddle to keep rising while held, got %v", g.Paddle().State())
	}
	in.Apply(frame().release(KeyPaddle), g, nil, 1.0/60)
	if g.Paddle().State() != control.Free {
		t.Errorf("expected free paddle after key up, got %v", g.Paddle().State())
	}

	in.Apply(frame().press(KeySpawn), g, nil, 1.0/60)
	if n := len(g.Spheres()); n != 1 {
		t.Errorf("expected one spawned sphere, got %d", n)
	}
}

func TestInputToggles(t *testing.T) {
	var in Input
	p := &recordingPlayer{}

	in.Apply(frame().press(KeyPause), p, nil, 1.0/60)
	if !in.Paused {
		t.Error("expected paused")
	}
	in.Apply(frame().hold(KeyPause), p, nil, 1.0/60)
	if !in.Paused {
		t.Error("holding pause must not toggle again")
	}
	in.Apply(frame().press(KeyPause), p, nil, 1.0/60)
	if in.Paused {
		t.Error("expected resumed")
	}
	in.Apply(frame().press(KeyQuit), p, nil, 1.0/60)
	if !in.Quit {
		t.Error("expected quit")
	}
	if len(p.calls) != 0 {
		t.Errorf("unexpected player calls %v", p.calls)
	}
}

func TestInputSpawnError(t *testing.T) {
	var in Input
	p := &recordingPlayer{spawnErr: errors.New("full")}
	err := in.Apply(frame().press(KeySpawn).press(KeyPaddle), p, nil, 1.0/60)
	if err == nil || err.Error() != "full" {
		t.Fatalf("expected the spawn error, got %v", err)
	}
	if !in.Holding() {
		t.Error("the paddle press must be handled before the spawn fails")
	}
}

func TestInputMovesCamera(t *testing.T) {
	var in Input
	cam := render.NewCamera()
	yaw, pitch, dist := cam.Yaw, cam.Pitch, cam.Distance

	in.Apply(frame().hold(KeyOrbitRight).hold(KeyOrbitUp).hold(KeyZoomIn), &recordingPlayer{}, cam, 0.5)
	if math.Abs(cam.Yaw-(yaw+orbitSpeed*0.5)) > 1e-12 {
		t.Errorf("expected yaw %f, got %f", yaw+orbitSpeed*0.5, cam.Yaw)
	}
	if cam.Pitch <= pitch {
		t.Errorf("expected pitch above %f, got %f", pitch, cam.Pitch)
	}
	if cam.Distance >= dist {
		t.Errorf("expected zoom in from %f, got %f", dist, cam.Distance)
	}
}

func TestBuildScene(t *testing.T) {
	g := newGame(t, 2)
	proxies := g.Proxies()

	var scene Scene
	BuildScene(&scene, proxies)
	if len(scene.Balls) != 2 {
		t.Fatalf("expected 2 balls, got %d", len(scene.Balls))
	}
	for i, b := range scene.Balls {
		if b.Radius != config.DefaultRadius {
			t.Errorf("ball %d: expected radius %f, got %f", i, config.DefaultRadius, b.Radius)
		}
		if b.Center != g.Spheres()[i].Position {
			t.Errorf("ball %d: expected center %v, got %v", i, g.Spheres()[i].Position, b.Center)
		}
	}

	counts := map[Layer]int{}
	for _, s := range scene.Segments {
		counts[s.Layer]++
	}
	if counts[LayerFloor] != len(proxies[0].Mesh.Edges) {
		t.Errorf("expected %d floor segments, got %d", len(proxies[0].Mesh.Edges), counts[LayerFloor])
	}
	if counts[LayerPaddle] != len(proxies[1].Mesh.Edges) {
		t.Errorf("expected %d paddle segments, got %d", len(proxies[1].Mesh.Edges), counts[LayerPaddle])
	}
	if counts[LayerSphere] != 0 {
		t.Errorf("spheres are drawn solid, got %d wire segments", counts[LayerSphere])
	}

	// the paddle proxy is placed in world space
	e := proxies[1].Mesh.Edges[0]
	for _, s := range scene.Segments {
		if s.Layer == LayerPaddle {
			if s.A != proxies[1].Transform(e.A) {
				t.Errorf("expected %v, got %v", proxies[1].Transform(e.A), s.A)
			}
			break
		}
	}

	n := len(scene.Segments)
	BuildScene(&scene, proxies)
	if len(scene.Segments) != n || len(scene.Balls) != 2 {
		t.Errorf("rebuilding must not accumulate, got %d segments and %d balls", len(scene.Segments), len(scene.Balls))
	}
}

func TestCameraPose(t *testing.T) {
	cam := render.NewCamera()
	cam.Target = mgl64.Vec3{0, 1, 0}
	cam.LookFrom(mgl64.Vec3{3, 4, 5})
	eye, target, fovy := CameraPose(cam)
	if !eye.ApproxEqualThreshold(mgl64.Vec3{3, 4, 5}, 1e-9) {
		t.Errorf("expected eye (3,4,5), got %v", eye)
	}
	if target != cam.Target {
		t.Errorf("expected target %v, got %v", cam.Target, target)
	}
	if math.Abs(fovy-75) > 1e-9 {
		t.Errorf("expected 75 degrees, got %f", fovy)
	}
}

func TestScoreboardAndStatus(t *testing.T) {
	sb := &Scoreboard{}
	if sb.Flashing(time.Now()) {
		t.Error("a fresh scoreboard must not flash")
	}
	sb.ShowScore(3)
	if !sb.Flashing(sb.Last.Add(flashDuration / 2)) {
		t.Error("expected a flash right after a point")
	}
	if sb.Flashing(sb.Last.Add(flashDuration)) {
		t.Error("expected the flash to end")
	}

	lines := Status{Score: 3, Spheres: 2, Paused: true, Holding: true, Message: "config reloaded"}.Lines()
	if len(lines) != 3 || lines[0] != "SCORE 3" {
		t.Fatalf("unexpected lines %q", lines)
	}
	for _, want := range []string{"PAUSED", "spheres 2", "paddle up"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("expected %q in %q", want, lines[1])
		}
	}
	if lines[2] != "config reloaded" {
		t.Errorf("expected the message last, got %q", lines[2])
	}
}
