package game

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/assets"
	"github.com/san-kum/pingsim/internal/audio"
	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/control"
	"github.com/san-kum/pingsim/internal/physics"
	"github.com/san-kum/pingsim/internal/render"
	"github.com/san-kum/pingsim/internal/sim"
)

const (
	floorSize      = 20
	floorLines     = 21
	sphereSegments = 12
)

// Options carries the collaborators of a Game. Every field is optional.
type Options struct {
	Config  *config.Config
	Sink    audio.Sink
	Display ScoreDisplay
	Clock   sim.Clock
	Logger  *log.Logger
}

// Game is the assembled scene together with its loop.
type Game struct {
	cfg    *config.Config
	model  *assets.PaddleModel
	logger *log.Logger
	rng    *rand.Rand

	world    *physics.World
	registry *render.Registry
	loop     *sim.Loop

	floor       *physics.Body
	floorProxy  *render.VisualProxy
	paddleBody  *physics.Body
	paddleProxy *render.VisualProxy
	paddle      *control.Paddle
	spheres     []*physics.Body

	score    *Score
	feedback *ImpactFeedback
}

// Load waits for the paddle model named by the config and builds the game.
// Nothing is constructed when the model cannot be loaded.
func Load(ctx context.Context, opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	model, err := assets.Wait(ctx, assets.LoadAsync(ctx, cfg.Paddle.Model))
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return New(model, opts)
}

// New builds the world around an already loaded paddle model and spawns the
// configured number of initial spheres.
func New(model *assets.PaddleModel, opts Options) (*Game, error) {
	if model == nil {
		return nil, fmt.Errorf("game: %w: no paddle model", assets.ErrModelLoad)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w: %v", assets.ErrModelLoad, err)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	bp, err := physics.NewBroadphase(cfg.World.Broadphase)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	world := physics.NewWorld(physics.Config{
		Gravity:          mgl64.Vec3{0, cfg.World.Gravity, 0},
		Broadphase:       bp,
		AllowSleep:       cfg.World.AllowSleep,
		SolverIterations: cfg.World.SolverIterations,
		Friction:         cfg.Material.Friction,
		Restitution:      cfg.Material.Restitution,
	})

	g := &Game{
		cfg:      cfg.Clone(),
		model:    model,
		logger:   logger,
		rng:      rand.New(rand.NewSource(seed)),
		world:    world,
		registry: render.NewRegistry(),
		score:    NewScore(opts.Display),
	}
	g.feedback = NewImpactFeedback(opts.Sink, cfg.Audio.Threshold, g.rng)

	if err := g.addFloor(); err != nil {
		return nil, err
	}
	if err := g.addPaddle(); err != nil {
		return nil, err
	}

	g.loop = sim.New(world, sim.ControllerFunc(g.control), g.registry, opts.Clock, sim.Config{
		FixedStep:   cfg.World.FixedStep,
		MaxSubsteps: cfg.World.MaxSubsteps,
	})
	g.loop.SetLogger(logger)

	for i := 0; i < cfg.Spawn.Initial; i++ {
		if _, err := g.SpawnSphere(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// FloorOrientation turns the plane's local +Z normal into world +Y.
func FloorOrientation() mgl64.Quat {
	return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{-1, 0, 0})
}

func (g *Game) addFloor() error {
	q := FloorOrientation()
	floor, err := g.world.AddBody(physics.BodyOptions{
		Shape:       physics.NewPlane(),
		Orientation: q,
	})
	if err != nil {
		return fmt.Errorf("game: floor: %w", err)
	}
	g.floor = floor
	g.floorProxy = render.NewProxy("floor", render.GridMesh(floorSize, floorLines), 1)
	g.floorProxy.Orientation = q
	return nil
}

func (g *Game) addPaddle() error {
	rest := g.model.RestHeight
	if g.cfg.Paddle.RestHeight != 0 {
		rest = g.cfg.Paddle.RestHeight
	}
	pos := mgl64.Vec3{0, rest, 0}
	body, err := g.world.AddBody(physics.BodyOptions{
		Shape:    physics.NewBox(g.model.Collider()),
		Position: pos,
	})
	if err != nil {
		return fmt.Errorf("game: paddle: %w", err)
	}
	body.OnContact(g.score.Handle)

	g.paddleBody = body
	g.paddleProxy = render.NewProxy(g.model.Name, g.model.Mesh(), g.model.Scale)
	g.paddleProxy.Position = pos
	g.paddle = control.NewPaddle(g.cfg.Paddle.Speed, rest)
	return nil
}

func (g *Game) control() {
	g.paddle.Apply(g.paddleProxy, g.paddleBody)
}

// CreateSphere adds a sphere of the configured mass (1 by default) with its
// proxy and the impact sound handler.
func (g *Game) CreateSphere(radius float64, pos mgl64.Vec3) (*physics.Body, error) {
	body, err := g.world.AddBody(physics.BodyOptions{
		Shape:    physics.NewSphere(radius),
		Mass:     g.cfg.Spawn.Mass,
		Position: pos,
	})
	if err != nil {
		return nil, fmt.Errorf("game: sphere: %w", err)
	}
	proxy := render.NewProxy(fmt.Sprintf("sphere-%d", body.ID()), render.SphereMesh(sphereSegments), radius)
	proxy.Position = body.Position
	proxy.Orientation = body.Orientation
	if err := g.registry.Pair(body, proxy); err != nil {
		return nil, fmt.Errorf("game: sphere: %w", err)
	}
	body.OnContact(g.feedback.Handle)
	g.spheres = append(g.spheres, body)

	if orphans := g.registry.Unpaired(g.world); len(orphans) > 0 {
		g.logger.Printf("[game] %d dynamic bodies have no proxy", len(orphans))
	}
	return body, nil
}

// SpawnSphere drops a sphere of the configured radius at the spawn height,
// with x and z drawn uniformly from [-spread, spread).
func (g *Game) SpawnSphere() (*physics.Body, error) {
	s := g.cfg.Spawn
	pos := mgl64.Vec3{
		(g.rng.Float64()*2 - 1) * s.Spread,
		s.Height,
		(g.rng.Float64()*2 - 1) * s.Spread,
	}
	return g.CreateSphere(s.Radius, pos)
}

func (g *Game) Press()         { g.paddle.Press() }
func (g *Game) ReleasePaddle() { g.paddle.Release() }

// Tick runs one frame of the loop.
func (g *Game) Tick() (sim.Frame, error) {
	return g.loop.Tick()
}

// ApplyConfig takes over the parameters that can change while running:
// gravity, surface, sleep, paddle speed, spawn settings and the sound
// threshold. Step size, broadphase and the paddle model stay as built.
func (g *Game) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.world.SetGravity(mgl64.Vec3{0, cfg.World.Gravity, 0})
	g.world.SetDefaultContact(cfg.Material.Friction, cfg.Material.Restitution)
	g.world.SetAllowSleep(cfg.World.AllowSleep)
	g.paddle.Speed = cfg.Paddle.Speed
	if cfg.Paddle.RestHeight != 0 {
		g.paddle.RestHeight = cfg.Paddle.RestHeight
	}
	g.feedback.Threshold = cfg.Audio.Threshold

	next := cfg.Clone()
	next.World.FixedStep = g.cfg.World.FixedStep
	next.World.MaxSubsteps = g.cfg.World.MaxSubsteps
	next.World.Broadphase = g.cfg.World.Broadphase
	next.Paddle.Model = g.cfg.Paddle.Model
	g.cfg = next
	g.logger.Printf("[game] config applied: gravity %.2f restitution %.2f friction %.2f",
		cfg.World.Gravity, cfg.Material.Restitution, cfg.Material.Friction)
	return nil
}

func (g *Game) World() *physics.World            { return g.world }
func (g *Game) Loop() *sim.Loop                  { return g.loop }
func (g *Game) Registry() *render.Registry       { return g.registry }
func (g *Game) Config() *config.Config           { return g.cfg }
func (g *Game) Score() int                       { return g.score.Value() }
func (g *Game) Feedback() *ImpactFeedback        { return g.feedback }
func (g *Game) Paddle() *control.Paddle          { return g.paddle }
func (g *Game) PaddleBody() *physics.Body        { return g.paddleBody }
func (g *Game) PaddleProxy() *render.VisualProxy { return g.paddleProxy }
func (g *Game) Floor() *physics.Body             { return g.floor }
func (g *Game) Spheres() []*physics.Body         { return g.spheres }

// Proxies returns everything to draw: floor, paddle, then the spheres.
func (g *Game) Proxies() []*render.VisualProxy {
	out := make([]*render.VisualProxy, 0, 2+g.registry.Len())
	out = append(out, g.floorProxy, g.paddleProxy)
	return append(out, g.registry.Proxies()...)
}
