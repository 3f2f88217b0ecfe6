//go:build raylib

package gui

import (
	"io"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pingsim/internal/config"
	"github.com/san-kum/pingsim/internal/game"
	"github.com/san-kum/pingsim/internal/render"
)

// Monochrome palette with a single accent for the spheres.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColFloor   = rl.NewColor(45, 45, 45, 255)
	ColPaddle  = rl.NewColor(200, 200, 200, 255)
	ColSphere  = rl.NewColor(255, 140, 40, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

// Options configure the window.
type Options struct {
	Watcher *config.Watcher
	Logger  *log.Logger
}

// App draws a game in a raylib window and feeds it keyboard input. All
// game calls happen on the window goroutine.
type App struct {
	game       *game.Game
	scoreboard *Scoreboard
	camera     *render.Camera
	input      Input
	keys       Keys
	scene      Scene
	watcher    *config.Watcher
	logger     *log.Logger

	substeps int
	message  string
}

func NewApp(g *game.Game, sb *Scoreboard, opts Options) *App {
	if sb == nil {
		sb = &Scoreboard{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cam := render.NewCamera()
	cam.Target = mgl64.Vec3{0, 1, 0}
	cam.LookFrom(mgl64.Vec3{-6, 5, 6})
	cam.FOV = mgl64.DegToRad(45)
	return &App{
		game:       g,
		scoreboard: sb,
		camera:     cam,
		keys:       windowKeys{},
		watcher:    opts.Watcher,
		logger:     logger,
	}
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(g *game.Game, sb *Scoreboard, opts Options) error {
	rl.InitWindow(windowWidth, windowHeight, "pingsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	app := NewApp(g, sb, opts)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.input.Quit {
		a.Update(float64(rl.GetFrameTime()))
		a.Draw()
	}
}

func (a *App) Update(dt float64) {
	a.pollConfig()
	if err := a.input.Apply(a.keys, a.game, a.camera, dt); err != nil {
		a.message = err.Error()
		a.logger.Printf("[gui] spawn: %v", err)
	}
	if a.input.Paused {
		return
	}
	f, err := a.game.Tick()
	if err != nil {
		a.logger.Printf("[gui] %v", err)
		return
	}
	a.substeps = f.Substeps
}

func (a *App) pollConfig() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-a.watcher.Updates:
		if !ok {
			a.watcher = nil
			return
		}
		if err := a.game.ApplyConfig(cfg); err != nil {
			a.message = "config rejected: " + err.Error()
		} else {
			a.message = "config reloaded"
		}
		a.logger.Printf("[gui] %s", a.message)
	case err, ok := <-a.watcher.Errors:
		if !ok {
			a.watcher = nil
			return
		}
		a.message = "config error: " + err.Error()
		a.logger.Printf("[gui] %s", a.message)
	default:
	}
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func (a *App) camera3D() rl.Camera3D {
	eye, target, fovy := CameraPose(a.camera)
	return rl.NewCamera3D(vec3(eye), vec3(target), rl.NewVector3(0, 1, 0), float32(fovy), rl.CameraPerspective)
}

func (a *App) Draw() {
	BuildScene(&a.scene, a.game.Proxies())

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.camera3D())
	for _, s := range a.scene.Segments {
		col := ColSphere
		switch s.Layer {
		case LayerFloor:
			col = ColFloor
		case LayerPaddle:
			col = ColPaddle
		}
		rl.DrawLine3D(vec3(s.A), vec3(s.B), col)
	}
	for _, b := range a.scene.Balls {
		rl.DrawSphere(vec3(b.Center), float32(b.Radius), ColSphere)
	}
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	st := Status{
		Score:    a.scoreboard.Score,
		Spheres:  len(a.game.Spheres()),
		Substeps: a.substeps,
		FPS:      int(rl.GetFPS()),
		Paused:   a.input.Paused,
		Holding:  a.input.Holding(),
		Message:  a.message,
	}
	y := int32(30)
	for i, line := range st.Lines() {
		size, col := int32(16), ColText
		if i == 0 {
			size, col = 28, ColText
			if a.scoreboard.Flashing(time.Now()) {
				col = ColSelect
			}
		}
		rl.DrawText(line, 30, y, size, col)
		y += size + 8
	}
	rl.DrawText(helpLine, 30, windowHeight-40, 14, ColTextDim)
}
