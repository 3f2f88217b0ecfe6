//go:build raylib

package gui

import rl "github.com/gen2brain/raylib-go/raylib"

var bindings = map[Key][]int32{
	KeyPaddle:     {rl.KeySpace},
	KeySpawn:      {rl.KeyN},
	KeyPause:      {rl.KeyP},
	KeyQuit:       {rl.KeyQ, rl.KeyEscape},
	KeyOrbitLeft:  {rl.KeyLeft, rl.KeyA},
	KeyOrbitRight: {rl.KeyRight, rl.KeyD},
	KeyOrbitUp:    {rl.KeyUp, rl.KeyW},
	KeyOrbitDown:  {rl.KeyDown, rl.KeyS},
	KeyZoomIn:     {rl.KeyEqual, rl.KeyKpAdd},
	KeyZoomOut:    {rl.KeyMinus, rl.KeyKpSubtract},
}

// windowKeys reads the raylib keyboard state.
type windowKeys struct{}

func (windowKeys) any(k Key, f func(int32) bool) bool {
	for _, code := range bindings[k] {
		if f(code) {
			return true
		}
	}
	return false
}

func (w windowKeys) Down(k Key) bool     { return w.any(k, rl.IsKeyDown) }
func (w windowKeys) Pressed(k Key) bool  { return w.any(k, rl.IsKeyPressed) }
func (w windowKeys) Released(k Key) bool { return w.any(k, rl.IsKeyReleased) }
