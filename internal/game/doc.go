// Package game assembles the scene: a static floor, the player paddle and
// the falling spheres, together with the gameplay reactions to contacts.
//
// A Game owns its world and its frame loop. Every mutation happens on the
// caller's goroutine through Tick, Press, ReleasePaddle and the spawn
// methods; none of them are safe for concurrent use.
package game
