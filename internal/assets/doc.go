// Package assets loads the paddle model.
//
// A model is a small YAML document: a wireframe in model units, the scale
// that maps it to world units, the collider half extents and the rest
// height. [LoadAsync] reads it in the background and signals completion
// over a channel; the game is not assembled until that signal arrives.
package assets
