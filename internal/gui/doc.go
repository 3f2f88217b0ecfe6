// Package gui is the windowed front end. The raylib window is built only
// with the raylib tag; key handling and scene extraction are plain Go so
// they build and test everywhere.
package gui
