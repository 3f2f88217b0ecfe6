// Package sim drives the physics world once per displayed frame.
//
// Each [Loop.Tick] reads the [Clock], steps the world by the delta since the
// previous tick in fixed sub-steps, applies the paddle [Controller], runs
// the render [Syncer] and finally feeds [Metric] and [Observer] hooks. The
// caller decides when the next tick happens: bubbletea schedules it in the
// terminal front end, [Loop.Advance] does it for headless runs.
package sim
