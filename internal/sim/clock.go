package sim

import (
	"sync"
	"time"
)

// Clock reports seconds elapsed since the loop started.
type Clock interface {
	Elapsed() float64
}

type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock { return &WallClock{start: time.Now()} }

func (c *WallClock) Elapsed() float64 { return time.Since(c.start).Seconds() }

// ManualClock only moves when told to. It is safe for concurrent use so a
// test can advance it while a loop reads it.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

func (c *ManualClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(seconds float64) {
	c.mu.Lock()
	c.now += seconds
	c.mu.Unlock()
}

func (c *ManualClock) Set(seconds float64) {
	c.mu.Lock()
	c.now = seconds
	c.mu.Unlock()
}
