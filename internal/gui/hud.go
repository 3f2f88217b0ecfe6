package gui

import (
	"fmt"
	"time"
)

// flashDuration is how long the score stays highlighted after a point.
const flashDuration = 400 * time.Millisecond

// Scoreboard is the score display handed to the game.
type Scoreboard struct {
	Score int
	Last  time.Time
}

func (s *Scoreboard) ShowScore(score int) {
	s.Score = score
	s.Last = time.Now()
}

// Flashing reports whether a point was scored within flashDuration of now.
func (s *Scoreboard) Flashing(now time.Time) bool {
	return !s.Last.IsZero() && now.Sub(s.Last) < flashDuration
}

// Status is what the overlay shows besides the scene.
type Status struct {
	Score    int
	Spheres  int
	Substeps int
	FPS      int
	Paused   bool
	Holding  bool
	Message  string
}

// Lines renders the overlay text, top to bottom.
func (s Status) Lines() []string {
	state := "RUNNING"
	if s.Paused {
		state = "PAUSED"
	}
	paddle := "down"
	if s.Holding {
		paddle = "up"
	}
	lines := []string{
		fmt.Sprintf("SCORE %d", s.Score),
		fmt.Sprintf("%s  spheres %d  paddle %s  substeps %d  %d FPS", state, s.Spheres, paddle, s.Substeps, s.FPS),
	}
	if s.Message != "" {
		lines = append(lines, s.Message)
	}
	return lines
}

const helpLine = "[SPACE] PADDLE  [N] SPHERE  [P] PAUSE  [ARROWS] ORBIT  [+/-] ZOOM  [Q] QUIT"
