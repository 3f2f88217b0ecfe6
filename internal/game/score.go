package game

import "github.com/san-kum/pingsim/internal/physics"

// ScoreDisplay receives the running total after every increment.
type ScoreDisplay interface {
	ShowScore(score int)
}

type ScoreDisplayFunc func(int)

func (f ScoreDisplayFunc) ShowScore(score int) { f(score) }

// Score counts paddle contacts. It only ever grows.
type Score struct {
	value   int
	display ScoreDisplay
}

func NewScore(display ScoreDisplay) *Score {
	return &Score{display: display}
}

func (s *Score) Value() int { return s.value }

// Handle is registered as the paddle's contact handler.
func (s *Score) Handle(physics.ContactEvent) {
	s.value++
	if s.display != nil {
		s.display.ShowScore(s.value)
	}
}
