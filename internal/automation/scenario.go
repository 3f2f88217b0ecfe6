package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

const (
	ActionSpawn   = "spawn"
	ActionSphere  = "sphere"
	ActionPress   = "press"
	ActionRelease = "release"
)

// Scenario is a scripted run: a duration, an optional preset and a timeline
// of input actions.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Preset      string   `yaml:"preset"`
	Seed        int64    `yaml:"seed"`
	Duration    float64  `yaml:"duration"`
	Actions     []Action `yaml:"actions"`
}

// Action fires once, on the first frame whose start time is at or after At.
type Action struct {
	At       float64   `yaml:"at"`
	Do       string    `yaml:"do"`
	Count    int       `yaml:"count"`
	Radius   float64   `yaml:"radius"`
	Position []float64 `yaml:"position"`
}

// DefaultScenario drops the startup sphere and lets it settle.
func DefaultScenario(duration float64) *Scenario {
	return &Scenario{Name: "drop", Duration: duration}
}

// RallyScenario bounces the startup sphere off the paddle every two seconds.
func RallyScenario(duration float64) *Scenario {
	sc := &Scenario{Name: "rally", Duration: duration}
	for t := 1.0; t+0.3 < duration; t += 2 {
		sc.Actions = append(sc.Actions,
			Action{At: t, Do: ActionPress},
			Action{At: t + 0.3, Do: ActionRelease},
		)
	}
	return sc
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the timeline and sorts it by time. Actions sharing a time
// keep their file order.
func (s *Scenario) Validate() error {
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidScenario, s.Duration)
	}
	for i, a := range s.Actions {
		if !(a.At >= 0) || math.IsInf(a.At, 0) {
			return fmt.Errorf("%w: action %d: bad time %g", ErrInvalidScenario, i, a.At)
		}
		switch a.Do {
		case ActionPress, ActionRelease:
		case ActionSpawn:
			if a.Count < 0 {
				return fmt.Errorf("%w: action %d: negative count", ErrInvalidScenario, i)
			}
		case ActionSphere:
			if len(a.Position) != 3 {
				return fmt.Errorf("%w: action %d: position needs 3 values", ErrInvalidScenario, i)
			}
		default:
			return fmt.Errorf("%w: action %d: unknown action %q", ErrInvalidScenario, i, a.Do)
		}
	}
	sort.SliceStable(s.Actions, func(i, j int) bool { return s.Actions[i].At < s.Actions[j].At })
	return nil
}
