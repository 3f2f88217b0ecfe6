package physics

import (
	"errors"
	"fmt"
)

// Domain errors for world operations.
var (
	// ErrInvalidStep indicates a step request with a non-positive or non-finite
	// step size, a negative or non-finite delta, or no allowed sub-steps.
	ErrInvalidStep = errors.New("physics: invalid step arguments")

	// ErrInvalidBody indicates body options that cannot produce a simulated body.
	ErrInvalidBody = errors.New("physics: invalid body options")

	// ErrUnknownBroadphase indicates a broadphase name that is not registered.
	ErrUnknownBroadphase = errors.New("physics: unknown broadphase")
)

// StepError wraps a rejected step with world context.
type StepError struct {
	Time    float64
	Fixed   float64
	Delta   float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("t=%.4f step(%g, %g): %v", e.Time, e.Fixed, e.Delta, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
