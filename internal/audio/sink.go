package audio

import "errors"

var (
	ErrVolume    = errors.New("audio: volume outside [0, 1)")
	ErrNoSound   = errors.New("audio: no sound loaded")
	ErrNoDevice  = errors.New("audio: output device unavailable")
	ErrBadFormat = errors.New("audio: unsupported sound format")
)

// Sink is a single-voice playback target.
type Sink interface {
	Play(volume float64, restart bool) error
}

// Discard accepts valid requests and plays nothing.
type Discard struct{}

func (Discard) Play(volume float64, restart bool) error {
	return checkVolume(volume)
}

func checkVolume(v float64) error {
	if !(v >= 0 && v < 1) {
		return ErrVolume
	}
	return nil
}
