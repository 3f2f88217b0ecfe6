package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Voice streams one buffered sound. It implements beep.Streamer and never
// drains: when idle it produces silence, so it can stay attached to the
// speaker for the whole session. The speaker goroutine and the game loop
// meet only under mu.
type Voice struct {
	mu     sync.Mutex
	buf    *beep.Buffer
	pos    beep.StreamSeeker
	volume *effects.Volume
	plays  int
}

func NewVoice(buf *beep.Buffer) *Voice {
	return &Voice{buf: buf}
}

// Play starts the sound at the given linear volume. With restart set, a
// sound still playing is rewound; otherwise only its volume changes.
func (v *Voice) Play(volume float64, restart bool) error {
	if err := checkVolume(volume); err != nil {
		return fmt.Errorf("%w: %g", err, volume)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.buf == nil || v.buf.Len() == 0 {
		return ErrNoSound
	}

	if v.pos == nil || restart {
		v.pos = v.buf.Streamer(0, v.buf.Len())
		v.volume = &effects.Volume{Streamer: v.pos, Base: 2}
	}
	setVolume(v.volume, volume)
	v.plays++
	return nil
}

// setVolume maps a linear gain onto beep's logarithmic volume.
func setVolume(e *effects.Volume, linear float64) {
	if linear <= 0 {
		e.Silent = true
		e.Volume = 0
		return
	}
	e.Silent = false
	e.Volume = math.Log2(linear)
}

func (v *Voice) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos != nil
}

// Position returns the playback position in samples, -1 when idle.
func (v *Voice) Position() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pos == nil {
		return -1
	}
	return v.pos.Position()
}

func (v *Voice) Plays() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.plays
}

func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := 0
	if v.volume != nil {
		var ok bool
		n, ok = v.volume.Stream(samples)
		if !ok || n < len(samples) {
			v.pos, v.volume = nil, nil
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (v *Voice) Err() error { return nil }
