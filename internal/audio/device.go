package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Device routes a voice to the system speaker. The speaker is process-wide,
// so only one Device should be open at a time.
type Device struct {
	*Voice

	closeMu sync.Mutex
	closed  bool
}

// OpenDevice initializes the speaker at the buffer's sample rate and keeps
// the voice attached to it.
func OpenDevice(buf *beep.Buffer) (*Device, error) {
	if buf == nil {
		return nil, ErrNoSound
	}
	sr := buf.Format().SampleRate
	if err := speaker.Init(sr, sr.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	d := &Device{Voice: NewVoice(buf)}
	speaker.Play(d.Voice)
	return d, nil
}

func (d *Device) Close() {
	d.closeMu.Lock()
	defer d.closeMu.Unlock()
	if d.closed {
		return
	}
	speaker.Clear()
	d.closed = true
}

// Open returns a speaker-backed sink for the WAV or MP3 file at path, or
// for the synthesized hit sound when path is empty. Any failure degrades to
// Discard with a logged warning, since sound is never required. The
// returned close function is always safe to call.
func Open(path string, logger *log.Logger) (Sink, func()) {
	if logger == nil {
		logger = log.Default()
	}
	buf := HitSound(DefaultSampleRate)
	if path != "" {
		loaded, err := LoadSoundFile(path, DefaultSampleRate)
		if err != nil {
			logger.Printf("[audio] %s: %v, using the built-in sound", path, err)
		} else {
			buf = loaded
		}
	}
	d, err := OpenDevice(buf)
	if err != nil {
		logger.Printf("[audio] %v, sound disabled", err)
		return Discard{}, func() {}
	}
	return d, d.Close
}
