package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

const DefaultSampleRate = beep.SampleRate(44100)

// hitGenerator renders a short damped "pock": a falling sine with a fast
// exponential decay and a click of noise at the onset.
type hitGenerator struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
	seed  uint32
}

func (g *hitGenerator) Stream(samples [][2]float64) (int, bool) {
	if g.pos >= g.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if g.pos >= g.total {
			break
		}
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t * 40)
		f := g.freq * (1 - 0.3*t/0.12)
		s := 0.6 * env * math.Sin(2*math.Pi*f*t)
		if t < 0.004 {
			g.seed = g.seed*1664525 + 1013904223
			s += 0.3 * (float64(g.seed>>8)/float64(1<<24)*2 - 1)
		}
		samples[i] = [2]float64{s, s}
		g.pos++
		n++
	}
	return n, true
}

func (g *hitGenerator) Err() error { return nil }

// HitSound synthesizes the default impact sound.
func HitSound(sr beep.SampleRate) *beep.Buffer {
	g := &hitGenerator{sr: sr, freq: 880, total: sr.N(120 * time.Millisecond), seed: 1}
	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(g)
	return buf
}

// decoder turns an encoded stream into a seekable beep streamer.
type decoder func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decodeWAV(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(rc)
}

// decoderFor picks a decoder from the file extension.
func decoderFor(path string) (decoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return decodeWAV, nil
	case ".mp3":
		return mp3.Decode, nil
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrBadFormat, ext)
	}
}

// LoadSound decodes a WAV stream into memory, resampled to sr.
func LoadSound(r io.Reader, sr beep.SampleRate) (*beep.Buffer, error) {
	return load(decodeWAV, io.NopCloser(r), sr)
}

// LoadSoundFile decodes the WAV or MP3 file at path into memory, resampled
// to sr.
func LoadSoundFile(path string, sr beep.SampleRate) (*beep.Buffer, error) {
	dec, err := decoderFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(dec, f, sr)
}

func load(dec decoder, rc io.ReadCloser, sr beep.SampleRate) (*beep.Buffer, error) {
	s, format, err := dec(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != sr {
		src = beep.Resample(4, format.SampleRate, sr, s)
	}
	format.SampleRate = sr
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: empty sound", ErrBadFormat)
	}
	return buf, nil
}
