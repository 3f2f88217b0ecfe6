package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// PowerSpectrum removes the mean, zero-pads to a power of two and returns
// the magnitudes of the first half of the transform together with the
// padded length. Bin i corresponds to i/(n*dt) Hz.
func PowerSpectrum(data []float64) ([]float64, int) {
	if len(data) == 0 {
		return nil, 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := nextPow2(len(data))
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, max(n/2, 1))
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps, n
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of a series sampled every dt seconds, or 0 when there is none.
func DominantFrequency(data []float64, dt float64) float64 {
	ps, n := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) / (float64(n) * dt)
}
