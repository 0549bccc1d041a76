package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}
	spec := fft.FFTReal(centered)

	ps := make([]float64, len(spec)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in
// samples taken every dt. It returns 0 when the series has no oscillation.
func DominantPeriod(samples []float64, dt float64) float64 {
	ps := PowerSpectrum(samples)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || peak < 1e-9 {
		return 0
	}
	return float64(len(samples)) * dt / float64(best)
}
