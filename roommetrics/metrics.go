// metrics.go - post-processing helpers over a recorded impulse response
//
// This package sits outside the core numerical contract described in
// spec.md §1 (the engine itself stays a pure per-sample simulation); it is
// the kind of analysis a room-acoustics tool built on dwmmesh would run
// over a recorded block, and it gives the energy-decay and spectral shape
// of a microphone recording something other than eyeballing raw samples.

package roommetrics

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// EnergyDecayCurve returns the running RMS energy of ir computed over
// non-overlapping windows of windowSize samples, one value per window.
// This is the numeric basis for spec.md §8 Testable Property 2 ("absolute
// peak strictly decreases after the initial transient").
func EnergyDecayCurve(ir []float32, windowSize int) []float64 {
	if windowSize <= 0 {
		windowSize = 1
	}
	var curve []float64
	for start := 0; start < len(ir); start += windowSize {
		end := start + windowSize
		if end > len(ir) {
			end = len(ir)
		}
		var sumSq float64
		for _, v := range ir[start:end] {
			fv := float64(v)
			sumSq += fv * fv
		}
		n := end - start
		curve = append(curve, math.Sqrt(sumSq/float64(n)))
	}
	return curve
}

// Spectrum returns the magnitude spectrum of ir, computed with a real FFT.
// The returned slice has len(ir)/2+1 entries, one per non-negative
// frequency bin, in bin order (DC first).
func Spectrum(ir []float32) []float64 {
	n := len(ir)
	if n == 0 {
		return nil
	}
	samples := make([]float64, n)
	for i, v := range ir {
		samples[i] = float64(v)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}
	return mags
}

// PeakAbs returns the largest absolute sample value in ir, and its index.
func PeakAbs(ir []float32) (peak float32, index int) {
	for i, v := range ir {
		a := v
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
			index = i
		}
	}
	return peak, index
}
