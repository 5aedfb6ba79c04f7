package design

import (
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/filter/biquad"
)

// DefaultQ is the Butterworth quality factor, 1/sqrt(2).
const DefaultQ = 1 / math.Sqrt2

// Passthrough returns unity-gain coefficients.
func Passthrough() biquad.Coefficients {
	return biquad.Coefficients{B0: 1}
}

// Lowpass designs a second-order lowpass at freq (Hz) with quality factor q.
//
// This is the RBJ cookbook lowpass, the same transfer function as the
// bilinear-transformed analog prototype 1/(s^2 + s/Q + 1) prewarped to freq.
// A frequency outside (0, Nyquist) returns Passthrough.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Passthrough()
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// MaxStableFrequency returns the highest design frequency accepted for
// sampleRate, a small margin below Nyquist.
func MaxStableFrequency(sampleRate float64) float64 {
	return 0.499 * sampleRate
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return DefaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Passthrough()
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
