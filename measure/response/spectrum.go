package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// ErrInvalidFFTSize is returned for FFT sizes that are not a power of two.
var ErrInvalidFFTSize = errors.New("response: fft size must be a power of two >= 2")

// Spectrum holds the non-negative frequency bins of a zero-padded FFT.
type Spectrum struct {
	FFTSize    int
	SampleRate float64
	Magnitude  []float64
	Power      []float64
}

// Analyze zero-pads ir to fftSize and returns its magnitude and power
// spectrum over bins [0, fftSize/2]. Samples beyond fftSize are dropped.
func Analyze(ir []float32, fftSize int, opts ...Option) (Spectrum, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return Spectrum{}, fmt.Errorf("fft size %d: %w", fftSize, ErrInvalidFFTSize)
	}

	cfg := ApplyOptions(opts...)

	in := make([]complex128, fftSize)
	for i := range min(len(ir), fftSize) {
		in[i] = complex(float64(ir[i]), 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("fft plan %d: %w", fftSize, err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("fft forward: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	s := Spectrum{
		FFTSize:    fftSize,
		SampleRate: cfg.SampleRate,
		Magnitude:  make([]float64, bins),
		Power:      make([]float64, bins),
	}

	vecmath.Magnitude(s.Magnitude, re, im)
	vecmath.Power(s.Power, re, im)

	return s, nil
}

// BinFrequency returns the centre frequency of bin k in Hz.
func (s Spectrum) BinFrequency(k int) float64 {
	return float64(k) * s.SampleRate / float64(s.FFTSize)
}

// Bin returns the bin nearest to freq, clamped to the spectrum.
func (s Spectrum) Bin(freq float64) int {
	if len(s.Magnitude) == 0 {
		return 0
	}

	k := int(math.Round(freq * float64(s.FFTSize) / s.SampleRate))

	return min(max(k, 0), len(s.Magnitude)-1)
}

// MagnitudeDB returns the magnitude at freq in dB.
func (s Spectrum) MagnitudeDB(freq float64) float64 {
	if len(s.Magnitude) == 0 {
		return math.Inf(-1)
	}

	return core.LinearToDB(s.Magnitude[s.Bin(freq)])
}

// Attenuation returns how far the response at freq lies below the response
// at DC, in dB.
func (s Spectrum) Attenuation(freq float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}

	return core.LinearToDB(s.Magnitude[0]) - s.MagnitudeDB(freq)
}

// Energy returns the summed power over all bins.
func (s Spectrum) Energy() float64 {
	var sum float64
	for _, p := range s.Power {
		sum += p
	}

	return sum
}
