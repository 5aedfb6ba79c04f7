package dither

import (
	"math"
	"math/rand/v2"
)

// Quantizer maps float32 samples in [-1, 1] to signed integers of the
// configured bit depth. Output is always limited to the integer range.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	rng             *rand.Rand

	scale   float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a Quantizer. The default is 16-bit with triangular
// dither of 1 LSB amplitude.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        cfg.bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		rng:             cfg.rng,
	}

	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.limitHi = 1<<(q.bitDepth-1) - 1
	q.limitLo = -q.limitHi - 1
	q.scale = float64(q.limitHi)

	return q, nil
}

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(input float32) int {
	x := float64(input)
	if math.IsNaN(x) {
		x = 0
	}

	scaled := x*q.scale + q.noise()
	result := int(math.Round(math.Max(math.Min(scaled, float64(q.limitHi)), float64(q.limitLo))))

	return max(q.limitLo, min(q.limitHi, result))
}

// Quantize converts src into dst and returns the number of samples written.
func (q *Quantizer) Quantize(dst []int, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = q.ProcessInteger(src[i])
	}

	return n
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64() - 0.5)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise PDF.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// Limits returns the smallest and largest output value.
func (q *Quantizer) Limits() (lo, hi int) { return q.limitLo, q.limitHi }
