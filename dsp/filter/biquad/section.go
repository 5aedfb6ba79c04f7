package biquad

import "github.com/cwbudde/algo-pingpong/dsp/core"

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single float32 biquad with coefficients and internal state.
type Section struct {
	b0, b1, b2 float32
	a1, a2     float32

	d0, d1 float32
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	s := &Section{}
	s.SetCoefficients(c)
	return s
}

// SetCoefficients replaces the coefficients and keeps the delay state, so a
// running filter can be retuned between blocks without a reset.
func (s *Section) SetCoefficients(c Coefficients) {
	s.b0 = float32(c.B0)
	s.b1 = float32(c.B1)
	s.b2 = float32(c.B2)
	s.a1 = float32(c.A1)
	s.a2 = float32(c.A2)
}

// Coefficients returns the coefficients currently in use.
func (s *Section) Coefficients() Coefficients {
	return Coefficients{
		B0: float64(s.b0), B1: float64(s.b1), B2: float64(s.b2),
		A1: float64(s.a1), A2: float64(s.a2),
	}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float32) float32 {
	y := s.b0*x + s.d0
	s.d0 = s.b1*x - s.a1*y + s.d1
	s.d1 = s.b2*x - s.a2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float32) {
	b0, b1, b2 := s.b0, s.b1, s.b2
	a1, a2 := s.a1, s.a2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0 = core.FlushDenormals(d0)
	s.d1 = core.FlushDenormals(d1)
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float32 {
	return [2]float32{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float32) {
	s.d0 = state[0]
	s.d1 = state[1]
}
