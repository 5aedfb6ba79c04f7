// Package biquad provides a single second-order IIR section for real-time
// use.
//
// [Coefficients] are designed and analysed in float64 (see dsp/filter/design
// and [Coefficients.MagnitudeDB]); a [Section] stores them as float32 and
// runs Direct Form II Transposed on float32 samples, matching the precision
// of the audio path.
package biquad
