package core

import "math"

// MinDecibels is the floor used wherever a level is reported in dB.
// Silence and non-finite readings map to this value.
const MinDecibels = -100

const denormalThreshold = 1e-30

// Clamp limits value to the inclusive range [lo, hi].
func Clamp(value, lo, hi float32) float32 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

// NearlyEqual reports whether a and b are within eps of each other.
func NearlyEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}

	return d <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Recursive filters and feedback loops decay into this range; flushing
// keeps the hot loops off the slow denormal path.
func FlushDenormals(x float32) float32 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// GainToDecibels converts linear amplitude to dB (20*log10 convention).
// Values at or below the floor, as well as NaN, return MinDecibels.
func GainToDecibels(gain float32) float32 {
	if !(gain > 0) {
		return MinDecibels
	}

	db := float32(20 * math.Log10(float64(gain)))
	if !(db > MinDecibels) {
		return MinDecibels
	}

	if math.IsInf(float64(db), 1) {
		return MinDecibels
	}

	return db
}

// DecibelsToGain converts dB to linear amplitude. Anything at or below
// MinDecibels is silence.
func DecibelsToGain(db float32) float32 {
	if !(db > MinDecibels) {
		return 0
	}

	return float32(math.Pow(10, float64(db)/20))
}

// LinearToDB converts linear amplitude to dB in double precision.
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
