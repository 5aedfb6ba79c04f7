package interp

// Linear blends two adjacent samples: s0 + frac*(s1-s0).
// frac is expected in [0, 1); it is not clamped.
func Linear(s0, s1, frac float32) float32 {
	return s0 + frac*(s1-s0)
}
