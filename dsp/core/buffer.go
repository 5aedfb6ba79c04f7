package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float32, n int) []float32 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// Scale multiplies every sample in buf by gain.
func Scale(buf []float32, gain float32) {
	for i := range buf {
		buf[i] *= gain
	}
}

// ToFloat64 widens src into dst and returns the number of converted samples.
func ToFloat64(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}
