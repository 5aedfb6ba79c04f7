package effects

// MinClipThreshold is the smallest threshold HardClip acts on. Below it the
// signal passes through untouched, so a near-zero threshold can't flatten
// everything to silence.
const MinClipThreshold = 0.01

// HardClip caps x to [-threshold, threshold]. Inside that range the sample is
// returned exactly. A threshold below MinClipThreshold disables clipping.
func HardClip(x, threshold float32) float32 {
	if !(threshold >= MinClipThreshold) {
		return x
	}

	if x > threshold {
		return threshold
	}

	if x < -threshold {
		return -threshold
	}

	return x
}

// HardClipDifference clips the wet-minus-dry difference, the quantity the
// delay mix scales before adding it back to the dry signal.
func HardClipDifference(wet, dry, threshold float32) float32 {
	return HardClip(wet-dry, threshold)
}
