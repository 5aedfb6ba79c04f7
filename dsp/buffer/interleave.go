package buffer

// Deinterleave splits interleaved frames from src into the block and sets
// the active length to the number of complete frames read, limited by the
// block capacity. It returns the frame count.
func (b *Block) Deinterleave(src []float32) int {
	nch := len(b.channels)
	if nch == 0 {
		b.length = 0
		return 0
	}

	frames := min(len(src)/nch, b.capacity)
	for ch := range b.channels {
		dst := b.channels[ch]
		for i := range frames {
			dst[i] = src[i*nch+ch]
		}
	}
	b.length = frames

	return frames
}

// Interleave writes the active frames into dst as interleaved samples and
// returns the number of frames written, limited by len(dst).
func (b *Block) Interleave(dst []float32) int {
	nch := len(b.channels)
	if nch == 0 {
		return 0
	}

	frames := min(len(dst)/nch, b.length)
	for ch := range b.channels {
		src := b.channels[ch]
		for i := range frames {
			dst[i*nch+ch] = src[i]
		}
	}

	return frames
}
