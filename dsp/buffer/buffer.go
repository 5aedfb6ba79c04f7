package buffer

// Block is a planar audio block: one float32 slice per channel, all sharing
// the same active length.
type Block struct {
	channels [][]float32
	length   int
	capacity int
}

// New returns a zero-filled Block with the given channel count and frame
// capacity. The active length starts at capacity.
func New(channels, capacity int) *Block {
	if channels < 0 {
		channels = 0
	}
	if capacity < 0 {
		capacity = 0
	}

	b := &Block{
		channels: make([][]float32, channels),
		length:   capacity,
		capacity: capacity,
	}
	for i := range b.channels {
		b.channels[i] = make([]float32, capacity)
	}

	return b
}

// FromChannels wraps existing channel slices without copying. The block
// length and capacity are those of the shortest slice.
func FromChannels(channels ...[]float32) *Block {
	n := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < n {
			n = len(ch)
		}
	}

	return &Block{channels: channels, length: n, capacity: n}
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Len returns the active number of frames.
func (b *Block) Len() int {
	return b.length
}

// Cap returns the frame capacity.
func (b *Block) Cap() int {
	return b.capacity
}

// Channel returns the active samples of channel ch.
// It returns nil for an out-of-range channel.
func (b *Block) Channel(ch int) []float32 {
	if ch < 0 || ch >= len(b.channels) {
		return nil
	}

	return b.channels[ch][:b.length]
}

// SetLen sets the active frame count, clamped to [0, Cap()]. No allocation.
func (b *Block) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if n > b.capacity {
		n = b.capacity
	}

	b.length = n
}

// Zero clears the active frames of every channel.
func (b *Block) Zero() {
	for ch := range b.channels {
		s := b.channels[ch][:b.length]
		for i := range s {
			s[i] = 0
		}
	}
}

// CopyChannel copies the active frames of channel src into channel dst.
func (b *Block) CopyChannel(dst, src int) {
	if dst == src || dst < 0 || src < 0 || dst >= len(b.channels) || src >= len(b.channels) {
		return
	}

	copy(b.channels[dst][:b.length], b.channels[src][:b.length])
}

// Copy returns a deep copy of the active frames.
func (b *Block) Copy() *Block {
	out := New(len(b.channels), b.length)
	for ch := range b.channels {
		copy(out.channels[ch], b.channels[ch][:b.length])
	}

	return out
}
