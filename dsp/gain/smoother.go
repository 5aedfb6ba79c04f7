// Package gain applies a control-rate gain to audio blocks without zipper
// noise.
package gain

import (
	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// Smoother remembers the last gain it applied. When the target changes
// between blocks the next block is ramped linearly from the old value
// towards the new one.
type Smoother struct {
	last float32
}

// NewSmoother returns a smoother whose last applied gain is initial.
func NewSmoother(initial float32) *Smoother {
	return &Smoother{last: initial}
}

// Reset sets the last applied gain without touching any audio.
func (s *Smoother) Reset(g float32) {
	s.last = g
}

// Last returns the gain applied at the end of the previous block.
func (s *Smoother) Last() float32 {
	return s.last
}

// Apply scales every channel of b by target. If target differs from the
// previous block's gain, sample i of an n-sample block is scaled by
// last + i*(target-last)/n instead, and target becomes the new last value.
func (s *Smoother) Apply(b *buffer.Block, target float32) {
	if b.Len() == 0 {
		s.last = target
		return
	}

	if target == s.last {
		for ch := range b.NumChannels() {
			core.Scale(b.Channel(ch), target)
		}

		return
	}

	for ch := range b.NumChannels() {
		Ramp(b.Channel(ch), s.last, target)
	}

	s.last = target
}

// Ramp scales buf in place by a linear ramp from start towards end, sample i
// receiving start + i*(end-start)/len(buf).
func Ramp(buf []float32, start, end float32) {
	if len(buf) == 0 {
		return
	}

	step := (end - start) / float32(len(buf))
	for i := range buf {
		buf[i] *= start + float32(i)*step
	}
}
