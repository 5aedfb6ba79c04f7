// Package response measures what a stereo block processor does to an
// impulse: where its echoes land and how it colours the spectrum.
package response

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
)

// ErrInvalidChannel is returned when the impulse channel is not 0 or 1.
var ErrInvalidChannel = errors.New("response: impulse channel must be 0 or 1")

// BlockProcessor processes a stereo block in place.
type BlockProcessor interface {
	ProcessBlock(b *buffer.Block)
}

// Impulse feeds a unit impulse on channel ch (0 left, 1 right) through p
// and returns the rendered left and right outputs.
func Impulse(p BlockProcessor, ch int, opts ...Option) (left, right []float32, err error) {
	if ch != 0 && ch != 1 {
		return nil, nil, fmt.Errorf("impulse on channel %d: %w", ch, ErrInvalidChannel)
	}

	cfg := ApplyOptions(opts...)

	left = make([]float32, cfg.Length)
	right = make([]float32, cfg.Length)

	if ch == 0 {
		left[0] = 1
	} else {
		right[0] = 1
	}

	Render(p, left, right, cfg.BlockSize)

	return left, right, nil
}

// Render runs p over left and right in place, blockSize frames at a time.
func Render(p BlockProcessor, left, right []float32, blockSize int) {
	n := min(len(left), len(right))
	if blockSize <= 0 {
		blockSize = n
	}

	for start := 0; start < n; start += blockSize {
		end := min(start+blockSize, n)
		p.ProcessBlock(buffer.FromChannels(left[start:end], right[start:end]))
	}
}
