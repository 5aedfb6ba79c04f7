package delay

import (
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/interp"
)

// BufferLength returns the ring length needed to hold maxDelaySeconds at
// sampleRate: ceil(maxDelaySeconds*sampleRate) + 1, floored to one sample.
func BufferLength(maxDelaySeconds, sampleRate float64) int {
	span := maxDelaySeconds * sampleRate
	if !(span > 0) || math.IsInf(span, 0) {
		return 1
	}

	return int(math.Ceil(span)) + 1
}

// Line is a multi-channel circular delay buffer. All channels share one
// write index, which is always a valid index in [0, Len()).
type Line struct {
	channels [][]float32
	size     int
	writePos int
}

// NewLine returns a zeroed line with the given channel count and length.
// Both are floored to 1.
func NewLine(channels, size int) *Line {
	if channels < 1 {
		channels = 1
	}
	if size < 1 {
		size = 1
	}

	l := &Line{
		channels: make([][]float32, channels),
		size:     size,
	}
	for i := range l.channels {
		l.channels[i] = make([]float32, size)
	}

	return l
}

// Len returns the ring length in samples.
func (l *Line) Len() int {
	return l.size
}

// NumChannels returns the number of channel rings.
func (l *Line) NumChannels() int {
	return len(l.channels)
}

// WritePos returns the current write index.
func (l *Line) WritePos() int {
	return l.writePos
}

// MaxDelay returns the longest delay in samples the ring can represent.
func (l *Line) MaxDelay() float64 {
	return float64(l.size - 1)
}

// ReadPosition converts a delay in samples into the interpolation index and
// fraction relative to the current write index:
//
//	r = (writePos - delay + Len) mod Len,  idx = floor(r),  frac = r - idx
//
// delay is clamped to [0, MaxDelay()].
func (l *Line) ReadPosition(delay float64) (idx int, frac float32) {
	if !(delay > 0) {
		delay = 0
	}
	if delay > l.MaxDelay() {
		delay = l.MaxDelay()
	}

	size := float64(l.size)
	r := math.Mod(float64(l.writePos)-delay+size, size)
	idx = int(r)
	if idx >= l.size {
		idx, r = 0, 0
	}

	return idx, float32(r - float64(idx))
}

// Tap returns the stored sample of channel ch at ring index idx.
func (l *Line) Tap(ch, idx int) float32 {
	return l.channels[ch][idx]
}

// Read linearly interpolates channel ch between idx and its successor.
func (l *Line) Read(ch, idx int, frac float32) float32 {
	buf := l.channels[ch]

	next := idx + 1
	if next >= l.size {
		next = 0
	}

	return interp.Linear(buf[idx], buf[next], frac)
}

// Write stores v in channel ch at the current write index.
func (l *Line) Write(ch int, v float32) {
	l.channels[ch][l.writePos] = v
}

// Advance moves the write index forward by one frame, wrapping at Len().
func (l *Line) Advance() {
	l.writePos++
	if l.writePos >= l.size {
		l.writePos = 0
	}
}

// Reset clears every channel and rewinds the write index.
func (l *Line) Reset() {
	for _, ch := range l.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
	l.writePos = 0
}
