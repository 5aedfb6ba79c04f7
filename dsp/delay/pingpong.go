package delay

import "github.com/cwbudde/algo-pingpong/dsp/core"

const (
	left  = 0
	right = 1
)

// PingPong is a stereo delay whose feedback path crosses channels: the
// right channel's delayed output is fed into the left ring and vice versa.
type PingPong struct {
	line       *Line
	sampleRate float64
}

// NewPingPong allocates a stereo ring long enough for maxDelaySeconds at
// sampleRate. A non-positive maximum yields a one-sample ring.
func NewPingPong(maxDelaySeconds, sampleRate float64) *PingPong {
	return &PingPong{
		line:       NewLine(2, BufferLength(maxDelaySeconds, sampleRate)),
		sampleRate: sampleRate,
	}
}

// Line exposes the underlying ring.
func (p *PingPong) Line() *Line {
	return p.line
}

// SampleRate returns the rate the engine converts delay times with.
func (p *PingPong) SampleRate() float64 {
	return p.sampleRate
}

// DelaySamples converts a delay time in seconds to a fractional sample
// offset.
func (p *PingPong) DelaySamples(seconds float64) float64 {
	return seconds * p.sampleRate
}

// Process runs one stereo frame with the delay given in seconds.
func (p *PingPong) Process(dryL, dryR float32, delaySeconds float64, feedback float32) (wetL, wetR float32, active bool) {
	return p.ProcessDelay(dryL, dryR, p.DelaySamples(delaySeconds), feedback)
}

// ProcessDelay runs one stereo frame with a delay of delaySamples.
//
// The delayed pair is read first, then written back cross-coupled:
//
//	L[w] = dryL + wetR*feedback
//	R[w] = dryR + wetL*feedback
//
// When the interpolation index lands on the write index (the delay rounds to
// zero samples) the frame is inert: no wet output, no write. The write index
// advances by one either way.
func (p *PingPong) ProcessDelay(dryL, dryR float32, delaySamples float64, feedback float32) (wetL, wetR float32, active bool) {
	l := p.line

	idx, frac := l.ReadPosition(delaySamples)
	if idx != l.writePos {
		wetL = l.Read(left, idx, frac)
		wetR = l.Read(right, idx, frac)

		l.Write(left, core.FlushDenormals(dryL+wetR*feedback))
		l.Write(right, core.FlushDenormals(dryR+wetL*feedback))
		active = true
	}

	l.Advance()

	return wetL, wetR, active
}

// Reset clears the ring.
func (p *PingPong) Reset() {
	p.line.Reset()
}
