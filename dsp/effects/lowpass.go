package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/filter/biquad"
	"github.com/cwbudde/algo-pingpong/dsp/filter/design"
)

const (
	// MinLowpassCutoff and MaxLowpassCutoff bound the cutoff in Hz.
	MinLowpassCutoff = 1000.0
	MaxLowpassCutoff = 20000.0

	// DefaultLowpassQ is the fixed damping used by the post-delay filter.
	DefaultLowpassQ = 0.8
)

// Lowpass is a per-channel second-order lowpass applied in place to a block.
// Coefficients are shared by all channels and change only through SetCutoff;
// each channel keeps its own state across blocks.
type Lowpass struct {
	q          float64
	sampleRate float64
	cutoff     float64
	sections   []biquad.Section
}

// NewLowpass returns an unprepared lowpass with damping q. A non-positive q
// selects DefaultLowpassQ.
func NewLowpass(q float64) *Lowpass {
	if !(q > 0) || math.IsInf(q, 0) {
		q = DefaultLowpassQ
	}

	return &Lowpass{q: q, cutoff: MaxLowpassCutoff}
}

// Prepare allocates per-channel state for cfg.Channels channels at
// cfg.SampleRate and designs the filter at the current cutoff.
func (f *Lowpass) Prepare(cfg core.ProcessorConfig) error {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("lowpass sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		return fmt.Errorf("lowpass channel count must be > 0: %d", cfg.Channels)
	}

	f.sampleRate = cfg.SampleRate
	f.sections = make([]biquad.Section, cfg.Channels)
	f.retune(f.cutoff)

	return nil
}

// SetCutoff clamps hz to [MinLowpassCutoff, MaxLowpassCutoff] and below
// Nyquist, and recomputes the coefficients if the result changed. It never
// allocates and keeps the running state.
func (f *Lowpass) SetCutoff(hz float64) {
	if math.IsNaN(hz) {
		hz = MaxLowpassCutoff
	}
	hz = math.Min(math.Max(hz, MinLowpassCutoff), MaxLowpassCutoff)

	if f.sampleRate > 0 {
		hz = math.Min(hz, design.MaxStableFrequency(f.sampleRate))
	}

	if hz == f.cutoff {
		return
	}

	f.retune(hz)
}

// Cutoff returns the effective cutoff in Hz.
func (f *Lowpass) Cutoff() float64 {
	return f.cutoff
}

// Q returns the damping factor.
func (f *Lowpass) Q() float64 {
	return f.q
}

// Coefficients returns the coefficients currently applied.
func (f *Lowpass) Coefficients() biquad.Coefficients {
	if len(f.sections) == 0 {
		return design.Lowpass(f.cutoff, f.q, f.sampleRate)
	}

	return f.sections[0].Coefficients()
}

// ProcessBlock filters every channel of b in place. Channels beyond the
// prepared count are left untouched.
func (f *Lowpass) ProcessBlock(b *buffer.Block) {
	n := min(b.NumChannels(), len(f.sections))
	for ch := range n {
		f.sections[ch].ProcessBlock(b.Channel(ch))
	}
}

// Reset clears the per-channel state.
func (f *Lowpass) Reset() {
	for i := range f.sections {
		f.sections[i].Reset()
	}
}

func (f *Lowpass) retune(hz float64) {
	f.cutoff = hz
	if f.sampleRate <= 0 {
		return
	}

	c := design.Lowpass(hz, f.q, f.sampleRate)
	for i := range f.sections {
		f.sections[i].SetCoefficients(c)
	}
}
