// Package pingpong is the block processor of the stereo ping-pong delay. It
// reads the parameter store once per block and runs input gain, the
// cross-feedback delay with inline clipping and mix, the lowpass, output
// gain and metering, in that order.
package pingpong

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/delay"
	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/dsp/gain"
	"github.com/cwbudde/algo-pingpong/measure/level"
	"github.com/cwbudde/algo-pingpong/plugin/param"
)

const (
	maxDelaySeconds = param.MaxDelaySeconds
	maxTailSeconds  = 600.0

	// tailFloor is the echo amplitude considered silent (-100 dB).
	tailFloor = 1e-5
)

var (
	ErrInvalidSampleRate = errors.New("pingpong: invalid sample rate")
	ErrInvalidBlockSize  = errors.New("pingpong: invalid block size")
	ErrUnsupportedLayout = errors.New("pingpong: unsupported channel layout")
)

// Processor runs the delay on blocks of stereo audio. Prepare, Reset,
// Release and ProcessBlock must be called from the audio goroutine (or while
// it is stopped). Level, Peak and the parameter store may be used from any
// goroutine.
type Processor struct {
	cfg   config
	store *param.Store
	log   *slog.Logger

	sampleRate float64
	maxBlock   int
	layout     Layout
	prepared   bool

	engine        *delay.PingPong
	lowpass       *effects.Lowpass
	lowpassActive bool
	inGain        gain.Smoother
	outGain       gain.Smoother

	meter atomic.Pointer[level.Meter]
}

// New returns an unprepared processor reading its parameters from store. A
// nil store gets a fresh one with defaults.
func New(store *param.Store, opts ...Option) *Processor {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if store == nil {
		store = param.NewStore()
	}

	return &Processor{
		cfg:   cfg,
		store: store,
		log:   cfg.logger,
	}
}

// Store returns the parameter store the processor reads.
func (p *Processor) Store() *param.Store {
	return p.store
}

// Prepare allocates every buffer for sampleRate and blocks of up to
// maxBlockSize frames. It may be called again to change the configuration;
// all state is cleared.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int, layout Layout) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("prepare at %g Hz: %w", sampleRate, ErrInvalidSampleRate)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("prepare with %d frames: %w", maxBlockSize, ErrInvalidBlockSize)
	}

	if !SupportsLayout(layout) {
		return fmt.Errorf("prepare %s: %w", layout, ErrUnsupportedLayout)
	}

	lp := effects.NewLowpass(p.cfg.lowpassQ)

	err := lp.Prepare(core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(maxBlockSize),
		core.WithChannels(layout.Outputs),
	))
	if err != nil {
		return fmt.Errorf("prepare lowpass: %w", err)
	}

	p.sampleRate = sampleRate
	p.maxBlock = maxBlockSize
	p.layout = layout
	p.engine = delay.NewPingPong(p.cfg.maxDelay, sampleRate)
	p.lowpass = lp
	p.meter.Store(level.NewMeter(
		level.WithSampleRate(sampleRate),
		level.WithChannels(layout.Outputs),
		level.WithRelease(p.cfg.meterRelease),
	))
	p.prepared = true
	p.resetState()

	p.log.Info("pingpong prepared",
		slog.Float64("sample_rate", sampleRate),
		slog.Int("max_block", maxBlockSize),
		slog.String("layout", layout.String()),
		slog.Int("ring_len", p.engine.Line().Len()),
		slog.Bool("lowpass_bypass", p.cfg.lowpassBypass),
	)

	return nil
}

// Prepared reports whether Prepare succeeded and Release has not been called
// since.
func (p *Processor) Prepared() bool {
	return p.prepared
}

// Reset clears the delay ring, filter and meters without allocating.
func (p *Processor) Reset() {
	if !p.prepared {
		return
	}

	p.resetState()
	p.log.Debug("pingpong reset")
}

// Release drops all buffers. The processor must be prepared again before it
// processes audio.
func (p *Processor) Release() {
	if !p.prepared {
		return
	}

	p.prepared = false
	p.engine = nil
	p.lowpass = nil
	p.meter.Store(nil)
	p.log.Info("pingpong released")
}

func (p *Processor) resetState() {
	snap := p.store.Snapshot()

	p.engine.Reset()
	p.lowpass.Reset()
	p.lowpassActive = true
	p.lowpass.SetCutoff(p.effectiveCutoff(snap))
	p.inGain.Reset(snap.InGain)
	p.outGain.Reset(snap.OutGain)

	if m := p.meter.Load(); m != nil {
		m.Reset()
	}
}

// SampleRate returns the prepared sample rate, 0 before Prepare.
func (p *Processor) SampleRate() float64 {
	if !p.prepared {
		return 0
	}

	return p.sampleRate
}

// Layout returns the prepared layout.
func (p *Processor) Layout() Layout {
	return p.layout
}

// Latency returns the processing latency in samples.
func (p *Processor) Latency() int {
	return 0
}

// TailSeconds returns how long echoes keep sounding after the input stops,
// until they fall below -100 dB at the current delay time and feedback.
func (p *Processor) TailSeconds() float64 {
	snap := p.store.Snapshot()
	return TailSeconds(float64(snap.DelayTime), float64(snap.Feedback))
}

// TailSeconds returns the echo tail of a delay of delaySeconds with the given
// feedback, capped at ten minutes.
func TailSeconds(delaySeconds, feedback float64) float64 {
	if !(delaySeconds > 0) {
		return 0
	}

	if !(feedback > 0) {
		return delaySeconds
	}

	if feedback >= 1 {
		return maxTailSeconds
	}

	repeats := math.Ceil(math.Log(tailFloor) / math.Log(feedback))

	return math.Min(delaySeconds*repeats, maxTailSeconds)
}

// Level returns the smoothed RMS level of output channel ch in dB.
func (p *Processor) Level(ch int) float32 {
	m := p.meter.Load()
	if m == nil {
		return core.MinDecibels
	}

	return m.Level(ch)
}

// Peak returns the absolute peak of output channel ch in the last block.
func (p *Processor) Peak(ch int) float32 {
	m := p.meter.Load()
	if m == nil {
		return 0
	}

	return m.Peak(ch)
}

// ProcessBlock processes b in place. b must carry the prepared output
// channel count and no more than the prepared block size; anything else is
// left untouched. With a mono input layout channel 0 is the input and is
// copied to channel 1 first.
func (p *Processor) ProcessBlock(b *buffer.Block) {
	if !p.prepared || b == nil {
		return
	}

	n := b.Len()
	if b.NumChannels() != p.layout.Outputs || n > p.maxBlock || n == 0 {
		return
	}

	if p.layout.Inputs == 1 {
		b.CopyChannel(1, 0)
	}

	snap := p.store.Snapshot()

	p.inGain.Apply(b, snap.InGain)
	p.processDelay(b.Channel(0), b.Channel(1), snap)
	p.processLowpass(b, snap)
	p.outGain.Apply(b, snap.OutGain)

	if m := p.meter.Load(); m != nil {
		m.Update(0, b.Channel(0))
		m.Update(1, b.Channel(1))
	}
}

func (p *Processor) processDelay(l, r []float32, snap param.Snapshot) {
	d := p.engine.DelaySamples(float64(snap.DelayTime))
	fb := snap.Feedback
	mix := snap.Mix

	// A threshold below the clip minimum makes HardClip the identity.
	var threshold float32
	if snap.Mode.HasDistortion() {
		threshold = snap.Threshold
	}

	for i := range l {
		dryL, dryR := l[i], r[i]

		wetL, wetR, active := p.engine.ProcessDelay(dryL, dryR, d, fb)
		if !active {
			continue
		}

		l[i] = dryL + mix*effects.HardClipDifference(wetL, dryL, threshold)
		r[i] = dryR + mix*effects.HardClipDifference(wetR, dryR, threshold)
	}
}

func (p *Processor) processLowpass(b *buffer.Block, snap param.Snapshot) {
	if !snap.Mode.HasLowpass() && p.cfg.lowpassBypass {
		if p.lowpassActive {
			p.lowpass.Reset()
			p.lowpassActive = false
		}

		return
	}

	p.lowpassActive = true
	p.lowpass.SetCutoff(p.effectiveCutoff(snap))
	p.lowpass.ProcessBlock(b)
}

func (p *Processor) effectiveCutoff(snap param.Snapshot) float64 {
	if snap.Mode.HasLowpass() {
		return float64(snap.Cutoff)
	}

	return effects.MaxLowpassCutoff
}
