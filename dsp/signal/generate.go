// Package signal generates float32 test material for the delay: tones,
// decaying bursts and click trains.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator at the configured sample rate.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz float64, amplitude float32, samples int) ([]float32, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float32, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * float32(math.Sin(step*float64(i)))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float32, samples int) ([]float32, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float32, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out, nil
}

// Burst writes a sine burst into dst starting at offset. The envelope decays
// exponentially to about -43 dB over length samples. Samples past the end of
// dst are dropped.
func (g *Generator) Burst(dst []float32, offset, length int, freqHz float64, amplitude float32) {
	if length <= 0 {
		return
	}
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := 0; i < length && offset+i < len(dst); i++ {
		if offset+i < 0 {
			continue
		}
		env := math.Exp(-5 * float64(i) / float64(length))
		dst[offset+i] += amplitude * float32(env*math.Sin(step*float64(i)))
	}
}

// BurstTrain returns seconds of audio with a burst at every period,
// leaving the second half silent so echoes can be heard on their own.
func (g *Generator) BurstTrain(seconds, period, burstSeconds, freqHz float64, amplitude float32) ([]float32, error) {
	if !(seconds > 0) || !(period > 0) || !(burstSeconds > 0) {
		return nil, fmt.Errorf("burst train needs positive durations: %g/%g/%g", seconds, period, burstSeconds)
	}

	frames := int(seconds * g.cfg.SampleRate)
	step := int(period * g.cfg.SampleRate)
	burst := int(burstSeconds * g.cfg.SampleRate)
	out := make([]float32, frames)

	for start := 0; start < frames/2; start += max(step, 1) {
		g.Burst(out, start, burst, freqHz, amplitude)
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float32, targetPeak float32) ([]float32, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	var maxAbs float32
	for _, v := range data {
		maxAbs = max(maxAbs, float32(math.Abs(float64(v))))
	}

	out := make([]float32, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
