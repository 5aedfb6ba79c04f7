package response

import (
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

const (
	defaultLength    = 1 << 14
	defaultThreshold = 1e-3
)

// Config controls impulse rendering and tap detection.
type Config struct {
	core.ProcessorConfig

	// Length is the number of frames rendered per impulse response.
	Length int

	// Threshold is the smallest absolute sample reported as an echo tap.
	Threshold float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default analysis config.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Length:          defaultLength,
		Threshold:       defaultThreshold,
	}
}

// WithSampleRate sets the rate used to convert indices to time and frequency.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the block size impulses are rendered with.
func WithBlockSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.BlockSize = n
		}
	}
}

// WithLength sets the rendered length in frames.
func WithLength(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Length = n
		}
	}
}

// WithThreshold sets the tap detection threshold (linear).
func WithThreshold(t float64) Option {
	return func(cfg *Config) {
		if t > 0 && !math.IsInf(t, 0) {
			cfg.Threshold = t
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
