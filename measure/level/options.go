package level

import (
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// DefaultReleaseSeconds is the time the displayed level takes to fall to a
// lower reading.
const DefaultReleaseSeconds = 0.5

// MeterConfig defines configuration for the level meter.
type MeterConfig struct {
	core.ProcessorConfig
	ReleaseSeconds float64
	FloorDB        float32
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns stereo metering at the default rate with a half
// second release and a -100 dB floor.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{
		ProcessorConfig: core.DefaultProcessorConfig(),
		ReleaseSeconds:  DefaultReleaseSeconds,
		FloorDB:         core.MinDecibels,
	}
}

// WithSampleRate sets the rate the release ramp is counted in.
func WithSampleRate(sampleRate float64) MeterOption {
	return func(cfg *MeterConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChannels sets the number of metered channels.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithRelease sets the release ramp length in seconds. Zero makes the meter
// follow every block directly.
func WithRelease(seconds float64) MeterOption {
	return func(cfg *MeterConfig) {
		if seconds >= 0 && !math.IsInf(seconds, 0) {
			cfg.ReleaseSeconds = seconds
		}
	}
}

// WithFloor sets the lowest reported level in dB.
func WithFloor(db float32) MeterOption {
	return func(cfg *MeterConfig) {
		if db < 0 {
			cfg.FloorDB = db
		}
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
