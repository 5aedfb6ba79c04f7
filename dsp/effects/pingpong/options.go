package pingpong

import (
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/measure/level"
)

type config struct {
	logger        *slog.Logger
	lowpassBypass bool
	lowpassQ      float64
	meterRelease  float64
	maxDelay      float64
}

func defaultConfig() config {
	return config{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		lowpassQ:     effects.DefaultLowpassQ,
		meterRelease: level.DefaultReleaseSeconds,
		maxDelay:     maxDelaySeconds,
	}
}

// Option configures a Processor.
type Option func(*config)

// WithLogger routes setup and teardown messages to l. The audio path never
// logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLowpassBypass skips the lowpass stage entirely when the selected mode
// does not include it, instead of running it wide open. The filter state is
// cleared on bypass so re-enabling starts clean.
func WithLowpassBypass(bypass bool) Option {
	return func(c *config) {
		c.lowpassBypass = bypass
	}
}

// WithLowpassQ overrides the lowpass damping factor.
func WithLowpassQ(q float64) Option {
	return func(c *config) {
		if q > 0 && !math.IsInf(q, 0) {
			c.lowpassQ = q
		}
	}
}

// WithMeterRelease sets the level meter release time in seconds.
func WithMeterRelease(seconds float64) Option {
	return func(c *config) {
		if seconds >= 0 && !math.IsInf(seconds, 0) {
			c.meterRelease = seconds
		}
	}
}

// WithMaxDelay sizes the delay ring for delays up to seconds. Longer delay
// times are clamped to the ring.
func WithMaxDelay(seconds float64) Option {
	return func(c *config) {
		if seconds >= 0 && !math.IsInf(seconds, 0) {
			c.maxDelay = seconds
		}
	}
}
