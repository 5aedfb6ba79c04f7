// Package level implements a block RMS meter with instant attack and a
// linear release, for driving level displays from the audio goroutine.
package level

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

type channelState struct {
	ramp  ramp
	level atomic.Uint32
	peak  atomic.Uint32
}

// Meter tracks a smoothed RMS level and the latest block peak per channel.
// Update must be called from a single goroutine; Level and Peak may be read
// from any goroutine.
type Meter struct {
	cfg      MeterConfig
	channels []channelState
}

// NewMeter returns a meter with every channel at the floor.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	m := &Meter{
		cfg:      cfg,
		channels: make([]channelState, cfg.Channels),
	}
	m.Reset()

	return m
}

// Config returns the meter configuration.
func (m *Meter) Config() MeterConfig {
	return m.cfg
}

// NumChannels returns the number of metered channels.
func (m *Meter) NumChannels() int {
	return len(m.channels)
}

// Reset drops every channel to the floor and clears the peaks.
func (m *Meter) Reset() {
	steps := int(math.Floor(m.cfg.ReleaseSeconds * m.cfg.SampleRate))

	for i := range m.channels {
		c := &m.channels[i]
		c.ramp.snap(m.cfg.FloorDB)
		c.ramp.setSteps(steps)
		c.level.Store(math.Float32bits(m.cfg.FloorDB))
		c.peak.Store(0)
	}
}

// Update meters one block of channel ch and returns the smoothed level in dB.
// The running release ramp is first advanced by len(samples). A reading
// below the current value then starts a new release towards it; anything
// else is taken immediately.
func (m *Meter) Update(ch int, samples []float32) float32 {
	if ch < 0 || ch >= len(m.channels) {
		return m.cfg.FloorDB
	}

	c := &m.channels[ch]
	c.ramp.skip(len(samples))

	rms, peak := blockStats(samples)
	db := m.toDecibels(rms)

	if db < c.ramp.current {
		c.ramp.setTarget(db)
	} else {
		c.ramp.snap(db)
	}

	c.level.Store(math.Float32bits(c.ramp.current))
	c.peak.Store(math.Float32bits(peak))

	return c.ramp.current
}

// Level returns the last published smoothed level of ch in dB.
func (m *Meter) Level(ch int) float32 {
	if ch < 0 || ch >= len(m.channels) {
		return m.cfg.FloorDB
	}

	return math.Float32frombits(m.channels[ch].level.Load())
}

// Peak returns the absolute peak of the last metered block of ch.
func (m *Meter) Peak(ch int) float32 {
	if ch < 0 || ch >= len(m.channels) {
		return 0
	}

	return math.Float32frombits(m.channels[ch].peak.Load())
}

// PeakDB returns Peak(ch) in dB, floored.
func (m *Meter) PeakDB(ch int) float32 {
	return m.toDecibels(m.Peak(ch))
}

func (m *Meter) toDecibels(gain float32) float32 {
	db := core.GainToDecibels(gain)
	if db < m.cfg.FloorDB {
		return m.cfg.FloorDB
	}

	return db
}

// RMS returns the root mean square of samples, 0 for an empty slice.
func RMS(samples []float32) float32 {
	rms, _ := blockStats(samples)
	return rms
}

func blockStats(samples []float32) (rms, peak float32) {
	if len(samples) == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range samples {
		x := float64(v)
		sum += x * x
		peak = max(peak, float32(math.Abs(x)))
	}

	return float32(math.Sqrt(sum / float64(len(samples)))), peak
}
