// Package param holds the automatable parameters of the delay. Values live
// in atomic cells so a control goroutine can write them while the audio
// goroutine reads them once per block.
package param

import (
	"math"
	"strconv"
	"sync/atomic"
)

// ID identifies a parameter in the store and in saved state.
type ID string

// Parameter is one ranged or choice parameter. Plain values are stored as
// float32 bits; a choice parameter stores its index.
type Parameter struct {
	id      ID
	name    string
	min     float32
	max     float32
	def     float32
	choices []string

	bits atomic.Uint32
}

// NewRanged returns a continuous parameter over [min, max] set to def.
func NewRanged(id ID, name string, min, max, def float32) *Parameter {
	if min > max {
		min, max = max, min
	}

	p := &Parameter{id: id, name: name, min: min, max: max}
	p.def = p.clamp(def, min)
	p.bits.Store(math.Float32bits(p.def))

	return p
}

// NewChoice returns a parameter selecting one of choices, set to index def.
func NewChoice(id ID, name string, choices []string, def int) *Parameter {
	hi := float32(max(len(choices)-1, 0))

	p := &Parameter{id: id, name: name, min: 0, max: hi, choices: choices}
	p.def = p.clamp(float32(def), 0)
	p.bits.Store(math.Float32bits(p.def))

	return p
}

// ID returns the parameter identifier.
func (p *Parameter) ID() ID { return p.id }

// Name returns the display name.
func (p *Parameter) Name() string { return p.name }

// Range returns the plain value bounds.
func (p *Parameter) Range() (min, max float32) { return p.min, p.max }

// Default returns the default plain value.
func (p *Parameter) Default() float32 { return p.def }

// Choices returns the option labels of a choice parameter, nil otherwise.
func (p *Parameter) Choices() []string { return p.choices }

// IsChoice reports whether the parameter selects from a list.
func (p *Parameter) IsChoice() bool { return p.choices != nil }

// Value returns the plain value, clamped to range. A non-finite stored value
// reads as the default.
func (p *Parameter) Value() float32 {
	return p.clamp(math.Float32frombits(p.bits.Load()), p.def)
}

// Set stores a plain value. Choice parameters round to the nearest index.
func (p *Parameter) Set(v float32) {
	p.bits.Store(math.Float32bits(p.clamp(v, p.def)))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.bits.Store(math.Float32bits(p.def))
}

// Normalized returns the value mapped to [0, 1].
func (p *Parameter) Normalized() float32 {
	if p.max <= p.min {
		return 0
	}

	return (p.Value() - p.min) / (p.max - p.min)
}

// SetNormalized stores the plain value at position n in [0, 1].
func (p *Parameter) SetNormalized(n float32) {
	if math.IsNaN(float64(n)) {
		p.Reset()
		return
	}

	n = min(max(n, 0), 1)
	p.Set(p.min + n*(p.max-p.min))
}

// Index returns the selected choice index.
func (p *Parameter) Index() int {
	return int(p.Value())
}

// Text formats the current value for display.
func (p *Parameter) Text() string {
	if p.IsChoice() {
		i := p.Index()
		if i >= 0 && i < len(p.choices) {
			return p.choices[i]
		}
	}

	return strconv.FormatFloat(float64(p.Value()), 'f', 2, 32)
}

func (p *Parameter) clamp(v, fallback float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fallback
	}

	if p.choices != nil {
		v = float32(math.Round(float64(v)))
	}

	return min(max(v, p.min), p.max)
}
