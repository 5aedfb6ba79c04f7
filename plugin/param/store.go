package param

import (
	"errors"
	"fmt"
)

// Parameter identifiers as used by hosts and saved state.
const (
	InGain          ID = "inGain"
	DelayTime       ID = "delayTime"
	Mix             ID = "mix"
	Feedback        ID = "feedback"
	PostDelayOption ID = "post_delay_option"
	Distortion      ID = "distortion"
	Lowpass         ID = "lowpass"
	OutGain         ID = "outGain"
)

// MaxDelaySeconds is the upper bound of DelayTime.
const MaxDelaySeconds = 4

// ErrUnknownParameter is returned for an id the store does not hold.
var ErrUnknownParameter = errors.New("param: unknown parameter")

// Snapshot is a consistent-per-field copy of every parameter, taken once per
// block.
type Snapshot struct {
	InGain    float32
	DelayTime float32
	Mix       float32
	Feedback  float32
	Mode      PostEffect
	Threshold float32
	Cutoff    float32
	OutGain   float32
}

// Store owns the fixed parameter set of the delay.
type Store struct {
	params []*Parameter
	byID   map[ID]*Parameter

	inGain, delayTime, mix, feedback *Parameter
	mode, threshold, cutoff, outGain *Parameter
}

// NewStore returns a store with every parameter at its default.
func NewStore() *Store {
	s := &Store{
		inGain:    NewRanged(InGain, "Input Gain", 0, 2, 1),
		delayTime: NewRanged(DelayTime, "Delay Time", 0, MaxDelaySeconds, 2),
		mix:       NewRanged(Mix, "Mix", 0, 1, 0.5),
		feedback:  NewRanged(Feedback, "Feedback", 0, 0.9, 0.5),
		mode:      NewChoice(PostDelayOption, "Delay Options", postEffectNames, int(PostNone)),
		threshold: NewRanged(Distortion, "Distortion", 0.01, 1, 0.5),
		cutoff:    NewRanged(Lowpass, "Low Pass", 1000, 20000, 5000),
		outGain:   NewRanged(OutGain, "Output Gain", 0, 2, 1),
	}

	s.params = []*Parameter{
		s.inGain, s.delayTime, s.mix, s.feedback,
		s.mode, s.threshold, s.cutoff, s.outGain,
	}

	s.byID = make(map[ID]*Parameter, len(s.params))
	for _, p := range s.params {
		s.byID[p.ID()] = p
	}

	return s
}

// Params returns the parameters in declaration order.
func (s *Store) Params() []*Parameter {
	return s.params
}

// Get looks up a parameter by id.
func (s *Store) Get(id ID) (*Parameter, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Set writes a plain value by id.
func (s *Store) Set(id ID, v float32) error {
	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("set %q: %w", id, ErrUnknownParameter)
	}

	p.Set(v)

	return nil
}

// SetMode selects the post-delay stages.
func (s *Store) SetMode(m PostEffect) {
	s.mode.Set(float32(m))
}

// Mode returns the selected post-delay stages.
func (s *Store) Mode() PostEffect {
	return PostEffectFromIndex(s.mode.Index())
}

// ResetDefaults restores every parameter.
func (s *Store) ResetDefaults() {
	for _, p := range s.params {
		p.Reset()
	}
}

// Snapshot loads every parameter once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		InGain:    s.inGain.Value(),
		DelayTime: s.delayTime.Value(),
		Mix:       s.mix.Value(),
		Feedback:  s.feedback.Value(),
		Mode:      s.Mode(),
		Threshold: s.threshold.Value(),
		Cutoff:    s.cutoff.Value(),
		OutGain:   s.outGain.Value(),
	}
}
