// Package effects provides the stateless and per-channel stages applied
// around the ping-pong delay:
//
//   - HardClip: symmetric hard-clip waveshaper for the delayed-minus-dry
//     difference signal.
//   - Lowpass: per-channel second-order lowpass with block-rate retuning.
//
// The delay engine itself lives in dsp/delay and the full block routine in
// dsp/effects/pingpong.
package effects
