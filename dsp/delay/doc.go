// Package delay provides the circular sample buffer and the stereo
// cross-feedback ("ping-pong") delay engine built on it.
//
// All modulo arithmetic lives in [Line]: the ring has one write index shared
// by every channel, advanced exactly once per processed frame, and a single
// read-position computation for fractional delays. [PingPong] reads before it
// writes on every frame, so a read never observes a value written later in
// the same frame.
package delay
