// Package buffer provides the planar multi-channel float32 block that the
// processors in this module operate on.
//
// A Block owns one backing slice per channel, allocated once with a fixed
// capacity. Changing the active length with SetLen never allocates, so a
// host can prepare one block per stream and reuse it from the audio
// callback. Interleave and Deinterleave bridge to interleaved device and
// file formats.
package buffer
