// Package interp provides the fractional-read primitive used by the delay
// line: 2-point linear interpolation between adjacent stored samples.
package interp
