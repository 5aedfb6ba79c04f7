// Package dither converts float32 audio to integer PCM at a target bit
// depth, adding dither noise before rounding.
package dither

import "fmt"

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherRectangular uses a uniform (rectangular) PDF.
	DitherRectangular
	// DitherTriangular uses a triangular PDF (TPDF), the most common choice.
	DitherTriangular

	ditherTypeCount
)

var ditherTypeNames = [ditherTypeCount]string{"None", "Rectangular", "Triangular"}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseType maps a name as printed by String (case sensitive) or its
// lower-case form to a DitherType.
func ParseType(name string) (DitherType, error) {
	switch name {
	case "None", "none":
		return DitherNone, nil
	case "Rectangular", "rectangular":
		return DitherRectangular, nil
	case "Triangular", "triangular", "tpdf":
		return DitherTriangular, nil
	}
	return DitherNone, fmt.Errorf("dither: unknown type %q", name)
}
