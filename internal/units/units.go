// Package units provides the fixed-point length type used by the host
// pipeline to describe paint image sizes.
package units

import (
	"fmt"
	"math"
)

// AuPerPx is the number of Au in one CSS pixel.
const AuPerPx = 60

// Au is a signed fixed-point length, 1/60th of a pixel.
type Au int32

// FromPx converts a whole pixel count to Au.
func FromPx(px int) Au {
	return Au(px * AuPerPx)
}

// FromFloatPx converts a fractional pixel length to Au, rounding to the
// nearest unit. Lengths outside the Au range saturate; NaN is zero.
func FromFloatPx(px float64) Au {
	au := math.Round(px * AuPerPx)
	switch {
	case math.IsNaN(au):
		return 0
	case au >= math.MaxInt32:
		return math.MaxInt32
	case au <= math.MinInt32:
		return math.MinInt32
	}
	return Au(au)
}

// ToPx truncates the length towards zero to whole pixels.
func (a Au) ToPx() int {
	return int(a) / AuPerPx
}

func (a Au) String() string {
	return fmt.Sprintf("%gpx", float64(a)/AuPerPx)
}

// Size is a two dimensional size in Au. Either component may be negative.
type Size struct {
	Width  Au
	Height Au
}

// SizeFromPx builds a Size from whole pixel dimensions.
func SizeFromPx(width, height int) Size {
	return Size{Width: FromPx(width), Height: FromPx(height)}
}

// Pixels returns the absolute pixel dimensions of the size.
func (s Size) Pixels() (width, height uint32) {
	return uint32(abs(s.Width.ToPx())), uint32(abs(s.Height.ToPx()))
}

func (s Size) String() string {
	return fmt.Sprintf("%sx%s", s.Width, s.Height)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
