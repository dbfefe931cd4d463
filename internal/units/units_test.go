package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizePixels(t *testing.T) {
	testCases := []struct {
		name  string
		size  Size
		wantW uint32
		wantH uint32
	}{
		{name: "whole pixels", size: SizeFromPx(2, 1), wantW: 2, wantH: 1},
		{name: "negative lengths use magnitude", size: SizeFromPx(-3, -4), wantW: 3, wantH: 4},
		{name: "fractional pixels truncate", size: Size{Width: 119, Height: 61}, wantW: 1, wantH: 1},
		{name: "negative fractional pixels truncate towards zero", size: Size{Width: -119, Height: -59}, wantW: 1, wantH: 0},
		{name: "zero", size: Size{}, wantW: 0, wantH: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := tc.size.Pixels()
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestFromFloatPx(t *testing.T) {
	assert.Equal(t, Au(90), FromFloatPx(1.5))
	assert.Equal(t, Au(-90), FromFloatPx(-1.5))
	assert.Equal(t, 1, FromFloatPx(1.5).ToPx())
}

func TestFromFloatPx_Saturates(t *testing.T) {
	assert.Equal(t, Au(0), FromFloatPx(math.NaN()))
	assert.Equal(t, Au(math.MaxInt32), FromFloatPx(1e9))
	assert.Equal(t, Au(math.MaxInt32), FromFloatPx(math.Inf(1)))
	assert.Equal(t, Au(math.MinInt32), FromFloatPx(-1e9))

	w, h := Size{Width: FromFloatPx(math.NaN()), Height: FromFloatPx(-1e9)}.Pixels()
	assert.Equal(t, uint32(0), w)
	assert.Equal(t, uint32(math.MaxInt32/AuPerPx), h)
}
