package renderctx

import "github.com/gogpu/gg"

// Gradient is a canvas gradient usable as a fill or stroke style.
type Gradient struct {
	brush gg.Brush
	addFn func(offset float64, col gg.RGBA)
}

// NewLinearGradient creates a gradient along the line (x0,y0)-(x1,y1).
func NewLinearGradient(x0, y0, x1, y1 float64) *Gradient {
	b := gg.NewLinearGradientBrush(x0, y0, x1, y1)
	return &Gradient{
		brush: b,
		addFn: func(offset float64, col gg.RGBA) { b.AddColorStop(offset, col) },
	}
}

// NewRadialGradient creates a gradient between two circles. The renderer
// only supports concentric gradients, so the end circle's centre is used.
func NewRadialGradient(x0, y0, r0, x1, y1, r1 float64) *Gradient {
	b := gg.NewRadialGradientBrush(x1, y1, r0, r1)
	return &Gradient{
		brush: b,
		addFn: func(offset float64, col gg.RGBA) { b.AddColorStop(offset, col) },
	}
}

// AddColorStop adds a stop. Offsets outside [0, 1] and unparseable colours
// are ignored.
func (g *Gradient) AddColorStop(offset float64, css string) bool {
	if offset < 0 || offset > 1 {
		return false
	}
	col, ok := ParseColor(css)
	if !ok {
		return false
	}
	g.addFn(offset, col)
	return true
}
