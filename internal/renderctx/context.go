package renderctx

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/specialistvlad/paintworklet/internal/units"
)

// Context is a paint rendering context. One Context is owned by each paint
// definition and reused across its draws; it is not safe for concurrent use.
type Context struct {
	alpha bool

	dc     *gg.Context
	width  int
	height int

	fill      gg.Brush
	stroke    gg.Brush
	lineWidth float64
	saved     []style
}

// style is the part of the drawing state covered by save/restore.
type style struct {
	fill      gg.Brush
	stroke    gg.Brush
	lineWidth float64
}

// New creates a context with an empty bitmap. When alpha is false every
// draw starts from an opaque black backdrop.
func New(alpha bool) *Context {
	c := &Context{alpha: alpha}
	c.resetStyle()
	return c
}

// Alpha reports whether the bitmap carries transparency.
func (c *Context) Alpha() bool {
	return c.alpha
}

// SetBitmapDimensions resizes the bitmap to size and resets all drawing
// state. A zero dimension leaves the context with an empty bitmap on which
// drawing operations are no-ops.
func (c *Context) SetBitmapDimensions(size units.Size) error {
	w, h := size.Pixels()
	c.width, c.height = int(w), int(h)

	if c.width == 0 || c.height == 0 {
		c.release()
		c.resetStyle()
		return nil
	}

	if c.dc == nil {
		c.dc = gg.NewContext(c.width, c.height)
	} else {
		for range c.saved {
			c.dc.Pop()
		}
		if err := c.dc.Resize(c.width, c.height); err != nil {
			return err
		}
	}
	c.resetStyle()
	c.dc.Identity()
	c.dc.ClearPath()
	if c.alpha {
		c.dc.Clear()
	} else {
		c.dc.ClearWithColor(gg.Black)
	}
	return nil
}

// Width returns the current bitmap width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the current bitmap height in pixels.
func (c *Context) Height() int { return c.height }

// Pixels returns a copy of the bitmap in BGRA byte order.
func (c *Context) Pixels() (data []byte, width, height uint32) {
	if c.dc == nil {
		return nil, uint32(c.width), uint32(c.height)
	}
	_ = c.dc.FlushGPU()
	src := c.dc.ResizeTarget().Data()
	data = make([]byte, len(src))
	for i := 0; i+3 < len(src); i += 4 {
		data[i+0] = src[i+2]
		data[i+1] = src[i+1]
		data[i+2] = src[i+0]
		data[i+3] = src[i+3]
	}
	return data, uint32(c.width), uint32(c.height)
}

// Close releases the underlying drawing context.
func (c *Context) Close() error {
	c.release()
	return nil
}

func (c *Context) release() {
	if c.dc != nil {
		_ = c.dc.Close()
		c.dc = nil
	}
	c.saved = nil
}

func (c *Context) resetStyle() {
	c.fill = gg.Solid(gg.Black)
	c.stroke = gg.Solid(gg.Black)
	c.lineWidth = 1
	c.saved = c.saved[:0]
}

// SetFillColor parses a CSS colour and uses it for fills. Unparseable
// values are ignored, as a canvas would.
func (c *Context) SetFillColor(css string) {
	if col, ok := ParseColor(css); ok {
		c.fill = gg.Solid(col)
	}
}

// SetStrokeColor parses a CSS colour and uses it for strokes.
func (c *Context) SetStrokeColor(css string) {
	if col, ok := ParseColor(css); ok {
		c.stroke = gg.Solid(col)
	}
}

// SetFillGradient uses g for fills.
func (c *Context) SetFillGradient(g *Gradient) {
	if g != nil {
		c.fill = g.brush
	}
}

// SetStrokeGradient uses g for strokes.
func (c *Context) SetStrokeGradient(g *Gradient) {
	if g != nil {
		c.stroke = g.brush
	}
}

// SetLineWidth sets the stroke width. Non-positive and non-finite values
// are ignored.
func (c *Context) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
		c.lineWidth = w
	}
}

// LineWidth returns the stroke width.
func (c *Context) LineWidth() float64 { return c.lineWidth }

// Save pushes the transform and style.
func (c *Context) Save() {
	c.saved = append(c.saved, style{fill: c.fill, stroke: c.stroke, lineWidth: c.lineWidth})
	if c.dc != nil {
		c.dc.Push()
	}
}

// Restore pops the state pushed by the last Save. It is a no-op when
// nothing was saved.
func (c *Context) Restore() {
	n := len(c.saved)
	if n == 0 {
		return
	}
	s := c.saved[n-1]
	c.saved = c.saved[:n-1]
	c.fill, c.stroke, c.lineWidth = s.fill, s.stroke, s.lineWidth
	if c.dc != nil {
		c.dc.Pop()
	}
}

func (c *Context) Translate(x, y float64) {
	if c.dc != nil {
		c.dc.Translate(x, y)
	}
}

func (c *Context) Scale(x, y float64) {
	if c.dc != nil {
		c.dc.Scale(x, y)
	}
}

func (c *Context) Rotate(angle float64) {
	if c.dc != nil {
		c.dc.Rotate(angle)
	}
}

// FillRect fills a rectangle. The current path is discarded.
func (c *Context) FillRect(x, y, w, h float64) error {
	if c.dc == nil {
		return nil
	}
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	return c.Fill()
}

// StrokeRect strokes a rectangle. The current path is discarded.
func (c *Context) StrokeRect(x, y, w, h float64) error {
	if c.dc == nil {
		return nil
	}
	c.dc.ClearPath()
	c.dc.DrawRectangle(x, y, w, h)
	return c.Stroke()
}

// ClearRect sets every pixel of the rectangle to transparent black, or to
// opaque black for contexts without alpha.
func (c *Context) ClearRect(x, y, w, h float64) {
	if c.dc == nil {
		return
	}
	bg := gg.Transparent
	if !c.alpha {
		bg = gg.Black
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	for py := max(y0, 0); py < min(y1, c.height); py++ {
		for px := max(x0, 0); px < min(x1, c.width); px++ {
			c.dc.SetPixel(px, py, bg)
		}
	}
}

func (c *Context) BeginPath() {
	if c.dc != nil {
		c.dc.ClearPath()
	}
}

func (c *Context) MoveTo(x, y float64) {
	if c.dc != nil {
		c.dc.MoveTo(x, y)
	}
}

func (c *Context) LineTo(x, y float64) {
	if c.dc != nil {
		c.dc.LineTo(x, y)
	}
}

func (c *Context) QuadraticCurveTo(cx, cy, x, y float64) {
	if c.dc != nil {
		c.dc.QuadraticTo(cx, cy, x, y)
	}
}

func (c *Context) BezierCurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if c.dc != nil {
		c.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
	}
}

// Arc adds a circular arc. A counter-clockwise arc is drawn by swapping the
// angles.
func (c *Context) Arc(x, y, r, start, end float64, ccw bool) {
	if c.dc == nil || r < 0 {
		return
	}
	if ccw {
		start, end = end, start
	}
	c.dc.DrawArc(x, y, r, start, end)
}

func (c *Context) Rect(x, y, w, h float64) {
	if c.dc != nil {
		c.dc.DrawRectangle(x, y, w, h)
	}
}

func (c *Context) ClosePath() {
	if c.dc != nil {
		c.dc.ClosePath()
	}
}

// Fill fills the current path with the fill style.
func (c *Context) Fill() error {
	if c.dc == nil {
		return nil
	}
	c.dc.SetFillBrush(c.fill)
	return c.dc.Fill()
}

// Stroke strokes the current path with the stroke style.
func (c *Context) Stroke() error {
	if c.dc == nil {
		return nil
	}
	c.dc.SetStrokeBrush(c.stroke)
	c.dc.SetLineWidth(c.lineWidth)
	return c.dc.Stroke()
}
