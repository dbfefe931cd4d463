package testutil

import (
	"github.com/specialistvlad/paintworklet/internal/registry"
	"github.com/specialistvlad/paintworklet/internal/units"
)

// FakeContext is a rendering context that records its resizes and reports
// a solid bitmap filled with Fill.
type FakeContext struct {
	Alpha  bool
	Sizes  []units.Size
	Fill   [4]byte
	Closed bool

	width, height uint32
}

// SetBitmapDimensions records size.
func (c *FakeContext) SetBitmapDimensions(size units.Size) error {
	c.Sizes = append(c.Sizes, size)
	c.width, c.height = size.Pixels()
	return nil
}

// Pixels returns width*height copies of Fill.
func (c *FakeContext) Pixels() ([]byte, uint32, uint32) {
	data := make([]byte, 0, int(c.width)*int(c.height)*4)
	for i := 0; i < int(c.width)*int(c.height); i++ {
		data = append(data, c.Fill[:]...)
	}
	return data, c.width, c.height
}

// Close marks the context closed.
func (c *FakeContext) Close() error {
	c.Closed = true
	return nil
}

// FakeContexts is a registry.ContextFactory that remembers what it made.
type FakeContexts struct {
	Made []*FakeContext
}

// New allocates a FakeContext with a green fill.
func (f *FakeContexts) New(alpha bool) registry.RenderingContext {
	c := &FakeContext{Alpha: alpha, Fill: [4]byte{0x00, 0xFF, 0x00, 0xFF}}
	f.Made = append(f.Made, c)
	return c
}
