package registry

import (
	"github.com/specialistvlad/paintworklet/internal/script"
	"github.com/specialistvlad/paintworklet/internal/units"
)

// RenderingContext is the bitmap a paint function draws into.
type RenderingContext interface {
	// SetBitmapDimensions resizes and resets the bitmap.
	SetBitmapDimensions(size units.Size) error
	// Pixels returns the bitmap's bytes (BGRA8) and dimensions.
	Pixels() (data []byte, width, height uint32)
}

// ContextFactory allocates the rendering context of a new definition.
type ContextFactory func(alpha bool) RenderingContext

// PaintDefinition is a registered paint class.
//
// The definition owns its script references and its rendering context for
// its whole lifetime; it is stored by pointer so neither moves while the
// sandbox holds them.
type PaintDefinition struct {
	name            string
	constructor     script.Value
	paintFunction   script.Value
	valid           bool
	inputProperties []string
	inputArguments  []string
	alpha           bool
	context         RenderingContext
	contextValue    script.Value
}

func (d *PaintDefinition) Name() string { return d.name }

// Constructor returns the class constructor.
func (d *PaintDefinition) Constructor() script.Value { return d.constructor }

// PaintFunction returns prototype.paint as read at registration.
func (d *PaintDefinition) PaintFunction() script.Value { return d.paintFunction }

// Valid reports whether the definition can still be drawn. It turns false
// once the constructor has thrown and never turns back.
func (d *PaintDefinition) Valid() bool { return d.valid }

// Invalidate permanently marks the definition as unusable.
func (d *PaintDefinition) Invalidate() { d.valid = false }

// InputProperties returns a copy of the declared input properties.
func (d *PaintDefinition) InputProperties() []string {
	return copyStrings(d.inputProperties)
}

// InputArguments returns a copy of the declared input arguments.
func (d *PaintDefinition) InputArguments() []string {
	return copyStrings(d.inputArguments)
}

// Alpha reports whether the definition paints with transparency.
func (d *PaintDefinition) Alpha() bool { return d.alpha }

// Context returns the rendering context reused across draws.
func (d *PaintDefinition) Context() RenderingContext { return d.context }

// ContextValue returns the rendering context as exposed to the sandbox.
func (d *PaintDefinition) ContextValue() script.Value { return d.contextValue }

// copyStrings copies s. An empty list stays non-nil.
func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
