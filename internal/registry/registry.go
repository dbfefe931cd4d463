package registry

import (
	"io"
	"sort"

	"github.com/specialistvlad/paintworklet/internal/script"
)

// Registry holds the paint definitions of a single worklet scope. It is not
// safe for concurrent use; the owning scope serialises access.
type Registry struct {
	bridge      script.Bridge
	newContext  ContextFactory
	definitions map[string]*PaintDefinition
}

// New creates an empty registry whose definitions are validated through
// bridge and draw into contexts allocated by newContext.
func New(bridge script.Bridge, newContext ContextFactory) *Registry {
	return &Registry{
		bridge:      bridge,
		newContext:  newContext,
		definitions: make(map[string]*PaintDefinition),
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*PaintDefinition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.definitions)
}

// Close releases every definition's rendering context that holds
// resources. The registry must not be used afterwards.
func (r *Registry) Close() error {
	var firstErr error
	for _, def := range r.definitions {
		if c, ok := def.context.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	r.definitions = nil
	return firstErr
}
