package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Model is the unified, format-agnostic representation of a project: the
// worklet scopes to create and the draws to perform in them.
type Model struct {
	Worklets map[string]*Worklet
	Draws    []*Draw
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Worklets: make(map[string]*Worklet)}
}

// Worklet is the format-agnostic representation of a `worklet` block.
type Worklet struct {
	Name string
	// Scripts are the worklet module paths, resolved against the
	// directory of the file that declared them.
	Scripts []string
	// ScriptTimeout bounds each constructor and paint call; zero means no
	// limit.
	ScriptTimeout time.Duration
	// QueueSize is the number of draws that may wait for the scope; zero
	// means the default.
	QueueSize int
}

// Draw is the format-agnostic representation of a `draw` block.
type Draw struct {
	Worklet string
	Paint   string
	// Width and Height are in CSS pixels. They may be fractional or
	// negative.
	Width  float64
	Height float64
	// Output is a file name (relative to the output directory), an
	// absolute path or an http(s) URL. Empty means a default file name.
	Output string
}

// ID returns "worklet/paint".
func (d *Draw) ID() string {
	return d.Worklet + "/" + d.Paint
}

// AddWorklet adds w, rejecting duplicate names.
func (m *Model) AddWorklet(w *Worklet) error {
	if w.Name == "" {
		return errors.New("worklet name must not be empty")
	}
	if _, exists := m.Worklets[w.Name]; exists {
		return fmt.Errorf("worklet %q is declared more than once", w.Name)
	}
	m.Worklets[w.Name] = w
	return nil
}

// WorkletNames returns the worklet names in sorted order.
func (m *Model) WorkletNames() []string {
	names := make([]string, 0, len(m.Worklets))
	for name := range m.Worklets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxDimension bounds a draw's width and height, in pixels, in either
// direction.
const MaxDimension = 1 << 14

// CheckDimension rejects a width or height that is not finite or lies
// outside ±MaxDimension.
func CheckDimension(name string, px float64) error {
	if !(px >= -MaxDimension && px <= MaxDimension) {
		return fmt.Errorf("%s %g is out of range (limit %d px)", name, px, MaxDimension)
	}
	return nil
}

// Validate checks cross references between blocks and draw dimensions.
func (m *Model) Validate() error {
	var errs []error
	for _, name := range m.WorkletNames() {
		if len(m.Worklets[name].Scripts) == 0 {
			errs = append(errs, fmt.Errorf("worklet %q has no scripts", name))
		}
	}
	for _, d := range m.Draws {
		if _, ok := m.Worklets[d.Worklet]; !ok {
			errs = append(errs, fmt.Errorf("draw %s: unknown worklet %q", d.ID(), d.Worklet))
		}
		if d.Paint == "" {
			errs = append(errs, fmt.Errorf("draw in worklet %q has no paint name", d.Worklet))
		}
		if err := CheckDimension("width", d.Width); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", d.ID(), err))
		}
		if err := CheckDimension("height", d.Height); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", d.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// ParseTimeout parses a duration attribute. Empty means zero.
func ParseTimeout(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid script_timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid script_timeout %q: must not be negative", s)
	}
	return d, nil
}

// ResolvePaths makes each relative path relative to baseDir.
func ResolvePaths(baseDir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(baseDir, p)
		}
	}
	return out
}
