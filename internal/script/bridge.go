package script

// Value is an opaque reference to a value living inside the sandbox. Only
// the Bridge that produced a Value may interpret it.
type Value = any

// Bridge is the call boundary between trusted host code and a sandbox.
//
// A Bridge is not safe for concurrent use. Callers must serialise all
// access, and must wrap every sequence of calls in Enter/exit.
type Bridge interface {
	// Enter marks the start of a sandbox interaction. The returned func must
	// be called exactly once on every exit path.
	Enter() (exit func())

	// Construct invokes ctor as a constructor with no arguments.
	Construct(ctor Value) (Value, error)
	// Call invokes fn with the given receiver and arguments.
	Call(fn, this Value, args ...Value) (Value, error)
	// GetProperty reads a named property. Reading may run user code
	// (getters) and so may throw.
	GetProperty(obj Value, name string) (Value, error)

	IsUndefined(v Value) bool
	IsObject(v Value) bool
	IsCallable(v Value) bool
	IsConstructor(v Value) bool

	// ToStrings converts an iterable of strings.
	ToStrings(v Value) ([]string, error)
	// ToBool converts a value to a boolean.
	ToBool(v Value) (bool, error)

	// Wrap exposes a host object (a rendering context, a PaintSize) to the
	// sandbox.
	Wrap(host any) Value

	HasPendingException() bool
	ClearPendingException()
}

// PaintSize is the size descriptor handed to a paint callback.
type PaintSize struct {
	Width  uint32
	Height uint32
}
