package script

import "fmt"

// Exception is an error thrown by sandboxed code.
type Exception struct {
	// Op names the bridge operation that threw ("construct", "call",
	// "get inputProperties", ...).
	Op string
	// Message is the stringified thrown value.
	Message string
	// Thrown is the raw thrown value, if the sandbox exposes one.
	Thrown Value
	// Cause is the engine-level error, if any.
	Cause error
}

func (e *Exception) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("script exception in %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("script exception: %s", e.Message)
}

func (e *Exception) Unwrap() error {
	return e.Cause
}
