package script

// Error is a host error to be thrown into the sandbox as an error object of
// the named class, such as "TypeError".
type Error struct {
	Name    string
	Message string
}

func (e *Error) Error() string {
	return e.Name + ": " + e.Message
}

// Func is a host function exposed to the sandbox. A returned error is
// thrown into the calling script.
type Func func(args []Value) (Value, error)
