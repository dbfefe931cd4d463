package registry

import "fmt"

// ErrorKind identifies why a registration was rejected.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindEmptyName indicates an empty paint name.
	KindEmptyName
	// KindAlreadyRegistered indicates a duplicate paint name.
	KindAlreadyRegistered
	// KindPropertyAccess indicates that reading or converting a property
	// of the constructor threw.
	KindPropertyAccess
	// KindNotConstructor indicates that the value cannot be constructed.
	KindNotConstructor
	// KindPrototypeNotObject indicates a non-object prototype.
	KindPrototypeNotObject
	// KindPaintNotCallable indicates a missing or non-callable paint method.
	KindPaintNotCallable
)

func (k ErrorKind) String() string {
	switch k {
	case KindEmptyName:
		return "empty name"
	case KindAlreadyRegistered:
		return "already registered"
	case KindPropertyAccess:
		return "property access"
	case KindNotConstructor:
		return "not a constructor"
	case KindPrototypeNotObject:
		return "prototype not object"
	case KindPaintNotCallable:
		return "paint not callable"
	default:
		return "unknown"
	}
}

// RegistrationError describes a rejected registration.
type RegistrationError struct {
	Kind ErrorKind
	// Name is the paint name being registered.
	Name string
	// Property is the property whose read failed, for KindPropertyAccess.
	Property string
	// Err is the underlying script exception, if any.
	Err error
}

func (e *RegistrationError) Error() string {
	switch {
	case e.Property != "" && e.Err != nil:
		return fmt.Sprintf("register paint %q: %s: %s: %v", e.Name, e.Kind, e.Property, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("register paint %q: %s: %v", e.Name, e.Kind, e.Err)
	default:
		return fmt.Sprintf("register paint %q: %s", e.Name, e.Kind)
	}
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Is matches any RegistrationError of the same kind, so the sentinels below
// work with errors.Is.
func (e *RegistrationError) Is(target error) bool {
	t, ok := target.(*RegistrationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyName          = &RegistrationError{Kind: KindEmptyName}
	ErrAlreadyRegistered  = &RegistrationError{Kind: KindAlreadyRegistered}
	ErrPropertyAccess     = &RegistrationError{Kind: KindPropertyAccess}
	ErrNotConstructor     = &RegistrationError{Kind: KindNotConstructor}
	ErrPrototypeNotObject = &RegistrationError{Kind: KindPrototypeNotObject}
	ErrPaintNotCallable   = &RegistrationError{Kind: KindPaintNotCallable}
)
