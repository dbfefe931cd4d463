package worklet

import (
	"errors"

	"github.com/specialistvlad/paintworklet/internal/registry"
	"github.com/specialistvlad/paintworklet/internal/script"
)

// registerPaint implements the registerPaint(name, paintCtor) global.
func (s *Scope) registerPaint(args []script.Value) (script.Value, error) {
	if len(args) < 2 {
		return nil, &script.Error{Name: "TypeError", Message: "registerPaint requires 2 arguments"}
	}
	name, err := s.runtime.ToString(args[0])
	if err != nil {
		s.runtime.ClearPendingException()
		return nil, err
	}

	err = s.registry.RegisterPaint(s.taskCtx, name, args[1])
	if err == nil {
		return nil, nil
	}
	return nil, scriptError(err)
}

// scriptError maps a registration failure to the exception a script sees.
// Property access failures rethrow whatever the script itself threw.
func scriptError(err error) error {
	var regErr *registry.RegistrationError
	if !errors.As(err, &regErr) {
		return err
	}
	switch regErr.Kind {
	case registry.KindPropertyAccess:
		return err
	case registry.KindAlreadyRegistered:
		return &script.Error{Name: "InvalidModificationError", Message: err.Error()}
	default:
		return &script.Error{Name: "TypeError", Message: err.Error()}
	}
}
