package registry

import (
	"context"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/script"
)

// RegisterPaint validates ctor and registers it under name.
//
// The steps run in a fixed order and the first failure wins: the optional
// metadata properties are read before the constructor itself is checked,
// so a throwing inputProperties getter is reported even when ctor is not
// a constructor at all. No state changes unless every step succeeds.
func (r *Registry) RegisterPaint(ctx context.Context, name string, ctor script.Value) error {
	logger := ctxlog.FromContext(ctx).With("paint", name)
	logger.Debug("Registering paint definition.")

	if name == "" {
		return &RegistrationError{Kind: KindEmptyName}
	}
	if _, exists := r.definitions[name]; exists {
		return &RegistrationError{Kind: KindAlreadyRegistered, Name: name}
	}

	exit := r.bridge.Enter()
	defer exit()

	logger.Debug("Getting input properties.")
	inputProperties, err := r.readStrings(ctor, "inputProperties")
	if err != nil {
		return r.propertyError(name, "inputProperties", err)
	}
	logger.Debug("Got input properties.", "inputProperties", inputProperties)

	logger.Debug("Getting input arguments.")
	inputArguments, err := r.readStrings(ctor, "inputArguments")
	if err != nil {
		return r.propertyError(name, "inputArguments", err)
	}
	logger.Debug("Got input arguments.", "inputArguments", inputArguments)

	logger.Debug("Getting alpha.")
	alpha, err := r.readBool(ctor, "alpha", true)
	if err != nil {
		return r.propertyError(name, "alpha", err)
	}
	logger.Debug("Got alpha.", "alpha", alpha)

	if !r.bridge.IsConstructor(ctor) {
		return &RegistrationError{Kind: KindNotConstructor, Name: name}
	}

	prototype, err := r.bridge.GetProperty(ctor, "prototype")
	if err != nil {
		return r.propertyError(name, "prototype", err)
	}
	if !r.bridge.IsObject(prototype) {
		return &RegistrationError{Kind: KindPrototypeNotObject, Name: name}
	}

	paintFn, err := r.bridge.GetProperty(prototype, "paint")
	if err != nil {
		return r.propertyError(name, "paint", err)
	}
	if !r.bridge.IsObject(paintFn) || !r.bridge.IsCallable(paintFn) {
		return &RegistrationError{Kind: KindPaintNotCallable, Name: name}
	}

	rc := r.newContext(alpha)
	r.definitions[name] = &PaintDefinition{
		name:            name,
		constructor:     ctor,
		paintFunction:   paintFn,
		valid:           true,
		inputProperties: inputProperties,
		inputArguments:  inputArguments,
		alpha:           alpha,
		context:         rc,
		contextValue:    r.bridge.Wrap(rc),
	}
	logger.Debug("Registered paint definition.", "definitions", len(r.definitions))
	return nil
}

// readStrings reads an optional string sequence. Only an absent property
// defaults to empty; a throwing read or conversion is an error.
func (r *Registry) readStrings(obj script.Value, prop string) ([]string, error) {
	v, err := r.bridge.GetProperty(obj, prop)
	if err != nil {
		return nil, err
	}
	if r.bridge.IsUndefined(v) {
		return []string{}, nil
	}
	return r.bridge.ToStrings(v)
}

// readBool reads an optional boolean, defaulting only when absent.
func (r *Registry) readBool(obj script.Value, prop string, def bool) (bool, error) {
	v, err := r.bridge.GetProperty(obj, prop)
	if err != nil {
		return false, err
	}
	if r.bridge.IsUndefined(v) {
		return def, nil
	}
	return r.bridge.ToBool(v)
}

// propertyError takes the pending exception off the bridge and returns it
// to the caller inside a RegistrationError.
func (r *Registry) propertyError(name, prop string, err error) error {
	if r.bridge.HasPendingException() {
		r.bridge.ClearPendingException()
	}
	return &RegistrationError{Kind: KindPropertyAccess, Name: name, Property: prop, Err: err}
}
