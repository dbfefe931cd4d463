package jsbridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/specialistvlad/paintworklet/internal/renderctx"
	"github.com/specialistvlad/paintworklet/internal/script"
)

// Helpers compiled into every runtime. Property reads and sequence
// conversions go through script so that getters, iterators and toString
// run with normal JavaScript semantics and may throw.
const (
	getSource = `(function (o, k) { return o[k]; })`

	toStringSource = `(function (v) { return String(v); })`

	toStringsSource = `(function (v) {
	if (v === null || (typeof v !== "object" && typeof v !== "function") ||
		typeof v[Symbol.iterator] !== "function") {
		throw new TypeError("value is not a sequence");
	}
	return Array.from(v, function (s) { return String(s); });
})`

	makeErrorSource = `(function (name, message) {
	var e = new Error(message);
	e.name = name;
	return e;
})`
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithCallTimeout interrupts any single construct, call or script
// evaluation that runs longer than d. The interruption surfaces as an
// ordinary script exception. Zero disables the limit.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// Runtime is a goja-backed script.Bridge. It is not safe for concurrent
// use.
type Runtime struct {
	vm      *goja.Runtime
	timeout time.Duration

	get       goja.Callable
	toString  goja.Callable
	toStrings goja.Callable
	makeError goja.Callable

	pending *script.Exception
	depth   int
	guards  int
}

var _ script.Bridge = (*Runtime)(nil)

// New creates a runtime with a fresh global scope.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{vm: goja.New()}
	for _, opt := range opts {
		opt(r)
	}
	r.vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	var err error
	if r.get, err = r.compileHelper(getSource); err != nil {
		return nil, err
	}
	if r.toString, err = r.compileHelper(toStringSource); err != nil {
		return nil, err
	}
	if r.toStrings, err = r.compileHelper(toStringsSource); err != nil {
		return nil, err
	}
	if r.makeError, err = r.compileHelper(makeErrorSource); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runtime) compileHelper(src string) (goja.Callable, error) {
	v, err := r.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("compiling helper: %w", err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("helper is not a function")
	}
	return fn, nil
}

// RunScript evaluates src as a classic script. name is used in stack
// traces. Exceptions are returned, not left pending.
func (r *Runtime) RunScript(name, src string) error {
	exit := r.Enter()
	defer exit()

	_, err := r.guard(func() (goja.Value, error) {
		return r.vm.RunScript(name, src)
	})
	if err != nil {
		return toException("evaluate "+name, err)
	}
	return nil
}

// SetFunc exposes fn as a global function. Errors returned by fn are thrown
// into the caller: a *script.Exception rethrows its original value and a
// *script.Error becomes an error object of the named class.
func (r *Runtime) SetFunc(name string, fn script.Func) error {
	return r.vm.Set(name, func(call goja.FunctionCall) goja.Value {
		args := make([]script.Value, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a
		}
		res, err := fn(args)
		if err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(err, &interrupted) {
				panic(interrupted)
			}
			panic(r.throwable(err))
		}
		if res == nil {
			return goja.Undefined()
		}
		return r.value(res)
	})
}

// Global returns the global variable name.
func (r *Runtime) Global(name string) script.Value {
	return r.vm.Get(name)
}

// ToString converts v with JavaScript's String conversion, which may run
// a user-defined toString and throw.
func (r *Runtime) ToString(v script.Value) (string, error) {
	s, err := r.guard(func() (goja.Value, error) {
		return r.toString(goja.Undefined(), r.value(v))
	})
	if err != nil {
		return "", r.throw("to string", err)
	}
	return s.String(), nil
}

func (r *Runtime) throwable(err error) goja.Value {
	var exc *script.Exception
	if errors.As(err, &exc) {
		if thrown, ok := exc.Thrown.(goja.Value); ok && thrown != nil {
			return thrown
		}
	}
	var se *script.Error
	if errors.As(err, &se) {
		if se.Name == "TypeError" {
			return r.vm.NewTypeError(se.Message)
		}
		if v, mkErr := r.makeError(goja.Undefined(), r.vm.ToValue(se.Name), r.vm.ToValue(se.Message)); mkErr == nil {
			return v
		}
	}
	return r.vm.NewGoError(err)
}

// Enter marks a bridge interaction. Calls may nest.
func (r *Runtime) Enter() func() {
	r.depth++
	exited := false
	return func() {
		if exited {
			return
		}
		exited = true
		r.depth--
	}
}

// Depth returns the current Enter nesting depth.
func (r *Runtime) Depth() int {
	return r.depth
}

func (r *Runtime) Construct(ctor script.Value) (script.Value, error) {
	v, err := r.guard(func() (goja.Value, error) {
		obj, err := r.vm.New(r.value(ctor))
		if err != nil {
			return nil, err
		}
		return obj, nil
	})
	if err != nil {
		return nil, r.throw("construct", err)
	}
	return v, nil
}

func (r *Runtime) Call(fn, this script.Value, args ...script.Value) (script.Value, error) {
	callable, ok := goja.AssertFunction(r.value(fn))
	if !ok {
		return nil, r.throw("call", errors.New("value is not a function"))
	}
	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = r.value(a)
	}
	v, err := r.guard(func() (goja.Value, error) {
		return callable(r.value(this), jsArgs...)
	})
	if err != nil {
		return nil, r.throw("call", err)
	}
	return v, nil
}

// GetProperty reads obj[name]. Reading from undefined or null yields
// undefined rather than throwing.
func (r *Runtime) GetProperty(obj script.Value, name string) (script.Value, error) {
	o := r.value(obj)
	if goja.IsUndefined(o) || goja.IsNull(o) {
		return goja.Undefined(), nil
	}
	v, err := r.guard(func() (goja.Value, error) {
		return r.get(goja.Undefined(), o, r.vm.ToValue(name))
	})
	if err != nil {
		return nil, r.throw("get "+name, err)
	}
	return v, nil
}

func (r *Runtime) IsUndefined(v script.Value) bool {
	return goja.IsUndefined(r.value(v))
}

func (r *Runtime) IsObject(v script.Value) bool {
	_, ok := r.value(v).(*goja.Object)
	return ok
}

func (r *Runtime) IsCallable(v script.Value) bool {
	_, ok := goja.AssertFunction(r.value(v))
	return ok
}

func (r *Runtime) IsConstructor(v script.Value) bool {
	_, ok := goja.AssertConstructor(r.value(v))
	return ok
}

func (r *Runtime) ToStrings(v script.Value) ([]string, error) {
	arr, err := r.guard(func() (goja.Value, error) {
		return r.toStrings(goja.Undefined(), r.value(v))
	})
	if err != nil {
		return nil, r.throw("to strings", err)
	}
	var out []string
	if err := r.vm.ExportTo(arr, &out); err != nil {
		return nil, r.throw("to strings", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// ToBool applies JavaScript's ToBoolean, which never throws.
func (r *Runtime) ToBool(v script.Value) (bool, error) {
	return r.value(v).ToBoolean(), nil
}

// Wrap exposes host values to scripts. Rendering contexts become canvas
// objects and paint sizes become read-only {width, height} objects.
func (r *Runtime) Wrap(host any) script.Value {
	switch h := host.(type) {
	case *renderctx.Context:
		return r.bindContext(h)
	case script.PaintSize:
		return r.bindSize(h)
	default:
		return r.vm.ToValue(host)
	}
}

func (r *Runtime) HasPendingException() bool {
	return r.pending != nil
}

func (r *Runtime) ClearPendingException() {
	r.pending = nil
}

// PendingException returns the exception left by the last failed
// operation, if any.
func (r *Runtime) PendingException() *script.Exception {
	return r.pending
}

// value converts a script.Value to a goja.Value. Values that did not come
// from this runtime are converted with ToValue.
func (r *Runtime) value(v script.Value) goja.Value {
	switch t := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return t
	default:
		return r.vm.ToValue(t)
	}
}

// guard runs fn under the call timeout, if configured. Only the outermost
// guard arms the timer and clears the interrupt, so a host callback that
// re-enters the runtime cannot reset the caller's deadline.
func (r *Runtime) guard(fn func() (goja.Value, error)) (goja.Value, error) {
	if r.timeout <= 0 || r.guards > 0 {
		return fn()
	}
	r.guards++
	timer := time.AfterFunc(r.timeout, func() {
		r.vm.Interrupt(fmt.Sprintf("script exceeded %s", r.timeout))
	})
	defer func() {
		timer.Stop()
		r.vm.ClearInterrupt()
		r.guards--
	}()
	return fn()
}

func (r *Runtime) throw(op string, err error) error {
	r.pending = toException(op, err)
	return r.pending
}

func toException(op string, err error) *script.Exception {
	exc := &script.Exception{Op: op, Message: err.Error(), Cause: err}
	var jsErr *goja.Exception
	if errors.As(err, &jsErr) {
		if v := jsErr.Value(); v != nil {
			exc.Thrown = v
			exc.Message = v.String()
		}
	}
	return exc
}
