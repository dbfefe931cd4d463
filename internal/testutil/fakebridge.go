package testutil

import (
	"fmt"

	"github.com/specialistvlad/paintworklet/internal/script"
)

// Undefined is the fake sandbox's undefined value.
type Undefined struct{}

// Getter is a property whose read runs code and may throw.
type Getter func() (any, error)

// Object is a fake sandbox object. Function-like objects set Constructible
// and/or Callable together with the matching hook.
type Object struct {
	Props         map[string]any
	Constructible bool
	Callable      bool
	ConstructFn   func() (any, error)
	CallFn        func(this any, args []any) (any, error)
}

// NewObject returns an empty plain object.
func NewObject() *Object {
	return &Object{Props: make(map[string]any)}
}

// PaintClass is a fake paint class whose constructor and paint method can
// be made to throw and which counts how often each ran.
type PaintClass struct {
	Ctor *Object

	Constructions int
	Paints        int
	// ConstructErr, when set, is thrown by the constructor.
	ConstructErr error
	// PaintErr, when set, is thrown by paint.
	PaintErr error
	// LastThis and LastArgs record the receiver and arguments of the most
	// recent paint call.
	LastThis any
	LastArgs []any
	// OnPaint runs inside paint before PaintErr is checked.
	OnPaint func(args []any)
}

// NewPaintClass builds a constructible class whose prototype has a callable
// paint method.
func NewPaintClass() *PaintClass {
	pc := &PaintClass{}
	paint := &Object{
		Props:    map[string]any{},
		Callable: true,
		CallFn: func(this any, args []any) (any, error) {
			pc.Paints++
			pc.LastThis, pc.LastArgs = this, args
			if pc.OnPaint != nil {
				pc.OnPaint(args)
			}
			if pc.PaintErr != nil {
				return nil, pc.PaintErr
			}
			return Undefined{}, nil
		},
	}
	proto := NewObject()
	proto.Props["paint"] = paint

	pc.Ctor = &Object{
		Props:         map[string]any{"prototype": proto},
		Constructible: true,
		Callable:      true,
		ConstructFn: func() (any, error) {
			pc.Constructions++
			if pc.ConstructErr != nil {
				return nil, pc.ConstructErr
			}
			return &Object{Props: map[string]any{"id": pc.Constructions}}, nil
		},
	}
	return pc
}

// FakeBridge is an in-memory script.Bridge over Objects.
type FakeBridge struct {
	pending *script.Exception

	Depth   int
	Enters  int
	Exits   int
	Cleared int
}

var _ script.Bridge = (*FakeBridge)(nil)

// NewFakeBridge creates a bridge with no pending exception.
func NewFakeBridge() *FakeBridge {
	return &FakeBridge{}
}

func (b *FakeBridge) Enter() func() {
	b.Depth++
	b.Enters++
	exited := false
	return func() {
		if exited {
			panic("testutil: exit called twice")
		}
		exited = true
		b.Depth--
		b.Exits++
	}
}

func (b *FakeBridge) throw(op string, err error) error {
	b.pending = &script.Exception{Op: op, Message: err.Error(), Cause: err}
	return b.pending
}

func (b *FakeBridge) Construct(ctor script.Value) (script.Value, error) {
	obj, ok := ctor.(*Object)
	if !ok || !obj.Constructible || obj.ConstructFn == nil {
		return nil, b.throw("construct", fmt.Errorf("%T is not a constructor", ctor))
	}
	v, err := obj.ConstructFn()
	if err != nil {
		return nil, b.throw("construct", err)
	}
	return v, nil
}

func (b *FakeBridge) Call(fn, this script.Value, args ...script.Value) (script.Value, error) {
	obj, ok := fn.(*Object)
	if !ok || !obj.Callable || obj.CallFn == nil {
		return nil, b.throw("call", fmt.Errorf("%T is not a function", fn))
	}
	v, err := obj.CallFn(this, args)
	if err != nil {
		return nil, b.throw("call", err)
	}
	return v, nil
}

func (b *FakeBridge) GetProperty(obj script.Value, name string) (script.Value, error) {
	o, ok := obj.(*Object)
	if !ok {
		return Undefined{}, nil
	}
	v, ok := o.Props[name]
	if !ok {
		return Undefined{}, nil
	}
	if g, ok := v.(Getter); ok {
		got, err := g()
		if err != nil {
			return nil, b.throw("get "+name, err)
		}
		return got, nil
	}
	return v, nil
}

func (b *FakeBridge) IsUndefined(v script.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Undefined)
	return ok
}

func (b *FakeBridge) IsObject(v script.Value) bool {
	_, ok := v.(*Object)
	return ok
}

func (b *FakeBridge) IsCallable(v script.Value) bool {
	o, ok := v.(*Object)
	return ok && o.Callable
}

func (b *FakeBridge) IsConstructor(v script.Value) bool {
	o, ok := v.(*Object)
	return ok && o.Constructible
}

func (b *FakeBridge) ToStrings(v script.Value) ([]string, error) {
	s, ok := v.([]string)
	if !ok {
		return nil, b.throw("to strings", fmt.Errorf("%T is not iterable", v))
	}
	return s, nil
}

func (b *FakeBridge) ToBool(v script.Value) (bool, error) {
	t, ok := v.(bool)
	if !ok {
		return false, b.throw("to bool", fmt.Errorf("%T is not a boolean", v))
	}
	return t, nil
}

// Wrap returns the host object itself.
func (b *FakeBridge) Wrap(host any) script.Value {
	return host
}

func (b *FakeBridge) HasPendingException() bool {
	return b.pending != nil
}

func (b *FakeBridge) ClearPendingException() {
	b.pending = nil
	b.Cleared++
}
