package rt

import (
	"fmt"
)

// Value is a target-side value: nil (null), Undefined, bool, int64, float64,
// string, *Function, *Class, *NativeType, *Instance or any host value.
type Value = any

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is the value of a stored property whose initializer has not run.
var Undefined Value = undefinedValue{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v Value) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Function is a callable value. This is the receiver: an *Instance for
// methods, the owning *Namespace for package-level functions.
type Function struct {
	Name string
	Call func(r *Runtime, this Value, args []Value) (Value, error)
}

func (f *Function) String() string {
	return "fun " + f.Name
}

// Accessor is a property descriptor with a getter and an optional setter.
type Accessor struct {
	Get func(r *Runtime, this Value) (Value, error)
	Set func(r *Runtime, this Value, v Value) error
}

// Call invokes fn with the given receiver.
func (r *Runtime) Call(fn, this Value, args ...Value) (Value, error) {
	f, ok := fn.(*Function)
	if !ok || f == nil || f.Call == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	return f.Call(r, this, args)
}

// Describe renders v for logs and CLI output.
func Describe(v Value) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case *Class:
		return x.String()
	case *Instance:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
