package rt

import (
	"fmt"
)

// Instance is an object created by New or CreateObject.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Class returns the runtime class of the instance.
func (i *Instance) Class() *Class { return i.class }

// Field returns an instance field.
func (i *Instance) Field(name string) (Value, bool) {
	v, ok := i.fields[name]
	return v, ok
}

// SetField stores an instance field.
func (i *Instance) SetField(name string, v Value) {
	i.fields[name] = v
}

func (i *Instance) String() string {
	if i.class.meta.Kind == KindObject {
		return "object " + i.class.name
	}
	return i.class.name + "{}"
}

// Constructor is a translated constructor body. It must call cx.Super before
// touching inherited state, as the generated code does.
type Constructor func(cx *Construction, args []Value) error

// Construction is the context of one constructor invocation.
type Construction struct {
	r     *Runtime
	class *Class
	This  *Instance
}

// Runtime returns the runtime running the constructor.
func (cx *Construction) Runtime() *Runtime { return cx.r }

// Class returns the class whose constructor is running.
func (cx *Construction) Class() *Class { return cx.class }

// Super wires the base initializer of the running class (first call only)
// and runs the primary base's constructor on This.
func (cx *Construction) Super(args ...Value) error {
	base, err := cx.r.baseInitializer(cx.class)
	if err != nil {
		return err
	}
	if base == nil {
		return nil
	}
	return cx.r.construct(base, cx.This, args)
}

func defaultConstructor(cx *Construction, _ []Value) error {
	return cx.Super()
}

// New instantiates c.
func (r *Runtime) New(c *Class, args ...Value) (*Instance, error) {
	if c.meta.Kind == KindTrait {
		return nil, fmt.Errorf("%w: %s", ErrNotConstructible, c.name)
	}
	inst := &Instance{class: c, fields: make(map[string]Value)}
	if err := r.construct(c, inst, args); err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *Runtime) construct(c *Class, this *Instance, args []Value) error {
	ctor := c.ctor
	if ctor == nil {
		ctor = defaultConstructor
	}
	return ctor(&Construction{r: r, class: c, This: this}, args)
}

// CallMethod invokes the merged function name of v's class.
func (r *Runtime) CallMethod(v *Instance, name string, args ...Value) (Value, error) {
	m, ok := v.class.meta.Functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotFound, v.class.name, name)
	}
	return r.Call(m.Value, v, args...)
}

// CallGetter reads property name of this through klass's merged property table.
func (r *Runtime) CallGetter(this Value, klass *Class, name string) (Value, error) {
	m, ok := klass.meta.Properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotFound, klass.name, name)
	}
	acc, ok := m.Value.(*Accessor)
	if !ok {
		return m.Value, nil
	}
	return acc.Get(r, this)
}

// CallSetter writes property name of this through klass's merged property table.
func (r *Runtime) CallSetter(this Value, klass *Class, name string, v Value) error {
	m, ok := klass.meta.Properties[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNotFound, klass.name, name)
	}
	acc, ok := m.Value.(*Accessor)
	if !ok || acc.Set == nil {
		return fmt.Errorf("%w: %s.%s", ErrReadOnly, klass.name, name)
	}
	return acc.Set(r, this, v)
}
