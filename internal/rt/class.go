package rt

import (
	"errors"
	"fmt"
	"strconv"

	"declower/internal/trace"
)

// Type is anything that may appear in a base list.
type Type interface {
	TypeName() string
}

// NativeType is a host-provided base without metadata. It may become a
// primary base but contributes no members and never implements a trait.
type NativeType struct {
	Name string
	// Is reports whether a host value (not an *Instance) belongs to this type.
	Is func(v Value) bool
}

func (n *NativeType) TypeName() string { return n.Name }

func (n *NativeType) String() string { return "native " + n.Name }

// ObjectBuilder produces a class object. It runs at most once per class.
type ObjectBuilder func(r *Runtime) (Value, error)

// BasesFunc resolves a declaration's base list at metadata-construction time.
type BasesFunc func(r *Runtime) ([]Type, error)

// ClassDef is the inert, translated form of a class or trait declaration.
// It is turned into a *Class the first time it is referenced.
type ClassDef struct {
	Name        string
	Kind        Kind // KindClass or KindTrait
	Bases       BasesFunc
	Constructor Constructor // ignored for traits; nil means "call Super()"
	Members     []MemberDef
	Statics     map[string]Value
	ClassObject ObjectBuilder
}

// ObjectDef is the translated form of an object declaration.
type ObjectDef struct {
	Name        string
	Bases       BasesFunc
	Constructor Constructor
	Members     []MemberDef
}

type wireState uint8

const (
	wireUnwired wireState = iota
	wireWiring
	wireDone
)

type objectState uint8

const (
	objectUnforced objectState = iota
	objectBuilding
	objectReady
	objectFailed
)

// Class is a constructed class, trait or object class.
type Class struct {
	name    string
	meta    *Metadata
	ctor    Constructor
	statics map[string]Value
	builder ObjectBuilder

	wire     wireState
	objState objectState
	objValue Value
	objErr   error
}

func (c *Class) TypeName() string { return c.name }

// Name returns the (qualified, when installed from a namespace) class name.
func (c *Class) Name() string { return c.name }

// Metadata returns the class metadata.
func (c *Class) Metadata() *Metadata { return c.meta }

// Static returns a static member copied from ClassDef.Statics.
func (c *Class) Static(name string) (Value, bool) {
	v, ok := c.statics[name]
	return v, ok
}

// ClassObjectForced reports whether the class object builder has completed.
func (c *Class) ClassObjectForced() bool {
	return c.objState == objectReady || c.objState == objectFailed
}

func (c *Class) String() string {
	return c.meta.Kind.String() + " " + c.name
}

// DefineClass returns a lazy slot that constructs def on first Force.
func (r *Runtime) DefineClass(def *ClassDef) *Lazy[*Class] {
	return r.defineClassNamed(def, def.Name)
}

func (r *Runtime) defineClassNamed(def *ClassDef, name string) *Lazy[*Class] {
	return NewLazy(func() (*Class, error) {
		bases, err := r.resolveBases(def.Bases, name)
		if err != nil {
			return nil, err
		}
		kind := def.Kind
		if kind != KindTrait {
			kind = KindClass
		}
		return r.createClass(name, kind, bases, def.Constructor, def.Members, def.Statics, def.ClassObject)
	})
}

func (r *Runtime) resolveBases(fn BasesFunc, name string) ([]Type, error) {
	if fn == nil {
		return nil, nil
	}
	bases, err := fn(r)
	if err != nil {
		if errors.Is(err, ErrReentrantForce) {
			return nil, fmt.Errorf("%w: %s", ErrCyclicBases, name)
		}
		return nil, fmt.Errorf("resolving bases of %s: %w", name, err)
	}
	return bases, nil
}

func (r *Runtime) createClass(
	name string,
	kind Kind,
	bases []Type,
	ctor Constructor,
	members []MemberDef,
	statics map[string]Value,
	builder ObjectBuilder,
) (*Class, error) {
	idx, err := r.newClassIndex()
	if err != nil {
		return nil, err
	}
	md, err := computeMetadata(idx, kind, bases, members)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c := &Class{
		name:    name,
		meta:    md,
		ctor:    ctor,
		statics: make(map[string]Value, len(statics)),
		builder: builder,
	}
	for k, v := range statics {
		c.statics[k] = v
	}
	trace.Point(r.tracer, trace.ScopeClass, "class:"+name, kind.String(), map[string]string{
		"index": strconv.FormatUint(uint64(idx), 10),
	})
	return c, nil
}

// CreateObject builds the anonymous class of an object declaration and
// instantiates it once. The class takes a classIndex like any other.
func (r *Runtime) CreateObject(def *ObjectDef) (*Instance, error) {
	bases, err := r.resolveBases(def.Bases, def.Name)
	if err != nil {
		return nil, err
	}
	c, err := r.createClass(def.Name, KindObject, bases, def.Constructor, def.Members, nil, nil)
	if err != nil {
		return nil, err
	}
	return r.New(c)
}
