package lower

import (
	"fmt"

	"declower/internal/rt"
)

// ActionKind is the variant of an initializer action.
type ActionKind uint8

const (
	AssignProperty ActionKind = iota + 1
	RunObjectConstructor
	RunDelegateSetup
)

func (k ActionKind) String() string {
	switch k {
	case AssignProperty:
		return "assign"
	case RunObjectConstructor:
		return "object"
	case RunDelegateSetup:
		return "delegate"
	default:
		return "unknown"
	}
}

// Action is one step of a unit initializer.
type Action struct {
	Kind ActionKind
	// Name is the declared member name.
	Name string
	// Target is the namespace slot written by the action: the member itself,
	// its backing slot "$name", or "name$delegate".
	Target string
	Expr   rt.Expr
	Object *rt.ObjectDef
}

func (a Action) String() string {
	if a.Target == a.Name {
		return a.Kind.String() + " " + a.Name
	}
	return a.Kind.String() + " " + a.Name + " -> " + a.Target
}

func backingSlot(name string) string  { return "$" + name }
func delegateSlot(name string) string { return name + "$delegate" }

func (a Action) run(r *rt.Runtime, ns *rt.Namespace) error {
	var (
		v   rt.Value
		err error
	)
	switch a.Kind {
	case AssignProperty, RunDelegateSetup:
		v, err = a.Expr(r, ns)
	case RunObjectConstructor:
		v, err = r.CreateObject(a.Object)
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	return ns.Set(a.Target, v)
}
