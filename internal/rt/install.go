package rt

import (
	"fmt"
	"slices"

	"declower/internal/trace"
)

// EntryKind selects how a member-table entry is bound in a namespace.
type EntryKind uint8

const (
	// EntryValue is a plain value, typically a *Function.
	EntryValue EntryKind = iota
	// EntryClass is a class or trait; its metadata is built on first read.
	EntryClass
	// EntryPlaceholder is Undefined until the initializer assigns it.
	EntryPlaceholder
	// EntryAccessor is a property read and written through an *Accessor.
	EntryAccessor
)

func (k EntryKind) String() string {
	switch k {
	case EntryValue:
		return "value"
	case EntryClass:
		return "class"
	case EntryPlaceholder:
		return "placeholder"
	case EntryAccessor:
		return "accessor"
	default:
		return "unknown"
	}
}

// Entry is one member-table entry handed to AddPackagePart.
type Entry struct {
	Name     string
	Kind     EntryKind
	Value    Value
	Class    *ClassDef
	Accessor *Accessor
}

// Initializer is a unit's initializer body. ns is the namespace the unit is
// installed in; assignments go through ns.Set.
type Initializer func(r *Runtime, ns *Namespace) error

// Expr is a translated value-producing expression evaluated inside an
// initializer.
type Expr func(r *Runtime, ns *Namespace) (Value, error)

// PartState is the installation state of one file part.
type PartState uint8

const (
	PartPending PartState = iota
	PartInstalling
	PartInstalled
	PartFailed
)

func (s PartState) String() string {
	switch s {
	case PartPending:
		return "pending"
	case PartInstalling:
		return "installing"
	case PartInstalled:
		return "installed"
	case PartFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Part is one file unit installed into a namespace.
type Part struct {
	ns    *Namespace
	names []string
	init  Initializer
	state PartState
	err   error
}

// State returns the installation state.
func (p *Part) State() PartState { return p.state }

// Err returns the initializer failure, if any.
func (p *Part) Err() error { return p.err }

// Namespace returns the namespace the part is installed in.
func (p *Part) Namespace() *Namespace { return p.ns }

// Names returns the member names owned by the part, in entry order.
func (p *Part) Names() []string { return append([]string(nil), p.names...) }

// AddPackagePart binds entries in the package at path. With a nil init the
// entries are final at once. Otherwise every non-class entry stays pending
// until the first touch of any of them runs init; class entries never wait
// for init.
func (r *Runtime) AddPackagePart(path string, entries []Entry, init Initializer) (*Part, error) {
	ns := r.Package(path)
	seen := make(map[string]struct{}, len(entries))
	entries = slices.Clone(entries)
	for i := range entries {
		entries[i].Name = MemberName(entries[i].Name)
	}
	for _, e := range entries {
		if _, dup := seen[e.Name]; dup || ns.Has(e.Name) {
			return nil, fmt.Errorf("%w: %s", ErrMemberConflict, qualify(path, e.Name))
		}
		seen[e.Name] = struct{}{}
	}

	p := &Part{ns: ns, init: init, state: PartInstalled}
	if init != nil {
		p.state = PartPending
	}
	for _, e := range entries {
		s := &slot{}
		switch e.Kind {
		case EntryClass:
			s.kind = slotClass
			s.class = r.defineClassNamed(e.Class, qualify(path, e.Name))
		case EntryAccessor:
			s.kind = slotAccessor
			s.acc = e.Accessor
		case EntryPlaceholder:
			s.value = Undefined
		default:
			s.value = e.Value
		}
		if init != nil && e.Kind != EntryClass {
			s.pending = p
		}
		ns.slots[e.Name] = s
		p.names = append(p.names, e.Name)
	}
	return p, nil
}

// Install runs the part's initializer now instead of on first touch.
func (p *Part) Install() error {
	return p.force()
}

// force runs the initializer once. A re-entrant touch during the initializer
// sees the staged bindings; a failed part keeps its remaining members pending
// and reports the same error on every touch.
func (p *Part) force() error {
	switch p.state {
	case PartInstalled, PartInstalling:
		return nil
	case PartFailed:
		return p.err
	}

	r := p.ns.r
	p.state = PartInstalling
	span := trace.Begin(r.tracer, trace.ScopeUnit, "install:"+p.ns.String(), r.span)
	if err := p.init(r, p.ns); err != nil {
		p.state = PartFailed
		p.err = fmt.Errorf("%w: %s: %w", ErrUnitFailed, p.ns, err)
		span.End("failed")
		return p.err
	}
	for _, name := range p.names {
		if s := p.ns.slots[name]; s.pending == p {
			s.pending = nil
		}
	}
	p.state = PartInstalled
	span.End("")
	return nil
}
