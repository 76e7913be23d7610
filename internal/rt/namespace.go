package rt

import (
	"fmt"
	"slices"
	"strings"
)

type slotKind uint8

const (
	slotPlain slotKind = iota
	slotAccessor
	slotClass
)

// slot already holds its final binding; pending marks it as still sitting
// behind the owning part's first-use initializer.
type slot struct {
	kind    slotKind
	value   Value
	acc     *Accessor
	class   *Lazy[*Class]
	pending *Part
}

// Namespace is a package object: member slots plus child packages.
type Namespace struct {
	r        *Runtime
	path     string
	slots    map[string]*slot
	children map[string]*Namespace
}

func newNamespace(r *Runtime, path string) *Namespace {
	return &Namespace{
		r:        r,
		path:     path,
		slots:    make(map[string]*slot),
		children: make(map[string]*Namespace),
	}
}

// Path returns the dot-separated package path; the root has "".
func (ns *Namespace) Path() string { return ns.path }

func (ns *Namespace) String() string {
	if ns.path == "" {
		return "<root>"
	}
	return ns.path
}

// Child returns the direct sub-package name, creating it on demand.
func (ns *Namespace) Child(name string) *Namespace {
	name = MemberName(name)
	if c, ok := ns.children[name]; ok {
		return c
	}
	c := newNamespace(ns.r, qualify(ns.path, name))
	ns.children[name] = c
	return c
}

// Package returns the namespace for path, creating intermediate packages.
func (r *Runtime) Package(path string) *Namespace {
	ns := r.root
	if path == "" {
		return ns
	}
	for _, part := range strings.Split(path, ".") {
		ns = ns.Child(part)
	}
	return ns
}

func (r *Runtime) findPackage(path string) (*Namespace, bool) {
	ns := r.root
	if path == "" {
		return ns, true
	}
	for _, part := range strings.Split(path, ".") {
		c, ok := ns.children[MemberName(part)]
		if !ok {
			return nil, false
		}
		ns = c
	}
	return ns, true
}

// Lookup reads a qualified member such as "foo.bar.box".
func (r *Runtime) Lookup(qualified string) (Value, error) {
	pkg, name := "", qualified
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		pkg, name = qualified[:i], qualified[i+1:]
	}
	ns, ok := r.findPackage(pkg)
	if !ok {
		return nil, fmt.Errorf("%w: package %q", ErrNotFound, pkg)
	}
	return ns.Get(name)
}

// Has reports whether name is bound, installed or not.
func (ns *Namespace) Has(name string) bool {
	_, ok := ns.slots[MemberName(name)]
	return ok
}

// Pending reports whether name still waits for its part's initializer.
func (ns *Namespace) Pending(name string) bool {
	s, ok := ns.slots[MemberName(name)]
	return ok && s.pending != nil
}

// Names returns the bound member names in sorted order.
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.slots))
	for n := range ns.slots {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Get reads a member. Touching a pending member installs its whole part
// first; touching a class member constructs its metadata and rebinds the
// slot to the class value.
func (ns *Namespace) Get(name string) (Value, error) {
	name = MemberName(name)
	s, ok := ns.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualify(ns.path, name))
	}
	if s.pending != nil {
		if err := s.pending.force(); err != nil {
			return nil, err
		}
	}
	switch s.kind {
	case slotAccessor:
		return s.acc.Get(ns.r, ns)
	case slotClass:
		c, err := s.class.Force()
		if err != nil {
			return nil, err
		}
		s.kind = slotPlain
		s.value = c
		s.class = nil
		return c, nil
	default:
		return s.value, nil
	}
}

// Set writes a member. Unknown names become plain slots. A pending slot of
// the part whose initializer is running is rebound on the spot; other
// pending slots install their part first.
func (ns *Namespace) Set(name string, v Value) error {
	name = MemberName(name)
	s, ok := ns.slots[name]
	if !ok {
		ns.slots[name] = &slot{kind: slotPlain, value: v}
		return nil
	}
	if p := s.pending; p != nil {
		if p.state != PartInstalling {
			if err := p.force(); err != nil {
				return err
			}
		}
		s.pending = nil
	}
	switch s.kind {
	case slotAccessor:
		if s.acc.Set == nil {
			return fmt.Errorf("%w: %s", ErrReadOnly, qualify(ns.path, name))
		}
		return s.acc.Set(ns.r, ns, v)
	case slotClass:
		return fmt.Errorf("%w: %s", ErrReadOnly, qualify(ns.path, name))
	default:
		s.value = v
		return nil
	}
}

func qualify(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
