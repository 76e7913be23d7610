package lower

import (
	"fmt"

	"declower/internal/decl"
	"declower/internal/diag"
	"declower/internal/rt"
	"declower/internal/source"
	"declower/internal/trace"
)

// Options configure classification of one unit.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// Parent is the span the unit span nests under.
	Parent uint64
}

// Result is the inert output of classification.
type Result struct {
	Members *MemberTable
	Actions []Action
	Public  *PublicSurface
	// Accessors of non-simple properties. They are not member-table entries
	// but are installed next to them.
	Accessors []rt.Entry
}

// Classify lowers decls in source order. The first classification error is
// reported through opts.Reporter and returned; nothing is dropped silently.
func Classify(decls []decl.Declaration, opts Options) (*Result, error) {
	c := classifier{
		reporter: opts.Reporter,
		seen:     make(map[string]source.Span, len(decls)),
		res: &Result{
			Members: NewMemberTable(),
			Public:  NewPublicSurface(),
		},
	}
	for i := range decls {
		if err := c.declaration(&decls[i]); err != nil {
			return nil, err
		}
	}
	return c.res, nil
}

type classifier struct {
	reporter diag.Reporter
	seen     map[string]source.Span
	res      *Result
}

func (c *classifier) declaration(d *decl.Declaration) error {
	if d.Predefined {
		return nil
	}
	if d.Name == "" {
		return c.fail(diag.LowEmptyName, d.Span, ErrEmptyName, fmt.Sprintf("%s declaration #%d has no name", d.Kind, d.ID))
	}
	name := rt.MemberName(d.Name)
	if prev, dup := c.seen[name]; dup {
		diag.ReportError(c.reporter, diag.LowDuplicateMember, d.Span, fmt.Sprintf("member %q is already declared in this unit", name)).
			WithNote(prev, "previous declaration").
			Emit()
		return fmt.Errorf("%w: %s", ErrDuplicateMember, name)
	}

	var err error
	switch d.Kind {
	case decl.KindNestedClass, decl.KindNestedTrait:
		err = c.class(d, name)
	case decl.KindObject:
		err = c.object(d, name)
	case decl.KindProperty:
		err = c.property(d, name)
	case decl.KindFunction:
		err = c.function(d, name)
	default:
		err = c.fail(diag.LowUnknownDeclKind, d.Span, ErrUnknownKind, fmt.Sprintf("declaration %q has unknown kind %d", name, d.Kind))
	}
	if err != nil {
		return err
	}
	c.seen[name] = d.Span
	if d.Visibility.IsPublicAPI() {
		c.res.Public.Add(name)
	}
	return nil
}

func (c *classifier) class(d *decl.Declaration, name string) error {
	if d.Class == nil {
		return c.missing(d, name)
	}
	def := *d.Class
	def.Kind = rt.KindClass
	if d.Kind == decl.KindNestedTrait {
		def.Kind = rt.KindTrait
	}
	c.res.Members.add(rt.Entry{Name: name, Kind: rt.EntryClass, Class: &def})
	return nil
}

func (c *classifier) object(d *decl.Declaration, name string) error {
	if d.Object == nil {
		return c.missing(d, name)
	}
	def := *d.Object
	if def.Name == "" {
		def.Name = name
	}
	c.res.Actions = append(c.res.Actions, Action{Kind: RunObjectConstructor, Name: name, Target: name, Object: &def})
	c.res.Members.add(rt.Entry{Name: name, Kind: rt.EntryPlaceholder})
	return nil
}

func (c *classifier) property(d *decl.Declaration, name string) error {
	p := d.Property
	if p == nil {
		return c.missing(d, name)
	}
	switch {
	case p.SimpleFinal && p.Delegate != nil:
		return c.fail(diag.LowInconsistentProperty, d.Span, ErrInconsistentProperty,
			fmt.Sprintf("property %q is both simple-final and delegated", name))
	case p.SimpleFinal && p.Accessor != nil:
		return c.fail(diag.LowInconsistentProperty, d.Span, ErrInconsistentProperty,
			fmt.Sprintf("property %q is simple-final but has accessors", name))
	case p.Delegate != nil && p.Initializer == nil:
		return c.fail(diag.LowInconsistentProperty, d.Span, ErrInconsistentProperty,
			fmt.Sprintf("delegated property %q has no initializer", name))
	case p.SimpleFinal && p.Initializer == nil:
		return c.missing(d, name)
	}

	if p.Initializer != nil {
		target := name
		if !p.SimpleFinal {
			target = backingSlot(name)
		}
		c.res.Actions = append(c.res.Actions, Action{Kind: AssignProperty, Name: name, Target: target, Expr: p.Initializer})
		if p.Delegate != nil {
			c.res.Actions = append(c.res.Actions, Action{Kind: RunDelegateSetup, Name: name, Target: delegateSlot(name), Expr: p.Delegate})
		}
	}

	if p.SimpleFinal {
		c.res.Members.add(rt.Entry{Name: name, Kind: rt.EntryPlaceholder})
	} else if p.Accessor != nil {
		c.res.Accessors = append(c.res.Accessors, rt.Entry{Name: name, Kind: rt.EntryAccessor, Accessor: p.Accessor})
	}
	return nil
}

func (c *classifier) function(d *decl.Declaration, name string) error {
	if d.Function == nil {
		return c.missing(d, name)
	}
	c.res.Members.add(rt.Entry{Name: name, Kind: rt.EntryValue, Value: d.Function})
	return nil
}

func (c *classifier) missing(d *decl.Declaration, name string) error {
	return c.fail(diag.LowMissingValue, d.Span, ErrMissingValue, fmt.Sprintf("%s %q has no translated value", d.Kind, name))
}

func (c *classifier) fail(code diag.Code, sp source.Span, sentinel error, msg string) error {
	diag.ReportError(c.reporter, code, sp, msg).Emit()
	return fmt.Errorf("%w: %s", sentinel, msg)
}
