package unitdesc

import (
	"errors"
	"fmt"
	"strings"

	"declower/internal/rt"
)

// Expr is a pre-translated expression. Exactly one form is set.
type Expr struct {
	Value       any         `toml:"value"`
	Ref         string      `toml:"ref"`
	Effect      string      `toml:"effect"`
	New         string      `toml:"new"`
	ClassObject string      `toml:"class_object"`
	Call        string      `toml:"call"`
	Invoke      *InvokeExpr `toml:"invoke"`
	Print       *Expr       `toml:"print"`
	Is          *IsExpr     `toml:"is"`
	Seq         []Expr      `toml:"seq"`
}

// InvokeExpr calls a method of an instance.
type InvokeExpr struct {
	Of     Expr   `toml:"of"`
	Method string `toml:"method"`
}

// IsExpr tests an instance against a class or trait.
type IsExpr struct {
	Of   Expr   `toml:"of"`
	Type string `toml:"type"`
}

func (e *Expr) forms() int {
	n := 0
	for _, set := range []bool{
		e.Value != nil, e.Ref != "", e.Effect != "", e.New != "", e.ClassObject != "",
		e.Call != "", e.Invoke != nil, e.Print != nil, e.Is != nil, e.Seq != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (e *Expr) validate() error {
	if n := e.forms(); n != 1 {
		return fmt.Errorf("expression must have exactly one form, has %d", n)
	}
	switch {
	case e.Print != nil:
		return e.Print.validate()
	case e.Invoke != nil:
		if e.Invoke.Method == "" {
			return errors.New("invoke without method")
		}
		return e.Invoke.Of.validate()
	case e.Is != nil:
		if e.Is.Type == "" {
			return errors.New("is without type")
		}
		return e.Is.Of.validate()
	}
	for i := range e.Seq {
		if err := e.Seq[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// scope resolves names for the expressions of one unit.
type scope struct {
	pkg string
}

func (s scope) resolve(r *rt.Runtime, name string) (rt.Value, error) {
	if strings.Contains(name, ".") {
		return r.Lookup(name)
	}
	return r.Package(s.pkg).Get(name)
}

func (s scope) class(r *rt.Runtime, name string) (*rt.Class, error) {
	v, err := s.resolve(r, name)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*rt.Class)
	if !ok {
		return nil, fmt.Errorf("%s is %s, not a class", name, rt.Describe(v))
	}
	return c, nil
}

func (s scope) eval(r *rt.Runtime, e *Expr) (rt.Value, error) {
	switch {
	case e.Ref != "":
		return s.resolve(r, e.Ref)
	case e.Effect != "":
		if err := recordEffect(r, e.Effect); err != nil {
			return nil, err
		}
		return e.Effect, nil
	case e.New != "":
		c, err := s.class(r, e.New)
		if err != nil {
			return nil, err
		}
		return r.New(c)
	case e.ClassObject != "":
		c, err := s.class(r, e.ClassObject)
		if err != nil {
			return nil, err
		}
		return r.ClassObject(c)
	case e.Call != "":
		fn, err := s.resolve(r, e.Call)
		if err != nil {
			return nil, err
		}
		return r.Call(fn, r.Package(s.pkg))
	case e.Invoke != nil:
		v, err := s.eval(r, &e.Invoke.Of)
		if err != nil {
			return nil, err
		}
		inst, ok := v.(*rt.Instance)
		if !ok {
			return nil, fmt.Errorf("%s has no methods", rt.Describe(v))
		}
		return r.CallMethod(inst, e.Invoke.Method)
	case e.Print != nil:
		v, err := s.eval(r, e.Print)
		if err != nil {
			return nil, err
		}
		if err := recordEffect(r, rt.Describe(v)); err != nil {
			return nil, err
		}
		return v, nil
	case e.Is != nil:
		v, err := s.eval(r, &e.Is.Of)
		if err != nil {
			return nil, err
		}
		c, err := s.class(r, e.Is.Type)
		if err != nil {
			return nil, err
		}
		return rt.IsInstance(v, c), nil
	case e.Seq != nil:
		var last rt.Value
		for i := range e.Seq {
			v, err := s.eval(r, &e.Seq[i])
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	default:
		return e.Value, nil
	}
}

func (s scope) expr(e *Expr) rt.Expr {
	if e == nil {
		return nil
	}
	return func(r *rt.Runtime, _ *rt.Namespace) (rt.Value, error) {
		return s.eval(r, e)
	}
}

func (s scope) function(name string, body *Expr) *rt.Function {
	return &rt.Function{Name: name, Call: func(r *rt.Runtime, _ rt.Value, _ []rt.Value) (rt.Value, error) {
		if body == nil {
			return nil, nil
		}
		return s.eval(r, body)
	}}
}
