package unitdesc

import (
	"fmt"
	"slices"
	"strings"

	"declower/internal/decl"
	"declower/internal/rt"
)

const nativePrefix = "native:"

func parseKind(s string) (decl.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class":
		return decl.KindNestedClass, true
	case "trait", "interface":
		return decl.KindNestedTrait, true
	case "object":
		return decl.KindObject, true
	case "property", "val", "var":
		return decl.KindProperty, true
	case "function", "fun":
		return decl.KindFunction, true
	}
	return decl.KindInvalid, false
}

func parseVisibility(s string) (decl.Visibility, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "public":
		return decl.Public, true
	case "protected":
		return decl.Protected, true
	case "internal":
		return decl.Internal, true
	case "private":
		return decl.Private, true
	}
	return decl.Public, false
}

// Declarations turns the description into resolved declarations. Bases and
// references are resolved by name at run time, so units may refer to each
// other in any order.
func (u *Unit) Declarations() ([]decl.Declaration, error) {
	b := builder{
		scope:   scope{pkg: u.Package},
		natives: make(map[string]*rt.NativeType),
	}
	out := make([]decl.Declaration, 0, len(u.Decls))
	for i := range u.Decls {
		d, err := b.declaration(&u.Decls[i], decl.ID(i+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, u.Path, err)
		}
		out = append(out, d)
	}
	return out, nil
}

type builder struct {
	scope   scope
	natives map[string]*rt.NativeType
}

func (b *builder) declaration(d *Decl, id decl.ID) (decl.Declaration, error) {
	kind, ok := parseKind(d.Kind)
	if !ok {
		return decl.Declaration{}, fmt.Errorf("unknown kind %q", d.Kind)
	}
	vis, ok := parseVisibility(d.Visibility)
	if !ok {
		return decl.Declaration{}, fmt.Errorf("unknown visibility %q", d.Visibility)
	}
	out := decl.Declaration{
		ID:         id,
		Kind:       kind,
		Name:       d.Name,
		Visibility: vis,
		Span:       d.Span,
		Predefined: d.Predefined,
	}

	switch kind {
	case decl.KindNestedClass, decl.KindNestedTrait:
		out.Class = &rt.ClassDef{
			Name:        d.Name,
			Bases:       b.bases(d.Bases),
			Constructor: b.constructor(d.Effect),
			Members:     b.members(d),
			Statics:     d.Statics,
			ClassObject: b.classObject(d),
		}
	case decl.KindObject:
		out.Object = &rt.ObjectDef{
			Name:        d.Name,
			Bases:       b.bases(d.Bases),
			Constructor: b.constructor(d.Effect),
			Members:     b.members(d),
		}
	case decl.KindProperty:
		simple := d.Delegate == nil && !d.Accessor
		if d.Simple != nil {
			simple = *d.Simple
		}
		out.Property = &decl.Property{
			SimpleFinal: simple,
			Initializer: b.scope.expr(d.Init),
			Delegate:    b.scope.expr(d.Delegate),
		}
		if d.Accessor {
			out.Property.Accessor = backingAccessor(d.Name)
		}
	case decl.KindFunction:
		out.Function = b.scope.function(d.Name, d.Body)
	}
	return out, nil
}

func (b *builder) bases(names []string) rt.BasesFunc {
	if len(names) == 0 {
		return nil
	}
	return func(r *rt.Runtime) ([]rt.Type, error) {
		out := make([]rt.Type, 0, len(names))
		for _, name := range names {
			if native, ok := strings.CutPrefix(name, nativePrefix); ok {
				out = append(out, b.native(native))
				continue
			}
			v, err := b.scope.resolve(r, name)
			if err != nil {
				return nil, fmt.Errorf("base %s: %w", name, err)
			}
			t, ok := v.(rt.Type)
			if !ok {
				return nil, fmt.Errorf("base %s: %w", name, rt.ErrBadBase)
			}
			out = append(out, t)
		}
		return out, nil
	}
}

func (b *builder) native(name string) *rt.NativeType {
	if n, ok := b.natives[name]; ok {
		return n
	}
	n := &rt.NativeType{Name: name}
	b.natives[name] = n
	return n
}

func (b *builder) constructor(effect string) rt.Constructor {
	if effect == "" {
		return nil
	}
	return func(cx *rt.Construction, _ []rt.Value) error {
		if err := cx.Super(); err != nil {
			return err
		}
		return recordEffect(cx.Runtime(), effect)
	}
}

func (b *builder) members(d *Decl) []rt.MemberDef {
	var out []rt.MemberDef
	for _, name := range sortedKeys(d.Functions) {
		body := d.Functions[name]
		out = append(out, rt.MemberDef{Name: name, Kind: rt.MemberFunction, Value: b.scope.function(d.Name+"."+name, &body)})
	}
	for _, name := range sortedKeys(d.Properties) {
		out = append(out, rt.MemberDef{Name: name, Kind: rt.MemberProperty, Value: d.Properties[name]})
	}
	return out
}

func (b *builder) classObject(d *Decl) rt.ObjectBuilder {
	co := d.ClassObject
	if co == nil {
		return nil
	}
	def := &rt.ObjectDef{
		Name:        d.Name + ".object",
		Constructor: b.constructor(co.Effect),
	}
	if co.Extends != "" {
		def.Bases = b.bases([]string{co.Extends})
	}
	return func(r *rt.Runtime) (rt.Value, error) {
		return r.CreateObject(def)
	}
}

// backingAccessor reads and writes the "$name" slot of the receiving namespace.
func backingAccessor(name string) *rt.Accessor {
	slot := "$" + name
	return &rt.Accessor{
		Get: func(_ *rt.Runtime, this rt.Value) (rt.Value, error) {
			ns, ok := this.(*rt.Namespace)
			if !ok {
				return nil, fmt.Errorf("%s: receiver is not a package", name)
			}
			if !ns.Has(slot) {
				return rt.Undefined, nil
			}
			return ns.Get(slot)
		},
		Set: func(_ *rt.Runtime, this rt.Value, v rt.Value) error {
			ns, ok := this.(*rt.Namespace)
			if !ok {
				return fmt.Errorf("%s: receiver is not a package", name)
			}
			return ns.Set(slot, v)
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
