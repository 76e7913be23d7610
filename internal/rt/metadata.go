package rt

import (
	"fmt"
	"slices"
)

// Kind distinguishes classes, traits and object declarations.
type Kind uint8

const (
	KindClass Kind = iota + 1
	KindTrait
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindTrait:
		return "trait"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// MemberKind separates functions from properties in a member list.
type MemberKind uint8

const (
	MemberFunction MemberKind = iota
	MemberProperty
)

// MemberDef is an own member as supplied by the translated class body.
// Functions carry a *Function; properties carry an *Accessor or a default value.
type MemberDef struct {
	Name  string
	Kind  MemberKind
	Value Value
}

// Member is a MemberDef tagged with the classIndex of the class that defined it.
type Member struct {
	Name       string
	Kind       MemberKind
	Value      Value
	ClassIndex uint32
}

// Metadata is the immutable description of a constructed class, trait or object.
type Metadata struct {
	Kind       Kind
	ClassIndex uint32
	// Bases is the declared base list, in declaration order.
	Bases []Type
	// Primary is the base used for the prototype chain, or nil.
	Primary Type

	OwnFunctions  map[string]Member
	OwnProperties map[string]Member
	Functions     map[string]Member
	Properties    map[string]Member
}

// computeMetadata builds metadata for index. Own members are inserted first;
// inherited ones are folded in base order, and a name already present is only
// replaced by an entry with a strictly greater classIndex.
func computeMetadata(index uint32, kind Kind, bases []Type, own []MemberDef) (*Metadata, error) {
	md := &Metadata{
		Kind:          kind,
		ClassIndex:    index,
		Bases:         append([]Type(nil), bases...),
		OwnFunctions:  make(map[string]Member),
		OwnProperties: make(map[string]Member),
		Functions:     make(map[string]Member),
		Properties:    make(map[string]Member),
	}

	primary, err := primaryBase(md.Bases)
	if err != nil {
		return nil, err
	}
	md.Primary = primary

	for _, def := range own {
		m := Member{Name: def.Name, Kind: def.Kind, Value: def.Value, ClassIndex: index}
		if def.Kind == MemberFunction {
			md.OwnFunctions[def.Name] = m
			md.Functions[def.Name] = m
		} else {
			md.OwnProperties[def.Name] = m
			md.Properties[def.Name] = m
		}
	}

	for _, b := range md.Bases {
		bc, ok := b.(*Class)
		if !ok {
			continue
		}
		applyExtension(md.Functions, bc.meta.Functions)
		applyExtension(md.Properties, bc.meta.Properties)
	}
	return md, nil
}

func applyExtension(current, inherited map[string]Member) {
	names := make([]string, 0, len(inherited))
	for name := range inherited {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		in := inherited[name]
		if cur, ok := current[name]; ok && cur.ClassIndex >= in.ClassIndex {
			continue
		}
		current[name] = in
	}
}

// primaryBase picks the first native base or class base; traits never
// become part of the prototype chain.
func primaryBase(bases []Type) (Type, error) {
	var primary Type
	for _, b := range bases {
		switch bt := b.(type) {
		case *NativeType:
			if primary == nil {
				primary = bt
			}
		case *Class:
			if bt == nil || bt.meta == nil {
				return nil, fmt.Errorf("%w: nil class", ErrBadBase)
			}
			if bt.meta.Kind == KindObject {
				return nil, fmt.Errorf("%w: %s", ErrObjectBase, bt.name)
			}
			if primary == nil && bt.meta.Kind == KindClass {
				primary = bt
			}
		default:
			return nil, fmt.Errorf("%w: %T", ErrBadBase, b)
		}
	}
	return primary, nil
}
