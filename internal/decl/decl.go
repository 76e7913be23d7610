// Package decl describes the resolved top-level declarations of one
// compilation unit, as handed over by the resolver.
package decl

import (
	"declower/internal/rt"
	"declower/internal/source"
)

// ID is the stable creation-order identity of a declaration.
type ID uint32

// Kind is the declaration variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNestedClass
	KindNestedTrait
	KindObject
	KindProperty
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNestedClass:
		return "class"
	case KindNestedTrait:
		return "trait"
	case KindObject:
		return "object"
	case KindProperty:
		return "property"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Visibility of a declaration.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Internal
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Internal:
		return "internal"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// IsPublicAPI reports whether the declaration is reachable from outside the module.
func (v Visibility) IsPublicAPI() bool {
	return v == Public || v == Protected
}

// Property carries the resolver's facts about a property declaration.
type Property struct {
	// SimpleFinal: immutable, no custom accessors, backed by a plain slot.
	SimpleFinal bool
	Initializer rt.Expr
	Delegate    rt.Expr
	// Accessor is the generated getter/setter pair of a non-simple property.
	Accessor *rt.Accessor
}

// Declaration is one resolved top-level declaration.
type Declaration struct {
	ID         ID
	Kind       Kind
	Name       string
	Visibility Visibility
	Span       source.Span
	// Predefined marks compiler-synthesized entities; they are never lowered.
	Predefined bool

	Class    *rt.ClassDef
	Object   *rt.ObjectDef
	Function *rt.Function
	Property *Property
}
