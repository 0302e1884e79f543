// Package types defines the five-variant type algebra of the middle-end
// (struct, generic-applied struct, reference, unresolved generic parameter,
// array) together with the struct/function symbol records that flow through
// the Symbol Table, Type Checker and Generic Specializer.
package types

import (
	"sort"
	"strings"
)

// Type is the sum of every type shape the checker and specializer handle.
// A Type reaching the Compilation Queue must contain no Generic and no
// unflattened GenericType (invariant #1 in the testable-properties list).
type Type interface {
	String() string
	isType()
}

// Struct is a concrete nominal type backed by a registered struct record.
type Struct struct {
	Handle *StructData
}

func (Struct) isType() {}
func (s Struct) String() string {
	if s.Handle == nil {
		return "<unresolved struct>"
	}
	return s.Handle.Name
}

// GenericType is a nominal type with type arguments still attached, e.g.
// Box<T> before T has been substituted. Must be flattened before codegen.
type GenericType struct {
	Base Type
	Args []Type
}

func (GenericType) isType() {}
func (g GenericType) String() string {
	return g.Base.String() + "<" + joinTypes(g.Args, ", ") + ">"
}

// Reference is a pointer/box wrapper, transparent to equality and trait
// checks: Strip always removes it before any structural comparison.
type Reference struct {
	Inner Type
}

func (Reference) isType() {}
func (r Reference) String() string {
	return "&" + r.Inner.String()
}

// Generic is an unresolved type parameter together with its trait upper
// bounds, e.g. T: Add<T> + Show.
type Generic struct {
	Name   string
	Bounds []string
}

func (Generic) isType() {}
func (g Generic) String() string {
	if len(g.Bounds) == 0 {
		return g.Name
	}
	return g.Name + ": " + strings.Join(g.Bounds, " + ")
}

// Array is a homogeneous sequence type.
type Array struct {
	Element Type
}

func (Array) isType() {}
func (a Array) String() string {
	return "[" + a.Element.String() + "]"
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// Strip removes any number of Reference wrappers, returning the first
// non-reference type underneath. Reference is always transparent to type
// equality and trait checks (§3 invariant).
func Strip(t Type) Type {
	for {
		r, ok := t.(Reference)
		if !ok {
			return t
		}
		t = r.Inner
	}
}

// BaseName returns the canonical equality key for a type: the struct or
// generic-type name with any "$..." specialization suffix removed. Two
// specializations of the same generic struct share a BaseName, which is
// what makes them "the same type" for trait targeting (§3).
func BaseName(t Type) string {
	t = Strip(t)
	switch tt := t.(type) {
	case Struct:
		return StripSuffix(tt.Handle.Name)
	case GenericType:
		return BaseName(tt.Base)
	case Generic:
		return tt.Name
	case Array:
		return "[]" + BaseName(tt.Element)
	default:
		return ""
	}
}

// StripSuffix removes a "$arg1_arg2_..." specialization suffix from a
// canonical name, returning the base generic name.
func StripSuffix(name string) string {
	if idx := strings.IndexByte(name, '$'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// SpecializationName builds the canonical name for a generic specialization:
// <base-name-before-$>$<arg1>_<arg2>_... (§4.5 Naming). argNames must already
// be in declared-generic-parameter order; callers needing a stable cache key
// when order doesn't matter should sort before calling.
func SpecializationName(baseName string, argNames []string) string {
	base := StripSuffix(baseName)
	if len(argNames) == 0 {
		return base
	}
	return base + "$" + strings.Join(argNames, "_")
}

// SortedBindingNames returns the binding map's keys in sorted order, for a
// deterministic iteration over generic-name -> concrete-type bindings.
// Specialization naming does not use it; it follows declared generic order.
func SortedBindingNames(bindings map[string]Type) []string {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
