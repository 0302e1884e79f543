package types

// RawArg is one unfinalized argument or field: a name paired with a
// not-yet-resolved type name, to be fetched through the Async Resolver
// (§6 input: "parsed fields/arguments as a list of futures yielding
// resolved types"). TypeArgs holds generic-application arguments for a
// raw GenericType reference (e.g. "Box" with TypeArgs ["T"]).
type RawArg struct {
	Name     string
	TypeName string
	TypeArgs []string
}

// RawGeneric is one unresolved generic parameter: a name with a list of
// trait-bound names (§6 input: "an ordered generic-parameter table keyed
// by name with a list of bound-type futures").
type RawGeneric struct {
	Name   string
	Bounds []string
}

// RawFunction is an unfinalized function as the frontend hands it to the
// Type Checker (§6 input).
type RawFunction struct {
	Modifiers  uint8
	Attrs      []Attribute
	Span       Span
	Name       string
	Generics   []RawGeneric
	Arguments  []RawArg
	ReturnType string // empty means void
	Body       *CodeBody
}

// RawStruct is an unfinalized struct declaration (§6 input).
type RawStruct struct {
	Modifiers uint8
	Attrs     []Attribute
	Span      Span
	Name      string
	Generics  []RawGeneric
	Fields    []RawArg
}

// RawImplementation is an unfinalized trait implementor declaration (§6
// input: "a list of trait implementor declarations, each pairing a base
// type future, a target-trait type future, a generics table, and a list
// of unfinalized functions").
type RawImplementation struct {
	Span       Span
	BaseType   string
	BaseArgs   []string
	TraitType  string
	TraitArgs  []string
	Generics   []RawGeneric
	Functions  []*RawFunction
}
