package types

// GenericParam is one entry of a function or struct's ordered
// generic-parameter table: a name together with its declared trait bounds
// (§3, §6: "an ordered generic-parameter table keyed by name with a list of
// bound-type futures"). Kept as a slice, not a map, to preserve declaration
// order — the order in which the specializer resolves and substitutes them.
type GenericParam struct {
	Name   string
	Bounds []string
}

// FunctionData is the immutable header of a function declaration, stable
// across the whole compilation: modifiers, attributes, name, span and any
// poison errors. Generics copy this and rewrite only Name (§3).
type FunctionData struct {
	Modifiers uint8
	Attrs     []Attribute
	Name      string
	Span      Span
	Poisoned  []error
}

func (f *FunctionData) IsPoisoned() bool { return len(f.Poisoned) > 0 }

func (f *FunctionData) IsExtern() bool { return IsModifier(f.Modifiers, ModifierExtern) }

// CodelessFinalizedFunction is a function whose header — generics,
// argument types, return type — has been type-checked through the Async
// Resolver, but whose body has not (§3 lifecycle stage 2; Glossary). This
// split exists so recursive calls can link against a header without
// waiting on the body that contains the recursive call itself (§9).
type CodelessFinalizedFunction struct {
	Data       *FunctionData
	Generics   []GenericParam
	Arguments  []Field
	ReturnType Type // nil means void
}

// FinalizedFunction combines a CodelessFinalizedFunction with its checked
// body (§3 lifecycle stage 3).
type FinalizedFunction struct {
	Codeless *CodelessFinalizedFunction
	Code     *FinalizedCodeBody
}

// ToCodeless discards the body and returns the codeless header (mirrors
// FinalizedFunction::to_codeless in the original Rust source). The
// specializer does not call it; it builds headers from the Symbol Table's
// codeless record.
func (f *FinalizedFunction) ToCodeless() *CodelessFinalizedFunction {
	return f.Codeless
}

// NameKey returns the canonical name, which is the function's whole
// identity, matching the original's Hash/PartialEq impl (name-only identity
// for FunctionData). Maps and comparisons elsewhere use the Name field
// directly.
func (f *FunctionData) NameKey() string { return f.Name }

func (s *StructData) NameKey() string { return s.Name }
