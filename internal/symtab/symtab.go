// Package symtab implements the process-wide Symbol Table (§4.1): the
// single registry of every struct, function and operator known to the
// program, together with the waiter lists that let the Async Resolver
// suspend a lookup until the name shows up or the table closes.
//
// The table is behind one sync.Mutex, held only for the duration of a
// lookup/insert/drain-waiters — never across a channel receive (§5 "Shared
// resources"). A waiter is a channel closed exactly once, either by add()
// or by Finish(), which is how Go expresses the "exactly one wake per
// waiter" invariant (testable property #6) without a callback-waker list
// like the original Rust implementation's std::task::Waker vectors
// (language/syntax/src/async_getters.rs).
package symtab

import (
	"sync"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// structEntry is the header (and, once resolved, the fields) for one
// registered struct name.
type structEntry struct {
	data      *types.StructData
	finalized *types.FinalizedStruct // nil until fields are resolved

	mu            sync.Mutex
	fieldsWaiters []chan struct{}
}

// funcEntry is the header (and, once checked, the body) for one registered
// function name.
type funcEntry struct {
	codeless *types.CodelessFinalizedFunction
	body     *types.FinalizedCodeBody // nil until the body phase finishes

	mu          sync.Mutex
	bodyWaiters []chan struct{}
}

// Table is the Symbol Table. The zero value is not usable; use New.
type Table struct {
	mu sync.Mutex

	structs map[string]*structEntry
	funcs   map[string]*funcEntry

	// operatorIndex maps an operator's surface "operation(...)" pattern to
	// the canonical name of the trait struct that implements it (§4.1 add,
	// §6 attribute table).
	operatorIndex map[string]string

	// implementations indexes every registered impl block by the trait it
	// targets, for the Trait Solver (§4.3) and the Async Resolver's
	// implementation fetch (§4.2).
	implementations map[string][]Implementation

	structWaiters map[string][]chan struct{}
	funcWaiters   map[string][]chan struct{}

	pendingImplBlocks int // parser's impl counter (§4.2 implementation fetch)
	implWaiters       []chan struct{}

	closed bool
}

// Implementation is one declared `impl Trait<targetArgs> for Base<baseArgs>`
// block (§3, §4.3).
type Implementation struct {
	Trait       string
	TargetArgs  []types.Type
	Base        types.Type
	BaseArgs    []types.Type
	Generics    []types.GenericParam
	Methods     map[string]string // trait method name -> concrete function canonical name
}

// New creates an empty Symbol Table.
func New() *Table {
	return &Table{
		structs:         make(map[string]*structEntry),
		funcs:           make(map[string]*funcEntry),
		operatorIndex:   make(map[string]string),
		implementations: make(map[string][]Implementation),
		structWaiters:   make(map[string][]chan struct{}),
		funcWaiters:     make(map[string][]chan struct{}),
	}
}
