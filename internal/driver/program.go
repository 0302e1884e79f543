// Package driver assembles the Symbol Table, Async Resolver, Trait Solver,
// Type Checker, Generic Specializer and Compilation Queue into one
// end-to-end run (§5 "Driver"), the way the teacher's
// internal/pipeline.Pipeline strings its Processor stages together
// (internal/pipeline/pipeline.go) — except each stage here fans out one
// goroutine per top-level element via golang.org/x/sync/errgroup instead of
// running a single pass over one AST.
package driver

import "github.com/BigBadE/Raven-Language-sub000/internal/types"

// Program is everything the driver needs to compile: every top-level
// struct, free function and impl block the frontend parsed, plus the name
// of the function to treat as the entry point (§4.2 "main function
// timeout").
type Program struct {
	Structs         []*types.RawStruct
	Functions       []*types.RawFunction
	Implementations []*types.RawImplementation
	EntryFunction   string
}
