package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/check"
	"github.com/BigBadE/Raven-Language-sub000/internal/compqueue"
	"github.com/BigBadE/Raven-Language-sub000/internal/resolve"
	"github.com/BigBadE/Raven-Language-sub000/internal/specialize"
	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/traits"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds the whole compile, independent of the entry
// function's own timeout (§4.2 "Cancellation & timeouts": "a global
// timeout wraps the whole compilation").
const DefaultTimeout = 30 * time.Second

// Driver wires every middle-end component together and drives one
// compilation of a Program through header, field, implementation and body
// phases to a finished Compilation Queue (§5 "Driver").
type Driver struct {
	Table       *symtab.Table
	Resolver    *resolve.Resolver
	Solver      *traits.Solver
	Checker     *check.Checker
	Specializer *specialize.Specializer
	Queue       *compqueue.Queue

	Timeout      time.Duration
	EntryTimeout time.Duration
}

// New assembles a fresh Driver with an empty Symbol Table and the default
// timeouts.
func New() *Driver {
	table := symtab.New()
	queue := compqueue.New()
	r := resolve.New(table)
	s := traits.New(table)
	c := check.New(table, r, s)
	spec := specialize.New(table, queue)
	c.Specializer = spec

	return &Driver{
		Table:        table,
		Resolver:     r,
		Solver:       s,
		Checker:      c,
		Specializer:  spec,
		Queue:        queue,
		Timeout:      DefaultTimeout,
		EntryTimeout: resolve.DefaultEntryTimeout,
	}
}

// Run compiles a Program end to end in sequential phases (headers, then
// fields, then implementations, then bodies), each phase fanning its
// elements out concurrently, pushing each finalized
// function onto the Compilation Queue as it completes. Returns the queue's
// final emission order.
func (d *Driver) Run(ctx context.Context, prog *Program) ([]*types.FinalizedFunction, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	// Finish/Close unconditionally on the way out, on every path, so a
	// failure at any phase still wakes every suspended waiter instead of
	// leaving the run hanging (§8 scenario E: "no hang").
	defer d.Table.Finish()
	defer d.Queue.Close()

	for range prog.Implementations {
		d.Table.BeginImplBlock()
	}

	if err := d.runHeaders(ctx, prog); err != nil {
		return nil, err
	}
	if err := d.runFields(ctx, prog); err != nil {
		return nil, err
	}
	if err := d.runImplementations(ctx, prog); err != nil {
		return nil, err
	}
	if err := d.runBodies(ctx, prog); err != nil {
		return nil, err
	}

	if prog.EntryFunction != "" {
		if _, err := d.Resolver.ResolveEntryFunction(ctx, prog.EntryFunction, d.EntryTimeout); err != nil {
			return nil, err
		}
	}

	return d.Queue.Order(), nil
}

func (d *Driver) runHeaders(ctx context.Context, prog *Program) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range prog.Structs {
		s := s
		g.Go(func() error {
			_, err := d.Checker.CheckStructHeader(s)
			return err
		})
	}
	for _, fn := range prog.Functions {
		fn := fn
		g.Go(func() error {
			_, err := d.Checker.CheckFunctionHeader(gctx, resolve.Scope{}, fn)
			return err
		})
	}
	return g.Wait()
}

func (d *Driver) runFields(ctx context.Context, prog *Program) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range prog.Structs {
		s := s
		g.Go(func() error {
			data, ok := d.Table.LookupStruct(s.Name)
			if !ok {
				return fmt.Errorf("struct %q has no published header", s.Name)
			}
			_, err := d.Checker.ResolveStructFields(gctx, resolve.Scope{}, s, data)
			return err
		})
	}
	return g.Wait()
}

// runImplementations resolves each impl block's base/trait types, publishes
// its methods under their qualified "Base.method" names (§4.4 "look up the
// function by the Type.method qualified name"), and registers the block
// with the Trait Solver so Implementations() unblocks (§4.2
// "implementation fetch").
func (d *Driver) runImplementations(ctx context.Context, prog *Program) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, impl := range prog.Implementations {
		impl := impl
		g.Go(func() error {
			return d.runOneImplementation(gctx, impl)
		})
	}
	return g.Wait()
}

func (d *Driver) runOneImplementation(ctx context.Context, impl *types.RawImplementation) error {
	scope := resolve.Scope{}
	base, err := d.Resolver.ResolveType(ctx, impl.Span, scope, impl.BaseType)
	if err != nil {
		return err
	}
	baseArgs, err := resolveAll(ctx, d.Resolver, scope, impl.Span, impl.BaseArgs)
	if err != nil {
		return err
	}
	traitArgs, err := resolveAll(ctx, d.Resolver, scope, impl.Span, impl.TraitArgs)
	if err != nil {
		return err
	}

	generics := make([]types.GenericParam, len(impl.Generics))
	for i, gp := range impl.Generics {
		generics[i] = types.GenericParam{Name: gp.Name, Bounds: gp.Bounds}
	}

	baseName := types.BaseName(base)
	methods := make(map[string]string, len(impl.Functions))
	for _, fn := range impl.Functions {
		qualified := fmt.Sprintf("%s.%s", baseName, fn.Name)
		qualifiedFn := *fn
		qualifiedFn.Name = qualified
		if _, err := d.Checker.CheckFunctionHeader(ctx, scope, &qualifiedFn); err != nil {
			return err
		}
		methods[fn.Name] = qualified
	}

	d.Table.EndImplBlock(symtab.Implementation{
		Trait:      impl.TraitType,
		TargetArgs: traitArgs,
		Base:       base,
		BaseArgs:   baseArgs,
		Generics:   generics,
		Methods:    methods,
	})
	return nil
}

func resolveAll(ctx context.Context, r *resolve.Resolver, scope resolve.Scope, span types.Span, names []string) ([]types.Type, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]types.Type, len(names))
	for i, name := range names {
		t, err := r.ResolveType(ctx, span, scope, name)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (d *Driver) runBodies(ctx context.Context, prog *Program) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range prog.Functions {
		fn := fn
		g.Go(func() error {
			return d.checkAndPush(gctx, fn.Name, fn)
		})
	}
	for _, impl := range prog.Implementations {
		base := impl.BaseType
		for _, fn := range impl.Functions {
			fn := fn
			qualified := fmt.Sprintf("%s.%s", base, fn.Name)
			g.Go(func() error {
				return d.checkAndPush(gctx, qualified, fn)
			})
		}
	}
	return g.Wait()
}

func (d *Driver) checkAndPush(ctx context.Context, qualified string, raw *types.RawFunction) error {
	if raw.Body == nil {
		return nil
	}
	codeless, ok := d.Table.LookupFunction(qualified)
	if !ok {
		return fmt.Errorf("function %q has no published header", qualified)
	}
	body, err := d.Checker.CheckFunctionBody(ctx, codeless, raw)
	if err != nil {
		return err
	}
	d.Queue.Push(&types.FinalizedFunction{Codeless: codeless, Code: body})
	return nil
}
