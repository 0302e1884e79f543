// Package traits implements the Trait Solver (§4.3): deciding "does type T
// implement trait U?" over declared impl blocks and generic bounds, via a
// small recursive Horn-clause engine. The original Rust implementation
// binds an external logic engine (chalk, see
// _examples/original_source/language/syntax/src/chalk_support.rs and
// chalk_interner.rs); no example repo in this corpus ships a Prolog/Datalog
// library, so this solver is plain Go recursion with memoization instead —
// the one concern in this module that is stdlib-only by necessity (see
// DESIGN.md).
package traits

import (
	"sync"

	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Default overflow limits from §4.3: "finite overflow depth (≈30) and a
// goal cap (≈3000); an unresolved overflow is treated as 'does not
// implement'".
const (
	DefaultMaxDepth = 30
	DefaultGoalCap  = 3000
)

// Solver answers trait-implementation questions against a Symbol Table's
// registered impl blocks.
type Solver struct {
	table    *symtab.Table
	MaxDepth int
	GoalCap  int

	cacheMu sync.Mutex
	cache   map[cacheKey]bool
}

type cacheKey struct {
	base, trait string
}

// New builds a Solver with the default overflow limits.
func New(table *symtab.Table) *Solver {
	return &Solver{
		table:    table,
		MaxDepth: DefaultMaxDepth,
		GoalCap:  DefaultGoalCap,
		cache:    make(map[cacheKey]bool),
	}
}

// goal tracks one resolve_generics/is-implemented recursion: depth, a
// shared goal counter, and the set of (base, trait) pairs already being
// resolved on this path, used to short-circuit self-recursive bounds like
// `T: Add<T>` (§4.3 edge cases).
type goal struct {
	depth      int
	maxDepth   int
	goalCap    int
	goalsSpent *int
	inProgress map[cacheKey]bool
}

func newGoal(maxDepth, goalCap int) *goal {
	spent := 0
	return &goal{maxDepth: maxDepth, goalCap: goalCap, goalsSpent: &spent, inProgress: make(map[cacheKey]bool)}
}

func (g *goal) descend() (*goal, bool) {
	*g.goalsSpent++
	if g.depth+1 > g.maxDepth || *g.goalsSpent > g.goalCap {
		return nil, false
	}
	return &goal{depth: g.depth + 1, maxDepth: g.maxDepth, goalCap: g.goalCap, goalsSpent: g.goalsSpent, inProgress: g.inProgress}, true
}

// IsOfType reports whether a value of type a may be used where b is
// required (§4.3 public contract, testable properties #2 and #3).
func (s *Solver) IsOfType(a, b types.Type) bool {
	return s.isOfType(a, b, newGoal(s.MaxDepth, s.GoalCap))
}

func (s *Solver) isOfType(a, b types.Type, g *goal) bool {
	a = types.Strip(a)
	b = types.Strip(b)

	switch bt := b.(type) {
	case types.Generic:
		for _, bound := range bt.Bounds {
			if !s.satisfies(a, bound, g) {
				return false
			}
		}
		return true

	case types.GenericType:
		at, ok := a.(types.GenericType)
		if !ok {
			return false
		}
		if types.BaseName(at.Base) != types.BaseName(bt.Base) {
			return false
		}
		if len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !s.isOfType(at.Args[i], bt.Args[i], g) {
				return false
			}
		}
		return true

	default:
		// Concrete Struct/Array: equality is by pre-$ name (§3 invariant).
		return types.BaseName(a) == types.BaseName(b)
	}
}

// Implements reports whether t implements the named trait, either via a
// declared impl block or via a generic bound already in scope. Unlike
// IsOfType (which compares two Type values structurally), this is the
// entry point for "is the trait named traitName satisfied by t" questions
// where the caller only has the trait's name, e.g. argument coercion
// against a trait-typed formal parameter (§4.4).
func (s *Solver) Implements(t types.Type, traitName string) bool {
	return s.satisfies(t, traitName, newGoal(s.MaxDepth, s.GoalCap))
}

// satisfies decides whether t implements the named trait, via a declared
// impl block or via a generic bound already in scope.
func (s *Solver) satisfies(t types.Type, traitName string, g *goal) bool {
	t = types.Strip(t)

	if gt, ok := t.(types.Generic); ok {
		for _, bound := range gt.Bounds {
			if bound == traitName {
				return true
			}
		}
		return false
	}

	key := cacheKey{base: types.BaseName(t), trait: traitName}
	if g.inProgress[key] {
		// Self-recursive bound (T: Add<T>): satisfied on re-entry (§4.3).
		return true
	}

	s.cacheMu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.Unlock()
		return cached
	}
	s.cacheMu.Unlock()

	next, ok := g.descend()
	if !ok {
		return false // overflow: treated as "does not implement" (§4.3)
	}
	next.inProgress[key] = true

	impls := s.table.AllImplementations()[traitName]
	result := false
	for _, impl := range impls {
		if types.BaseName(impl.Base) != types.BaseName(t) {
			continue
		}
		if s.implHolds(impl, next) {
			result = true
			break
		}
	}

	delete(next.inProgress, key)

	s.cacheMu.Lock()
	s.cache[key] = result
	s.cacheMu.Unlock()
	return result
}

// implHolds checks an impl block's universally-quantified requirements:
// `for all generic params. U<...> is implemented for T<...>` (§4.3
// encoding) holds once its declared Requirements are satisfied for the
// impl's own generic parameters.
func (s *Solver) implHolds(impl symtab.Implementation, g *goal) bool {
	for _, param := range impl.Generics {
		for _, bound := range param.Bounds {
			if !s.satisfies(types.Generic{Name: param.Name, Bounds: param.Bounds}, bound, g) {
				return false
			}
		}
	}
	return true
}

// FindImplementations returns every impl block whose declared target
// unifies with u and whose base unifies with t (§4.3 public contract),
// used for downcast method-set lookup and generic method dispatch.
func (s *Solver) FindImplementations(t, u types.Type) []symtab.Implementation {
	traitName := types.BaseName(u)
	impls := s.table.AllImplementations()[traitName]

	var targetArgs []types.Type
	if gt, ok := types.Strip(u).(types.GenericType); ok {
		targetArgs = gt.Args
	}

	var out []symtab.Implementation
	for _, impl := range impls {
		if types.BaseName(impl.Base) != types.BaseName(t) {
			continue
		}
		if len(targetArgs) > 0 {
			if len(impl.TargetArgs) != len(targetArgs) {
				continue
			}
			mismatch := false
			for i := range targetArgs {
				if !s.IsOfType(impl.TargetArgs[i], targetArgs[i]) && !s.IsOfType(targetArgs[i], impl.TargetArgs[i]) {
					mismatch = true
					break
				}
			}
			if mismatch {
				continue
			}
		}
		out = append(out, impl)
	}
	return out
}
