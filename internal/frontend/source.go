// source.go implements the "tiny literal surface syntax" SPEC_FULL.md
// names for this stand-in (§1, package table): just enough surface
// grammar — struct/fn/impl declarations, integer literals, variable
// loads and calls — to drive the middle-end through spec.md §8's
// scenarios from a text file instead of hand-built Raw* values. It is
// not, and is not meant to become, a real parser: real surface syntax is
// explicitly out of scope.
package frontend

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/BigBadE/Raven-Language-sub000/internal/driver"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// ParseSource reads the tiny DSL below into a runnable Program.
//
//	struct Name
//	fn name<T, U: Bound>(arg: Type, ...) -> RetType { stmt; stmt; ... }
//	impl Trait for Base { fn method(self: Base, ...) -> Type { ... } }
//	entry name
func ParseSource(src string) (*driver.Program, error) {
	p := &parser{toks: tokenize(src)}
	b := New()
	for !p.atEnd() {
		switch p.peek() {
		case "struct":
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			b.Struct(s)
		case "fn":
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			b.Function(fn)
		case "impl":
			impl, err := p.parseImpl()
			if err != nil {
				return nil, err
			}
			b.Implementation(impl)
		case "entry":
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			b.Entry(name)
		default:
			return nil, fmt.Errorf("frontend: unexpected token %q", p.peek())
		}
	}
	return b.Build()
}

// --- tokenizer ---

func tokenize(src string) []string {
	var toks []string
	runes := []rune(src)
	i := 0
	isSym := func(r rune) bool { return strings.ContainsRune("(){}<>,:;=.", r) }
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '-' && i+1 < len(runes) && runes[i+1] == '>':
			toks = append(toks, "->")
			i += 2
		case isSym(r):
			toks = append(toks, string(r))
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		default:
			i++
		}
	}
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) atEnd() bool   { return p.pos >= len(p.toks) }
func (p *parser) peek() string {
	if p.atEnd() {
		return ""
	}
	return p.toks[p.pos]
}
func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}
func (p *parser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("frontend: expected %q, got %q", tok, p.peek())
	}
	p.next()
	return nil
}
func (p *parser) expectIdent() (string, error) {
	t := p.peek()
	if t == "" || strings.ContainsAny(t, "(){}<>,:;=.") || t == "->" {
		return "", fmt.Errorf("frontend: expected identifier, got %q", t)
	}
	p.next()
	return t, nil
}

func (p *parser) parseStruct() (*types.RawStruct, error) {
	if err := p.expect("struct"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &types.RawStruct{Name: name}, nil
}

func (p *parser) parseGenerics() ([]types.RawGeneric, error) {
	if p.peek() != "<" {
		return nil, nil
	}
	p.next()
	var generics []types.RawGeneric
	for p.peek() != ">" {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		g := types.RawGeneric{Name: name}
		if p.peek() == ":" {
			p.next()
			bound, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			g.Bounds = []string{bound}
		}
		generics = append(generics, g)
		if p.peek() == "," {
			p.next()
		}
	}
	p.next()
	return generics, nil
}

func (p *parser) parseArgs() ([]types.RawArg, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []types.RawArg
	for p.peek() != ")" {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		typeName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		args = append(args, types.RawArg{Name: name, TypeName: typeName})
		if p.peek() == "," {
			p.next()
		}
	}
	p.next()
	return args, nil
}

func (p *parser) parseFunction() (*types.RawFunction, error) {
	if err := p.expect("fn"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	var retType string
	if p.peek() == "->" {
		p.next()
		retType, err = p.expectIdent()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &types.RawFunction{Name: name, Generics: generics, Arguments: args, ReturnType: retType, Body: body}, nil
}

func (p *parser) parseImpl() (*types.RawImplementation, error) {
	if err := p.expect("impl"); err != nil {
		return nil, err
	}
	trait, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect("for"); err != nil {
		return nil, err
	}
	base, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var fns []*types.RawFunction
	for p.peek() != "}" {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	p.next()
	return &types.RawImplementation{BaseType: base, TraitType: trait, Functions: fns}, nil
}

func (p *parser) parseBody() (*types.CodeBody, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var stmts []types.Statement
	for p.peek() != "}" {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.peek() == ";" {
			p.next()
		}
	}
	p.next()
	return &types.CodeBody{Label: "entry", Statements: stmts}, nil
}

func (p *parser) parseStatement() (types.Statement, error) {
	if p.peek() == "return" {
		p.next()
		val, err := p.parseExpr()
		if err != nil {
			return types.Statement{}, err
		}
		return types.Statement{Kind: types.StmtReturn, Effect: types.Return{Value: val}}, nil
	}
	if p.peek() == "let" {
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return types.Statement{}, err
		}
		if err := p.expect("="); err != nil {
			return types.Statement{}, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return types.Statement{}, err
		}
		return types.Statement{Kind: types.StmtLine, Effect: types.CreateVariable{Name: name, Init: init}}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return types.Statement{}, err
	}
	return types.Statement{Kind: types.StmtLine, Effect: expr}, nil
}

// parseExpr handles one primary term followed by any number of ".method(args)"
// suffixes — the only composition this DSL supports.
func (p *parser) parseExpr() (types.Effect, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "." {
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		e = types.MethodCall{Receiver: e, Name: name, Args: args}
	}
	return e, nil
}

func (p *parser) parsePrimary() (types.Effect, error) {
	tok := p.peek()
	if tok == "" {
		return nil, fmt.Errorf("frontend: unexpected end of input in expression")
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		p.next()
		return types.IntLiteral{Value: n}, nil
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.peek() == "(" {
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return types.MethodCall{Name: name, Args: args}, nil
	}
	return types.LoadVariable{Name: name}, nil
}

func (p *parser) parseCallArgs() ([]types.Effect, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []types.Effect
	for p.peek() != ")" {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek() == "," {
			p.next()
		}
	}
	p.next()
	return args, nil
}
