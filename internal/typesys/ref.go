package typesys

import (
	"fmt"
	"strings"
)

// Scope resolves bare names inside a type reference: generic parameters of
// the declaration being built first, then types of the module.
type Scope struct {
	Module *Module
	Params []*Type
}

// ScopeOf returns the scope of a declaration: its module and, for generic
// definitions, its parameters.
func ScopeOf(t *Type) Scope {
	return Scope{Module: t.Module(), Params: t.params}
}

// ParseRef resolves a textual type reference written in the display syntax:
//
//	core.Int
//	core.List[core.Int]
//	core.Dictionary[core.String,core.List[T]]
//	core.List[]           (open definition)
//	[]core.Int            (array)
//
// The module is everything before the last dot of the qualified name. Names
// without a module are resolved in scope.
func (u *Universe) ParseRef(ref string, scope Scope) (*Type, error) {
	p := &refParser{u: u, src: ref, scope: scope}

	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("parse type reference %q: %w", ref, err)
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse type reference %q: unexpected %q at %d", ref, p.src[p.pos:], p.pos)
	}

	return t, nil
}

type refParser struct {
	u     *Universe
	src   string
	pos   int
	scope Scope
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *refParser) peek() byte {
	p.skipSpace()

	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *refParser) parse() (*Type, error) {
	p.skipSpace()

	if strings.HasPrefix(p.src[p.pos:], "[]") {
		p.pos += 2

		elem, err := p.parse()
		if err != nil {
			return nil, err
		}

		return p.u.ArrayOf(elem)
	}

	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("[], \t", rune(p.src[p.pos])) {
		p.pos++
	}

	qname := p.src[start:p.pos]
	if qname == "" {
		return nil, fmt.Errorf("%w: missing type name at %d", ErrNotFound, start)
	}

	t, err := p.lookup(qname)
	if err != nil {
		return nil, err
	}

	if p.peek() != '[' {
		return t, nil
	}

	p.pos++

	// Open form: List[] or Dictionary[,].
	if c := p.peek(); c == ']' || c == ',' {
		arity := 1
		for p.peek() == ',' {
			arity++
			p.pos++
		}

		if p.peek() != ']' {
			return nil, fmt.Errorf("expected ']' at %d", p.pos)
		}

		p.pos++

		if !t.IsGenericDefinition() || t.Arity() != arity {
			return nil, fmt.Errorf("%w: %s is not a generic definition of arity %d", ErrTypeMismatch, qname, arity)
		}

		return t, nil
	}

	var args []*Type

	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return p.u.Instantiate(t, args...)
		default:
			return nil, fmt.Errorf("expected ',' or ']' at %d", p.pos)
		}
	}
}

func (p *refParser) lookup(qname string) (*Type, error) {
	dot := strings.LastIndexByte(qname, '.')
	if dot < 0 {
		for _, param := range p.scope.Params {
			if param.name == qname {
				return param, nil
			}
		}

		if p.scope.Module == nil {
			return nil, fmt.Errorf("%w: type %s (no module in scope)", ErrNotFound, qname)
		}

		if t, ok := p.scope.Module.Lookup(qname); ok {
			return t, nil
		}

		return nil, fmt.Errorf("%w: type %s in module %s", ErrNotFound, qname, p.scope.Module.name)
	}

	modName, name := qname[:dot], qname[dot+1:]

	m, ok := p.u.Module(modName)
	if !ok {
		return nil, fmt.Errorf("%w: module %s", ErrNotFound, modName)
	}

	t, ok := m.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: type %s in module %s", ErrNotFound, name, modName)
	}

	return t, nil
}
