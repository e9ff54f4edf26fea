package typenode

import (
	"fmt"
	"slices"
	"strings"

	"typemeta/internal/typesys"
)

// ArrayMarker is the name of array nodes.
const ArrayMarker = "[]"

// Node is the serializable shape of a type.
type Node struct {
	Module string
	Name   string
	Args   []*Node
}

// IsArray reports whether n describes an array type.
func (n *Node) IsArray() bool { return n.Name == ArrayMarker }

// FromType builds the node of t. Generic arguments that are still unbound
// parameters are omitted, so an open definition becomes a node without
// arguments.
func FromType(t *typesys.Type) (*Node, error) {
	switch {
	case t == nil:
		return nil, fmt.Errorf("%w: nil type", typesys.ErrTypeMismatch)
	case t.IsGenericParameter():
		return nil, fmt.Errorf("%w: %s", typesys.ErrGenericParameter, t)
	case t.IsArray():
		elem, err := FromType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("element of %s: %w", t, err)
		}

		return &Node{Name: ArrayMarker, Args: []*Node{elem}}, nil
	}

	def := t
	if t.IsConstructed() {
		def = t.Definition()
	}

	n := &Node{Module: def.Module().Name(), Name: def.Name()}

	if !t.IsConstructed() {
		return n, nil
	}

	for _, a := range t.TypeArgs() {
		if a.IsGenericParameter() {
			continue
		}

		arg, err := FromType(a)
		if err != nil {
			return nil, fmt.Errorf("argument of %s: %w", t, err)
		}

		n.Args = append(n.Args, arg)
	}

	return n, nil
}

// ToType resolves n against the modules of u. A node naming a module or
// type that u does not know fails with typesys.ErrUntrustedType.
func ToType(u *typesys.Universe, n *Node) (*typesys.Type, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", typesys.ErrTypeMismatch)
	}

	if n.IsArray() {
		if len(n.Args) != 1 {
			return nil, fmt.Errorf("%w: array node needs one element, got %d", typesys.ErrTypeMismatch, len(n.Args))
		}

		elem, err := ToType(u, n.Args[0])
		if err != nil {
			return nil, err
		}

		return u.ArrayOf(elem)
	}

	t, err := lookup(u, n.Module, n.Name)
	if err != nil {
		return nil, err
	}

	if len(n.Args) == 0 {
		return t, nil
	}

	args := make([]*typesys.Type, 0, len(n.Args))

	for _, a := range n.Args {
		arg, err := ToType(u, a)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return u.Instantiate(t, args...)
}

func lookup(u *typesys.Universe, module, name string) (*typesys.Type, error) {
	m, ok := u.Module(module)
	if !ok {
		return nil, untrusted(module+" "+name, "module", module, u.ModuleNames())
	}

	t, ok := m.Lookup(name)
	if !ok {
		if err := m.Broken(); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", typesys.ErrUntrustedType, module, name, err)
		}

		return nil, untrusted(module+" "+name, "type", name, m.TypeNames())
	}

	return t, nil
}

// String returns the text form of n.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)

	return strings.TrimSuffix(sb.String(), "\n")
}

func (n *Node) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("\t", depth))

	if n.IsArray() {
		sb.WriteString(ArrayMarker)
	} else {
		sb.WriteString(n.Module)
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
	}

	sb.WriteByte('\n')

	for _, a := range n.Args {
		a.write(sb, depth+1)
	}
}

// Equal reports whether n and other describe the same type shape.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	return n.Module == other.Module && n.Name == other.Name &&
		slices.EqualFunc(n.Args, other.Args, (*Node).Equal)
}

// MarshalText implements encoding.TextMarshaler.
func (n *Node) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Node) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*n = *parsed

	return nil
}
