package typeinfo

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"typemeta/internal/common"
	"typemeta/internal/typesys"
)

// IsSubclassOfOpenGeneric reports whether def, an open generic definition,
// appears among the generic definitions of t's base chain or interfaces.
// It is false when def is not a definition or t has no metadata.
func (s *Storage) IsSubclassOfOpenGeneric(t, def *typesys.Type) bool {
	if t == nil || def == nil || !def.IsGenericDefinition() {
		return false
	}

	info, err := s.Get(t)
	if err != nil {
		return false
	}

	return slices.Contains(info.GenericTypeDefinitions, def) ||
		slices.Contains(info.GenericInterfaceDefinitions, def)
}

// instantiations returns the distinct generic types in src's base chain and
// interfaces whose definition is def.
func (s *Storage) instantiations(src, def *typesys.Type) ([]*typesys.Type, error) {
	info, err := s.Get(src)
	if err != nil {
		return nil, err
	}

	var out []*typesys.Type

	for _, cur := range append([]*typesys.Type{src}, info.BaseTypes...) {
		if cur.Definition() == def {
			out = appendDistinct(out, cur)
		}
	}

	for _, i := range info.Interfaces {
		if i.Definition() == def {
			out = appendDistinct(out, i)
		}
	}

	return out, nil
}

func checkDefinition(def *typesys.Type) error {
	if def == nil || !def.IsGenericDefinition() {
		return fmt.Errorf("%w: %v is not an open generic definition", typesys.ErrTypeMismatch, def)
	}

	return nil
}

// ExtractGenericArgumentsAt returns the distinct type arguments at position
// pos of every instantiation of def implemented by src. A type may implement
// the same definition several times, e.g. IComparable[A] and IComparable[B].
func (s *Storage) ExtractGenericArgumentsAt(src, def *typesys.Type, pos int) ([]*typesys.Type, error) {
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	if pos < 0 || pos >= def.Arity() {
		return nil, fmt.Errorf("%w: %s has no type argument at position %d", typesys.ErrTypeMismatch, def, pos)
	}

	insts, err := s.instantiations(src, def)
	if err != nil {
		return nil, err
	}

	var args []*typesys.Type
	for _, inst := range insts {
		args = appendDistinct(args, inst.TypeArgs()[pos])
	}

	return args, nil
}

// ExtractGenericArgumentAt is like ExtractGenericArgumentsAt but requires
// exactly one argument.
func (s *Storage) ExtractGenericArgumentAt(src, def *typesys.Type, pos int) (*typesys.Type, error) {
	args, err := s.ExtractGenericArgumentsAt(src, def, pos)
	if err != nil {
		return nil, err
	}

	switch common.CardinalityOf(args) {
	case common.None:
		return nil, fmt.Errorf("%w: %s does not implement %s", typesys.ErrNotFound, src, def)
	case common.Many:
		return nil, fmt.Errorf("%w: %s implements %s with %d arguments at position %d: %s",
			typesys.ErrAmbiguousMatch, src, def, len(args), pos, joinTypes(args))
	}

	arg, _ := common.Sole(args)

	return arg, nil
}

// ApplyGenericArguments closes def with the argument combination src
// implements it with. It fails when src implements def with several
// different combinations, listing all of them.
func (s *Storage) ApplyGenericArguments(def, src *typesys.Type) (*typesys.Type, error) {
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	insts, err := s.instantiations(src, def)
	if err != nil {
		return nil, err
	}

	switch common.CardinalityOf(insts) {
	case common.None:
		return nil, fmt.Errorf("%w: %s does not implement %s", typesys.ErrNotFound, src, def)
	case common.Many:
		return nil, fmt.Errorf("%w: %s implements %s with several argument sets: %s",
			typesys.ErrAmbiguousMatch, src, def, joinTypes(insts))
	}

	inst, _ := common.Sole(insts)

	return s.universe.Instantiate(def, inst.TypeArgs()...)
}

// IsContainsInterfaceDeclaration reports whether iface is declared at t's
// level. For a constructed t it also matches when t's definition declares
// iface's definition and the type arguments of t and iface agree
// position by position.
func (s *Storage) IsContainsInterfaceDeclaration(t, iface *typesys.Type) bool {
	if t == nil || iface == nil {
		return false
	}

	info, err := s.Get(t)
	if err != nil {
		return false
	}

	if info.Declares(iface) {
		return true
	}

	if !t.IsConstructed() || !iface.IsGeneric() {
		return false
	}

	defInfo, err := s.Get(t.Definition())
	if err != nil {
		return false
	}

	idef := iface.Definition()

	for _, d := range defInfo.DeclaredInterfaces {
		if d.Definition() == idef {
			return slices.Equal(t.TypeArgs(), iface.TypeArgs())
		}
	}

	return false
}

// FitsForTypeArgument reports whether candidate may be substituted for arg.
// When arg is a generic parameter its flags and every constraint are
// checked, constraints referring to arg itself (T : IComparable[T]) are
// closed with candidate. Otherwise arg is treated as a constraint.
func (s *Storage) FitsForTypeArgument(candidate, arg *typesys.Type) bool {
	if candidate == nil || arg == nil || candidate.Universe() != s.universe || arg.Universe() != s.universe {
		return false
	}

	return s.fits(candidate, arg, make(map[*typesys.Type]*typesys.Type))
}

func (s *Storage) fits(c, arg *typesys.Type, bound map[*typesys.Type]*typesys.Type) bool {
	if !arg.IsGenericParameter() {
		return s.fitsConstraint(c, arg, bound)
	}

	if prev, ok := bound[arg]; ok {
		return prev == c
	}

	flags := arg.Flags()

	switch {
	case flags.Has(typesys.ParamReferenceType) && !typesys.IsReferenceType(c):
		return false
	case flags.Has(typesys.ParamNotNullableValueType) && (!c.IsValueType() || c.IsNullable()):
		return false
	case flags.Has(typesys.ParamDefaultConstructor) && !c.HasDefaultConstructor():
		return false
	}

	bound[arg] = c

	for _, constraint := range arg.Constraints() {
		if !s.fitsConstraint(c, constraint, bound) {
			delete(bound, arg)
			return false
		}
	}

	return true
}

func (s *Storage) fitsConstraint(c, constraint *typesys.Type, bound map[*typesys.Type]*typesys.Type) bool {
	closed := s.universe.Substitute(constraint, bound)

	switch {
	case !closed.ContainsGenericParameters():
		return typesys.IsAssignableTo(c, closed)
	case closed.IsGenericParameter():
		return s.fits(c, closed, bound)
	}

	def := closed.Definition()
	if def == nil || !s.IsSubclassOfOpenGeneric(c, def) {
		return false
	}

	insts, err := s.instantiations(c, def)
	if err != nil {
		return false
	}

	for _, inst := range insts {
		trial := maps.Clone(bound)
		if s.argsFit(inst.TypeArgs(), closed.TypeArgs(), trial) {
			maps.Copy(bound, trial)
			return true
		}
	}

	return false
}

// argsFit matches actual type arguments against wanted ones that may still
// contain parameters, binding those parameters on the way.
func (s *Storage) argsFit(actual, wanted []*typesys.Type, bound map[*typesys.Type]*typesys.Type) bool {
	if len(actual) != len(wanted) {
		return false
	}

	for i, w := range wanted {
		a := actual[i]

		switch {
		case !w.ContainsGenericParameters():
			if a != w {
				return false
			}
		case w.IsGenericParameter():
			if !s.fits(a, w, bound) {
				return false
			}
		case w.IsArray():
			if !a.IsArray() || !s.argsFit([]*typesys.Type{a.Elem()}, []*typesys.Type{w.Elem()}, bound) {
				return false
			}
		default:
			if a.Definition() != w.Definition() || !s.argsFit(a.TypeArgs(), w.TypeArgs(), bound) {
				return false
			}
		}
	}

	return true
}

func joinTypes(ts []*typesys.Type) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.String())
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
