package typesys

import (
	"strings"
	"sync"
)

// Type is a registered type. Types are compared by pointer: the universe
// interns constructed generic types and arrays, so equal types share a pointer.
type Type struct {
	id     uint64
	u      *Universe
	module *Module
	name   string
	kind   Kind

	// Declaration state, written through Def while the module is registered.
	base        *Type
	own         []*Type
	params      []*Type
	attrs       []Attribute
	defaultCtor bool
	abstract    bool
	nullable    bool

	// Generic parameters.
	owner       *Type
	position    int
	constraints []*Type
	flags       ParamFlags

	// Constructed generic types.
	def  *Type
	args []*Type

	// Arrays.
	elem *Type

	declOnce sync.Once
	once     sync.Once
	ifaces   []*Type
}

// Universe returns the registry the type belongs to.
func (t *Type) Universe() *Universe { return t.u }

// Module returns the module that declares the type.
func (t *Type) Module() *Module { return t.module }

// Name returns the simple name of the type, without module or generic arguments.
func (t *Type) Name() string {
	if t.kind == KindArray {
		return "[]" + t.elem.Name()
	}

	return t.name
}

// Kind returns the kind of the type.
func (t *Type) Kind() Kind { return t.kind }

// IsInterface reports whether t is an interface.
func (t *Type) IsInterface() bool { return t.kind == KindInterface }

// IsValueType reports whether t is a value type.
func (t *Type) IsValueType() bool { return t.kind == KindStruct }

// IsGenericParameter reports whether t is a generic parameter.
func (t *Type) IsGenericParameter() bool { return t.kind == KindParam }

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool { return t.kind == KindArray }

// IsGenericDefinition reports whether t is an open generic definition such as core.List[].
func (t *Type) IsGenericDefinition() bool { return len(t.params) > 0 && t.def == nil }

// IsConstructed reports whether t was produced by Universe.Instantiate.
func (t *Type) IsConstructed() bool { return t.def != nil }

// IsGeneric reports whether t is a generic definition or a constructed generic type.
func (t *Type) IsGeneric() bool { return t.IsGenericDefinition() || t.IsConstructed() }

// Definition returns the open generic definition of t. A definition returns
// itself; non-generic types return nil.
func (t *Type) Definition() *Type {
	if t.def != nil {
		return t.def
	}

	if len(t.params) > 0 {
		return t
	}

	return nil
}

// TypeArgs returns the generic arguments of a constructed type, or the
// generic parameters of a definition.
func (t *Type) TypeArgs() []*Type {
	if t.def != nil {
		return append([]*Type(nil), t.args...)
	}

	return append([]*Type(nil), t.params...)
}

// Arity returns the number of generic parameters.
func (t *Type) Arity() int {
	if t.def != nil {
		return len(t.args)
	}

	return len(t.params)
}

// Elem returns the element type of an array.
func (t *Type) Elem() *Type { return t.elem }

// Owner returns the definition a generic parameter belongs to.
func (t *Type) Owner() *Type { return t.owner }

// Position returns the index of a generic parameter within its owner.
func (t *Type) Position() int { return t.position }

// Constraints returns the constraint types of a generic parameter.
func (t *Type) Constraints() []*Type { return append([]*Type(nil), t.constraints...) }

// Flags returns the special constraints of a generic parameter.
func (t *Type) Flags() ParamFlags { return t.flags }

// Base returns the base type. Generic parameters report their class constraint.
func (t *Type) Base() *Type {
	base, _ := t.declaration()

	return base
}

// BaseTypes returns the base chain of t, nearest first.
func (t *Type) BaseTypes() []*Type {
	var chain []*Type

	seen := map[*Type]bool{t: true}

	for b := t.Base(); b != nil && !seen[b]; b = b.Base() {
		seen[b] = true
		chain = append(chain, b)
	}

	return chain
}

func (t *Type) classConstraint() *Type {
	for _, c := range t.constraints {
		if c.kind == KindClass {
			return c
		}
	}

	return nil
}

// Attributes returns the attributes declared on the type. Constructed types
// report the attributes of their definition.
func (t *Type) Attributes() []Attribute {
	if t.def != nil {
		return append([]Attribute(nil), t.def.attrs...)
	}

	return append([]Attribute(nil), t.attrs...)
}

// Interfaces returns every interface implemented by t: the ones it lists,
// the ones those interfaces list and the ones of its base chain.
func (t *Type) Interfaces() []*Type {
	t.derive()

	return append([]*Type(nil), t.ifaces...)
}

// OwnInterfaces returns the interfaces listed in the declaration of t.
func (t *Type) OwnInterfaces() []*Type {
	_, listed := t.declaration()

	return append([]*Type(nil), listed...)
}

// HasDefaultConstructor reports whether t can be created without arguments.
func (t *Type) HasDefaultConstructor() bool {
	t.declaration()

	switch t.kind {
	case KindStruct:
		return true
	case KindClass:
		return t.defaultCtor && !t.IsAbstract()
	case KindParam:
		return t.flags&(ParamDefaultConstructor|ParamNotNullableValueType) != 0
	default:
		return false
	}
}

// IsAbstract reports whether t is an abstract class.
func (t *Type) IsAbstract() bool {
	if t.def != nil {
		return t.def.abstract
	}

	return t.abstract
}

// IsNullable reports whether t is a nullable value wrapper.
func (t *Type) IsNullable() bool {
	if t.def != nil {
		return t.def.nullable
	}

	return t.nullable
}

// ContainsGenericParameters reports whether t still refers to unbound generic parameters.
func (t *Type) ContainsGenericParameters() bool {
	switch {
	case t.kind == KindParam:
		return true
	case t.kind == KindArray:
		return t.elem.ContainsGenericParameters()
	case t.IsGenericDefinition():
		return true
	case t.def != nil:
		for _, a := range t.args {
			if a.ContainsGenericParameters() {
				return true
			}
		}
	}

	return false
}

// String returns the display form: core.Int, core.List[T],
// core.Dictionary[core.String,core.Int], []core.Int.
func (t *Type) String() string {
	var sb strings.Builder
	t.write(&sb, false)

	return sb.String()
}

// FullName returns the stable name of t. It reports false for generic
// parameters and for constructed types that still contain parameters.
// Definitions use the open form core.List[] or core.Dictionary[,].
func (t *Type) FullName() (string, bool) {
	switch {
	case t.kind == KindParam:
		return "", false
	case t.kind == KindArray:
		name, ok := t.elem.FullName()
		if !ok {
			return "", false
		}

		return "[]" + name, true
	case t.IsGenericDefinition():
		return t.qualified() + "[" + strings.Repeat(",", len(t.params)-1) + "]", true
	case t.ContainsGenericParameters():
		return "", false
	default:
		return t.String(), true
	}
}

// OwnerQualifiedString is the display form with every generic parameter
// prefixed by the full name of its owner. Unlike String it distinguishes
// parameters of different definitions that share a name.
func (t *Type) OwnerQualifiedString() string {
	var sb strings.Builder
	t.write(&sb, true)

	return sb.String()
}

func (t *Type) qualified() string {
	if t.module == nil {
		return t.name
	}

	return t.module.name + "." + t.name
}

func (t *Type) write(sb *strings.Builder, qualifyParams bool) {
	switch {
	case t.kind == KindParam:
		if qualifyParams && t.owner != nil {
			owner, _ := t.owner.FullName()
			sb.WriteString(owner)
			sb.WriteByte(':')
		}

		sb.WriteString(t.name)
	case t.kind == KindArray:
		sb.WriteString("[]")
		t.elem.write(sb, qualifyParams)
	case len(t.params) > 0 || t.def != nil:
		sb.WriteString(t.qualified())
		sb.WriteByte('[')

		list := t.params
		if t.def != nil {
			list = t.args
		}

		for i, a := range list {
			if i > 0 {
				sb.WriteByte(',')
			}

			a.write(sb, qualifyParams)
		}

		sb.WriteByte(']')
	default:
		sb.WriteString(t.qualified())
	}
}

// declaration returns the base and the listed interfaces of t. Constructed
// types substitute their arguments into the declaration of their definition
// once; the substitution never reads the lazy state of other types.
func (t *Type) declaration() (*Type, []*Type) {
	if t.kind == KindParam {
		var listed []*Type

		for _, c := range t.constraints {
			if c.kind == KindInterface {
				listed = append(listed, c)
			}
		}

		return t.classConstraint(), listed
	}

	t.declOnce.Do(func() {
		if t.def == nil {
			return
		}

		binding := make(map[*Type]*Type, len(t.args))
		for i, p := range t.def.params {
			binding[p] = t.args[i]
		}

		t.base = t.u.substitute(t.def.base, binding)
		t.own = make([]*Type, 0, len(t.def.own))

		for _, i := range t.def.own {
			t.own = append(t.own, t.u.substitute(i, binding))
		}

		t.defaultCtor = t.def.defaultCtor
	})

	return t.base, t.own
}

// derive fills the flattened interface set.
func (t *Type) derive() {
	t.once.Do(func() { t.ifaces = t.flattenInterfaces() })
}

// flattenInterfaces walks the listed interfaces depth first, then the base
// chain. Each type is expanded once, so the walk ends on any graph.
func (t *Type) flattenInterfaces() []*Type {
	var out []*Type

	seen := map[*Type]bool{t: true}
	expanded := make(map[*Type]bool)

	var walk func(*Type)
	walk = func(cur *Type) {
		if expanded[cur] {
			return
		}

		expanded[cur] = true
		base, listed := cur.declaration()

		for _, i := range listed {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}

			walk(i)
		}

		if base != nil {
			walk(base)
		}
	}

	walk(t)

	return out
}
