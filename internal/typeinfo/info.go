package typeinfo

import (
	"slices"

	"typemeta/internal/typesys"
)

// TypeInfo is the memoized metadata of one type. It is immutable once
// returned by Storage.Get; callers must not modify the slices.
type TypeInfo struct {
	// Type is the described type.
	Type *typesys.Type
	// Key is the cache key the info is stored under.
	Key string
	// Dependencies are the types this type must be ordered after, from its
	// own OrderAfter attributes and from OrderBefore attributes elsewhere.
	Dependencies []*typesys.Type
	// BaseTypes is the base chain, nearest first.
	BaseTypes []*typesys.Type
	// GenericTypeDefinitions are the open definitions of the type and of
	// every generic type in its base chain.
	GenericTypeDefinitions []*typesys.Type
	// Interfaces are all interfaces implemented by the type.
	Interfaces []*typesys.Type
	// DeclaredInterfaces are the interfaces introduced at this exact level:
	// not implied by another implemented interface nor by the base type.
	DeclaredInterfaces []*typesys.Type
	// GenericInterfaceDefinitions are the open definitions of every generic
	// interface implemented, including the type itself when it is one.
	GenericInterfaceDefinitions []*typesys.Type
	// Attributes are the attributes declared on the type.
	Attributes []typesys.Attribute
}

// DependsOn reports whether other is a direct ordering dependency.
func (i *TypeInfo) DependsOn(other *typesys.Type) bool {
	return slices.Contains(i.Dependencies, other)
}

// Declares reports whether iface is introduced at this level.
func (i *TypeInfo) Declares(iface *typesys.Type) bool {
	return slices.Contains(i.DeclaredInterfaces, iface)
}

func (s *Storage) compute(key string, t *typesys.Type) *TypeInfo {
	info := &TypeInfo{
		Type:       t,
		Key:        key,
		Interfaces: t.Interfaces(),
		BaseTypes:  t.BaseTypes(),
		Attributes: t.Attributes(),
	}

	for _, cur := range append([]*typesys.Type{t}, info.BaseTypes...) {
		if def := cur.Definition(); def != nil {
			info.GenericTypeDefinitions = appendDistinct(info.GenericTypeDefinitions, def)
		}
	}

	ifaces := info.Interfaces
	if t.IsInterface() {
		ifaces = append([]*typesys.Type{t}, ifaces...)
	}

	for _, i := range ifaces {
		if def := i.Definition(); def != nil {
			info.GenericInterfaceDefinitions = appendDistinct(info.GenericInterfaceDefinitions, def)
		}
	}

	info.DeclaredInterfaces = declaredInterfaces(t, info.Interfaces)
	info.Dependencies = s.dependencies(t)

	return info
}

func declaredInterfaces(t *typesys.Type, all []*typesys.Type) []*typesys.Type {
	implied := make(map[*typesys.Type]bool)

	for _, i := range all {
		for _, inherited := range i.Interfaces() {
			implied[inherited] = true
		}
	}

	if base := t.Base(); base != nil {
		for _, i := range base.Interfaces() {
			implied[i] = true
		}
	}

	var declared []*typesys.Type

	for _, i := range all {
		if !implied[i] {
			declared = append(declared, i)
		}
	}

	return declared
}

func (s *Storage) dependencies(t *typesys.Type) []*typesys.Type {
	var deps []*typesys.Type

	for _, attr := range typesys.AttributesOf[typesys.OrderAfter](t) {
		for _, d := range attr.Types {
			deps = appendDistinct(deps, d)
		}
	}

	for _, d := range s.beforeScan().before[t] {
		deps = appendDistinct(deps, d)
	}

	return deps
}

func appendDistinct(list []*typesys.Type, t *typesys.Type) []*typesys.Type {
	if slices.Contains(list, t) {
		return list
	}

	return append(list, t)
}
