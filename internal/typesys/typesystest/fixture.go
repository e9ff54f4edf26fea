// Package typesystest provides a small, fully registered core library for
// tests of packages built on typesys.
package typesystest

import "typemeta/internal/typesys"

// Corlib is a universe with a "core" module shaped like a typical base
// class library.
type Corlib struct {
	Universe *typesys.Universe
	Core     *typesys.Module

	Object *typesys.Type
	Int    *typesys.Type
	Long   *typesys.Type
	String *typesys.Type

	IDisposable *typesys.Type
	IComparable *typesys.Type // IComparable[T]
	IEquatable  *typesys.Type // IEquatable[T]
	IEnumerable *typesys.Type // IEnumerable[T]
	ICollection *typesys.Type // ICollection[T] : IEnumerable[T]

	List         *typesys.Type // List[T] : ICollection[T]
	KeyValuePair *typesys.Type // KeyValuePair[K,V]
	Dictionary   *typesys.Type // Dictionary[K,V] : ICollection[KeyValuePair[K,V]]
	Nullable     *typesys.Type // Nullable[T] where T is a non-nullable struct
}

// NewCorlib registers the core module in a fresh universe.
func NewCorlib() *Corlib {
	u := typesys.NewUniverse()
	core := u.MustAddModule("core")

	c := &Corlib{Universe: u, Core: core}

	c.Object = core.MustDefine("Object", typesys.KindClass, func(d *typesys.Def) {
		d.DefaultConstructor()
	})
	c.IDisposable = core.MustDefine("IDisposable", typesys.KindInterface, nil)
	c.IComparable = core.MustDefine("IComparable[T]", typesys.KindInterface, nil)
	c.IEquatable = core.MustDefine("IEquatable[T]", typesys.KindInterface, nil)
	c.IEnumerable = core.MustDefine("IEnumerable[T]", typesys.KindInterface, nil)
	c.ICollection = core.MustDefine("ICollection[T]", typesys.KindInterface, func(d *typesys.Def) {
		d.Implements(u.MustInstantiate(c.IEnumerable, d.Param(0)))
	})

	c.Int = core.MustDefine("Int", typesys.KindStruct, func(d *typesys.Def) {
		d.Implements(
			u.MustInstantiate(c.IComparable, d.Type()),
			u.MustInstantiate(c.IEquatable, d.Type()),
		)
	})
	c.Long = core.MustDefine("Long", typesys.KindStruct, func(d *typesys.Def) {
		d.Implements(
			u.MustInstantiate(c.IComparable, d.Type()),
			u.MustInstantiate(c.IEquatable, d.Type()),
		)
	})
	c.String = core.MustDefine("String", typesys.KindClass, func(d *typesys.Def) {
		d.Base(c.Object).Implements(
			u.MustInstantiate(c.IComparable, d.Type()),
			u.MustInstantiate(c.IEquatable, d.Type()),
		)
	})

	c.List = core.MustDefine("List[T]", typesys.KindClass, func(d *typesys.Def) {
		d.Base(c.Object).
			Implements(u.MustInstantiate(c.ICollection, d.Param(0))).
			DefaultConstructor()
	})
	c.KeyValuePair = core.MustDefine("KeyValuePair[K,V]", typesys.KindStruct, nil)
	c.Dictionary = core.MustDefine("Dictionary[K,V]", typesys.KindClass, func(d *typesys.Def) {
		pair := u.MustInstantiate(c.KeyValuePair, d.Param(0), d.Param(1))
		d.Base(c.Object).
			Implements(u.MustInstantiate(c.ICollection, pair)).
			DefaultConstructor()
	})
	c.Nullable = core.MustDefine("Nullable[T]", typesys.KindStruct, func(d *typesys.Def) {
		d.Nullable().Constrain(0, typesys.ParamNotNullableValueType)
	})

	return c
}

// ListOf returns core.List[elem].
func (c *Corlib) ListOf(elem *typesys.Type) *typesys.Type {
	return c.Universe.MustInstantiate(c.List, elem)
}

// DictionaryOf returns core.Dictionary[k,v].
func (c *Corlib) DictionaryOf(k, v *typesys.Type) *typesys.Type {
	return c.Universe.MustInstantiate(c.Dictionary, k, v)
}

// ComparableOf returns core.IComparable[t].
func (c *Corlib) ComparableOf(t *typesys.Type) *typesys.Type {
	return c.Universe.MustInstantiate(c.IComparable, t)
}
