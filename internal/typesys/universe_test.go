package typesys_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/internal/typesys"
	"typemeta/internal/typesys/typesystest"
)

func TestUniverse_AddModule(t *testing.T) {
	u := typesys.NewUniverse()

	m, err := u.AddModule("app", "core")
	require.NoError(t, err)
	assert.Equal(t, "app", m.Name())
	assert.Equal(t, []string{"core"}, m.References())

	_, err = u.AddModule("app")
	require.Error(t, err)

	_, err = u.AddModule("bad name")
	require.Error(t, err)

	got, ok := u.Module("app")
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, []string{"app"}, u.ModuleNames())
}

func TestModule_Declare(t *testing.T) {
	u := typesys.NewUniverse()
	m := u.MustAddModule("app")

	d, err := m.Declare("Pair[A,B]", typesys.KindStruct)
	require.NoError(t, err)

	pair := d.Type()
	assert.True(t, pair.IsGenericDefinition())
	assert.Equal(t, 2, pair.Arity())
	assert.Equal(t, "A", d.Param(0).Name())
	assert.Equal(t, 1, d.Param(1).Position())
	assert.Same(t, pair, d.Param(1).Owner())

	_, err = m.Declare("Pair", typesys.KindClass)
	require.Error(t, err, "duplicate name")

	_, err = m.Declare("Bad[T,T]", typesys.KindClass)
	require.Error(t, err, "duplicate parameter")

	_, err = m.Declare("X", typesys.KindArray)
	require.ErrorIs(t, err, typesys.ErrTypeMismatch)

	got, ok := m.Lookup("Pair")
	require.True(t, ok)
	assert.Same(t, pair, got)
}

func TestDef_Errors(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	_, err := app.Define("S", typesys.KindStruct, func(d *typesys.Def) {
		d.Base(c.Object)
	})
	require.ErrorIs(t, err, typesys.ErrTypeMismatch, "structs have no base class")

	_, err = app.Define("C", typesys.KindClass, func(d *typesys.Def) {
		d.Implements(c.Object)
	})
	require.ErrorIs(t, err, typesys.ErrTypeMismatch, "only interfaces can be implemented")

	_, err = app.Define("N", typesys.KindClass, func(d *typesys.Def) {
		d.Nullable()
	})
	require.ErrorIs(t, err, typesys.ErrTypeMismatch)
}

func TestDef_HierarchyCycles(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe
	app := u.MustAddModule("app", "core")

	_, err := app.Define("Self", typesys.KindClass, func(d *typesys.Def) {
		d.Base(d.Type())
	})
	require.ErrorIs(t, err, typesys.ErrCycleDependency)

	a, err := app.Declare("A", typesys.KindClass)
	require.NoError(t, err)
	b, err := app.Declare("B", typesys.KindClass)
	require.NoError(t, err)

	require.NoError(t, a.Base(b.Type()).Err())
	require.ErrorIs(t, b.Base(a.Type()).Err(), typesys.ErrCycleDependency)
	assert.Nil(t, b.Type().Base())
	assert.Equal(t, []*typesys.Type{b.Type()}, a.Type().BaseTypes())

	i1, err := app.Declare("I1[T]", typesys.KindInterface)
	require.NoError(t, err)
	i2, err := app.Declare("I2[T]", typesys.KindInterface)
	require.NoError(t, err)

	require.NoError(t, i1.Implements(u.MustInstantiate(i2.Type(), i1.Param(0))).Err())
	require.ErrorIs(t, i2.Implements(u.MustInstantiate(i1.Type(), c.Int)).Err(), typesys.ErrCycleDependency,
		"cycles are found through any instantiation of the definitions")

	node := app.MustDefine("Node[T]", typesys.KindClass, func(d *typesys.Def) {
		d.Implements(u.MustInstantiate(c.IComparable, d.Type()))
	})
	assert.Len(t, node.Interfaces(), 1, "a type used as an argument of its own interface is not a cycle")
}

func TestUniverse_InstantiateInterns(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe

	a := u.MustInstantiate(c.List, c.Int)
	b := u.MustInstantiate(c.List, c.Int)
	assert.Same(t, a, b)
	assert.NotSame(t, a, u.MustInstantiate(c.List, c.String))

	assert.Same(t, c.List, u.MustInstantiate(c.List, c.List.TypeArgs()...),
		"a definition applied to its own parameters is the definition")

	_, err := u.Instantiate(c.List, c.Int, c.Int)
	require.ErrorIs(t, err, typesys.ErrTypeMismatch)

	_, err = u.Instantiate(c.Int, c.Int)
	require.ErrorIs(t, err, typesys.ErrTypeMismatch)

	other := typesystest.NewCorlib()
	_, err = u.Instantiate(c.List, other.Int)
	require.ErrorIs(t, err, typesys.ErrUntrustedType)
}

func TestUniverse_InstantiateConcurrent(t *testing.T) {
	c := typesystest.NewCorlib()

	const n = 32

	results := make([]*typesys.Type, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()
			results[i] = c.DictionaryOf(c.String, c.ListOf(c.Int))
		}()
	}

	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestType_Names(t *testing.T) {
	c := typesystest.NewCorlib()

	assert.Equal(t, "core.Int", c.Int.String())
	assert.Equal(t, "core.List[T]", c.List.String())
	assert.Equal(t, "core.Dictionary[core.String,core.List[core.Int]]",
		c.DictionaryOf(c.String, c.ListOf(c.Int)).String())
	assert.Equal(t, "[]core.Int", c.Universe.MustArrayOf(c.Int).String())

	name, ok := c.Dictionary.FullName()
	require.True(t, ok)
	assert.Equal(t, "core.Dictionary[,]", name)

	name, ok = c.List.FullName()
	require.True(t, ok)
	assert.Equal(t, "core.List[]", name)

	_, ok = c.List.TypeArgs()[0].FullName()
	assert.False(t, ok, "generic parameters have no full name")

	openList := c.ListOf(c.Dictionary.TypeArgs()[0])
	_, ok = openList.FullName()
	assert.False(t, ok, "partially open types have no full name")
	assert.Equal(t, "core.List[K]", openList.String())
	assert.Equal(t, "core.List[core.Dictionary[,]:K]", openList.OwnerQualifiedString())
}

func TestType_ConstructedSubstitution(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe

	listInt := c.ListOf(c.Int)
	assert.Same(t, c.Object, listInt.Base())
	assert.Equal(t, []*typesys.Type{
		u.MustInstantiate(c.ICollection, c.Int),
		u.MustInstantiate(c.IEnumerable, c.Int),
	}, listInt.Interfaces())

	dict := c.DictionaryOf(c.String, c.Int)
	pair := u.MustInstantiate(c.KeyValuePair, c.String, c.Int)
	assert.Contains(t, dict.Interfaces(), u.MustInstantiate(c.IEnumerable, pair))
	assert.True(t, dict.HasDefaultConstructor())
	assert.Same(t, c.Dictionary, dict.Definition())
	assert.Equal(t, []*typesys.Type{c.String, c.Int}, dict.TypeArgs())
}

func TestType_InterfacesOfStruct(t *testing.T) {
	c := typesystest.NewCorlib()

	assert.ElementsMatch(t, []*typesys.Type{c.ComparableOf(c.Int),
		c.Universe.MustInstantiate(c.IEquatable, c.Int)}, c.Int.Interfaces())
	assert.True(t, c.Int.IsValueType())
	assert.True(t, c.Int.HasDefaultConstructor())
	assert.False(t, c.Int.ContainsGenericParameters())
}

func TestType_DefinitionInsideOwnDeclaration(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe
	app := u.MustAddModule("app", "core")

	node := app.MustDefine("Node[T]", typesys.KindClass, func(d *typesys.Def) {
		d.Implements(u.MustInstantiate(c.IComparable, d.Type()))
	})

	nodeInt := u.MustInstantiate(node, c.Int)
	assert.Equal(t, []*typesys.Type{c.ComparableOf(nodeInt)}, nodeInt.Interfaces())
}

func TestIsAssignableTo(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe

	listInt := c.ListOf(c.Int)

	assert.True(t, typesys.IsAssignableTo(listInt, listInt))
	assert.True(t, typesys.IsAssignableTo(listInt, c.Object))
	assert.True(t, typesys.IsAssignableTo(listInt, u.MustInstantiate(c.IEnumerable, c.Int)))
	assert.False(t, typesys.IsAssignableTo(listInt, u.MustInstantiate(c.IEnumerable, c.Long)))
	assert.False(t, typesys.IsAssignableTo(c.Object, listInt))

	assert.True(t, typesys.IsAssignableTo(u.MustArrayOf(c.String), u.MustArrayOf(c.Object)),
		"arrays of reference types are covariant")
	assert.False(t, typesys.IsAssignableTo(u.MustArrayOf(c.Int), u.MustArrayOf(c.Object)))
}

func TestAttributesOf(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	first := app.MustDefine("First", typesys.KindClass, nil)
	second := app.MustDefine("Second", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderAfter{Types: []*typesys.Type{first}}, typesys.Tag{Key: "layer", Value: "db"})
	})

	after := typesys.AttributesOf[typesys.OrderAfter](second)
	require.Len(t, after, 1)
	assert.Equal(t, []*typesys.Type{first}, after[0].Types)

	tags := typesys.AttributesOf[typesys.Tag](second)
	require.Len(t, tags, 1)
	assert.Equal(t, "db", tags[0].Value)
	assert.Empty(t, typesys.AttributesOf[typesys.OrderBefore](second))
}

func TestModule_Broken(t *testing.T) {
	u := typesys.NewUniverse()
	m := u.MustAddModule("plugins")
	m.MustDefine("Plugin", typesys.KindClass, nil)

	types, err := m.Types()
	require.NoError(t, err)
	assert.Len(t, types, 1)

	m.MarkBroken(assert.AnError)

	_, err = m.Types()
	require.ErrorIs(t, err, typesys.ErrLoadFailure)
	require.ErrorIs(t, err, assert.AnError)

	_, ok := m.Lookup("Plugin")
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Class", typesys.KindClass.String())
	assert.Equal(t, "Interface", typesys.KindInterface.String())
	assert.Equal(t, "Array", typesys.KindArray.String())
	assert.Equal(t, "Kind(42)", typesys.Kind(42).String())
}
