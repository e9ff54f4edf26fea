package typeinfo_test

import (
	"bytes"
	"log"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/internal/diagnostic"
	"typemeta/internal/typeinfo"
	"typemeta/internal/typesys"
	"typemeta/internal/typesys/typesystest"
)

func TestStorage_GetIsMemoized(t *testing.T) {
	c := typesystest.NewCorlib()
	s := typeinfo.New(c.Universe)

	first, err := s.Get(c.ListOf(c.Int))
	require.NoError(t, err)

	second, err := s.Get(c.Universe.MustInstantiate(c.List, c.Int))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "core.List[core.Int]", first.Key)
}

func TestStorage_GetConcurrent(t *testing.T) {
	c := typesystest.NewCorlib()
	s := typeinfo.New(c.Universe)

	const n = 64

	infos := make([]*typeinfo.TypeInfo, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()
			infos[i] = s.MustGet(c.DictionaryOf(c.String, c.ListOf(c.Int)))
		}()
	}

	wg.Wait()

	for _, info := range infos {
		assert.Same(t, infos[0], info)
	}
}

func TestStorage_TypeInfo(t *testing.T) {
	c := typesystest.NewCorlib()
	s := typeinfo.New(c.Universe)
	u := c.Universe

	info := s.MustGet(c.ListOf(c.Int))

	assert.Equal(t, []*typesys.Type{c.Object}, info.BaseTypes)
	assert.Equal(t, []*typesys.Type{c.List}, info.GenericTypeDefinitions)
	assert.Equal(t, []*typesys.Type{c.ICollection, c.IEnumerable}, info.GenericInterfaceDefinitions)
	assert.Equal(t, []*typesys.Type{u.MustInstantiate(c.ICollection, c.Int)}, info.DeclaredInterfaces,
		"IEnumerable is implied by ICollection: %s", spew.Sdump(info.Interfaces))

	iface := s.MustGet(c.ICollection)
	assert.Contains(t, iface.GenericInterfaceDefinitions, c.ICollection)
}

func TestStorage_DeclaredInterfacesAreMinimal(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	iBase := app.MustDefine("IBase", typesys.KindInterface, nil)
	iBase2 := app.MustDefine("IBase2", typesys.KindInterface, func(d *typesys.Def) {
		d.Implements(iBase)
	})
	iOther := app.MustDefine("IOther", typesys.KindInterface, nil)
	impl := app.MustDefine("Impl", typesys.KindClass, func(d *typesys.Def) {
		d.Base(c.Object).Implements(iBase2, iBase)
	})
	derived := app.MustDefine("Derived", typesys.KindClass, func(d *typesys.Def) {
		d.Base(impl).Implements(iOther, iBase)
	})

	s := typeinfo.New(c.Universe)

	implInfo := s.MustGet(impl)
	assert.ElementsMatch(t, []*typesys.Type{iBase2, iBase}, implInfo.Interfaces)
	assert.Equal(t, []*typesys.Type{iBase2}, implInfo.DeclaredInterfaces)

	derivedInfo := s.MustGet(derived)
	assert.Equal(t, []*typesys.Type{impl, c.Object}, derivedInfo.BaseTypes)
	assert.Equal(t, []*typesys.Type{iOther}, derivedInfo.DeclaredInterfaces)
	assert.True(t, derivedInfo.Declares(iOther))
	assert.False(t, derivedInfo.Declares(iBase))
}

func TestStorage_Dependencies(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	migrations := app.MustDefine("Migrations", typesys.KindClass, nil)
	handlers := app.MustDefine("Handlers", typesys.KindClass, nil)
	app.MustDefine("Cache", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderBefore{Types: []*typesys.Type{handlers}})
	})
	jobs := app.MustDefine("Jobs", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderAfter{Types: []*typesys.Type{migrations, handlers, migrations}})
	})

	s := typeinfo.New(c.Universe)

	cache, ok := app.Lookup("Cache")
	require.True(t, ok)

	deps, err := s.Dependencies(handlers)
	require.NoError(t, err)
	assert.Equal(t, []*typesys.Type{cache}, deps)

	jobsInfo := s.MustGet(jobs)
	assert.Equal(t, []*typesys.Type{migrations, handlers}, jobsInfo.Dependencies)
	assert.True(t, jobsInfo.DependsOn(handlers))
	assert.False(t, jobsInfo.DependsOn(cache))

	assert.Empty(t, s.MustGet(migrations).Dependencies)
}

func TestStorage_SkipsBrokenModules(t *testing.T) {
	c := typesystest.NewCorlib()
	u := c.Universe

	good := u.MustAddModule("good", "core")
	target := good.MustDefine("Target", typesys.KindClass, nil)

	broken := u.MustAddModule("broken", "good")
	broken.MustDefine("Hidden", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderBefore{Types: []*typesys.Type{target}})
	})
	broken.MarkBroken(assert.AnError)

	dynamic := u.MustAddModule("dynamic", "good")
	dynamic.MustDefine("Generated", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderBefore{Types: []*typesys.Type{target}})
	})
	dynamic.MarkDynamic()

	var buf bytes.Buffer

	s := typeinfo.New(u, typeinfo.WithLogger(log.New(&buf, "", 0)))

	diags := s.Init()
	require.True(t, diags.IsValid())

	reported := diags.ByCode(diagnostic.CodeModuleBroken)
	require.Len(t, reported, 1)
	assert.Equal(t, "broken", reported[0].Module)
	assert.Contains(t, buf.String(), "skipping module broken")

	assert.Empty(t, s.MustGet(target).Dependencies)
}

func TestStorage_ModuleCycleIsReported(t *testing.T) {
	u := typesys.NewUniverse()
	u.MustAddModule("a", "b")
	u.MustAddModule("b", "a")

	s := typeinfo.New(u)

	diags := s.Init()
	assert.Len(t, diags.ByCode(diagnostic.CodeModuleCycle), 1)
}

func TestKey(t *testing.T) {
	c := typesystest.NewCorlib()

	key, err := typeinfo.Key(c.List)
	require.NoError(t, err)
	assert.Equal(t, "core.List[]", key)

	key, err = typeinfo.Key(c.ListOf(c.Dictionary.TypeArgs()[0]))
	require.NoError(t, err)
	assert.Equal(t, "core.List[core.Dictionary[,]:K]", key)

	key, err = typeinfo.Key(c.ListOf(c.KeyValuePair.TypeArgs()[0]))
	require.NoError(t, err)
	assert.Equal(t, "core.List[core.KeyValuePair[,]:K]", key,
		"parameters of different definitions do not collide")

	_, err = typeinfo.Key(c.List.TypeArgs()[0])
	require.ErrorIs(t, err, typesys.ErrGenericParameter)

	s := typeinfo.New(c.Universe)
	_, err = s.Get(c.List.TypeArgs()[0])
	require.ErrorIs(t, err, typesys.ErrGenericParameter)
}

func TestStorage_GetForeignType(t *testing.T) {
	c := typesystest.NewCorlib()
	other := typesystest.NewCorlib()

	_, err := typeinfo.New(c.Universe).Get(other.Int)
	require.ErrorIs(t, err, typesys.ErrUntrustedType)
}

func TestStorage_Reset(t *testing.T) {
	c := typesystest.NewCorlib()
	s := typeinfo.New(c.Universe)

	before := s.MustGet(c.String)

	s.Reset()

	after := s.MustGet(c.String)
	assert.NotSame(t, before, after)
	assert.Equal(t, before.Interfaces, after.Interfaces)
}
