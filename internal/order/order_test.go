package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/internal/order"
	"typemeta/internal/typeinfo"
	"typemeta/internal/typesys"
	"typemeta/internal/typesys/typesystest"
)

type step struct {
	name  string
	after []string
}

func sortSteps(t *testing.T, steps []step) ([]string, error) {
	t.Helper()

	byName := make(map[string]step, len(steps))
	for _, s := range steps {
		byName[s.name] = s
	}

	sorted, err := order.ByDependencies(steps,
		func(s step) string { return s.name },
		func(name string) []string { return byName[name].after },
	)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(sorted))
	for _, s := range sorted {
		names = append(names, s.name)
	}

	return names, nil
}

func TestByDependencies(t *testing.T) {
	got, err := sortSteps(t, []step{
		{name: "serve", after: []string{"cache", "migrate"}},
		{name: "cache", after: []string{"config"}},
		{name: "migrate", after: []string{"config", "connect"}},
		{name: "connect", after: []string{"config"}},
		{name: "config"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "cache", "connect", "migrate", "serve"}, got)
}

func TestByDependencies_StableForEqualDepth(t *testing.T) {
	got, err := sortSteps(t, []step{
		{name: "d"}, {name: "b"}, {name: "x", after: []string{"a"}}, {name: "a"}, {name: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "a", "c", "x"}, got)
}

func TestByDependencies_Diamond(t *testing.T) {
	got, err := sortSteps(t, []step{
		{name: "top", after: []string{"left", "right"}},
		{name: "left", after: []string{"bottom"}},
		{name: "right", after: []string{"bottom"}},
		{name: "bottom"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom", "left", "right", "top"}, got)
}

func TestByDependencies_Cycle(t *testing.T) {
	_, err := sortSteps(t, []step{
		{name: "a", after: []string{"b"}},
		{name: "b", after: []string{"a"}},
	})
	require.ErrorIs(t, err, typesys.ErrCycleDependency)
	assert.Contains(t, err.Error(), "a depends on itself")
}

func TestByDependencies_CycleNotContainingItem(t *testing.T) {
	_, err := sortSteps(t, []step{
		{name: "x", after: []string{"a"}},
		{name: "a", after: []string{"b"}},
		{name: "b", after: []string{"c"}},
		{name: "c", after: []string{"a"}},
	})
	require.ErrorIs(t, err, typesys.ErrCycleDependency)
	assert.Contains(t, err.Error(), "x depends on cycle through a")
}

func TestByDependencies_Empty(t *testing.T) {
	got, err := sortSteps(t, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTypes(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	migrations := app.MustDefine("Migrations", typesys.KindClass, nil)
	handlers := app.MustDefine("Handlers", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderAfter{Types: []*typesys.Type{migrations}})
	})
	warmup := app.MustDefine("Warmup", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderBefore{Types: []*typesys.Type{migrations}})
	})

	s := typeinfo.New(c.Universe)

	got, err := order.Types(s, []*typesys.Type{handlers, migrations, warmup})
	require.NoError(t, err)
	assert.Equal(t, []*typesys.Type{warmup, migrations, handlers}, got)
}

func TestByTypeDependencies_Cycle(t *testing.T) {
	c := typesystest.NewCorlib()
	app := c.Universe.MustAddModule("app", "core")

	first := app.MustDefine("First", typesys.KindClass, nil)
	second := app.MustDefine("Second", typesys.KindClass, func(d *typesys.Def) {
		d.Attach(typesys.OrderAfter{Types: []*typesys.Type{first}}, typesys.OrderBefore{Types: []*typesys.Type{first}})
	})

	type plugin struct{ t *typesys.Type }

	_, err := order.ByTypeDependencies(typeinfo.New(c.Universe), []plugin{{first}, {second}},
		func(p plugin) *typesys.Type { return p.t })
	require.ErrorIs(t, err, typesys.ErrCycleDependency)
	assert.Contains(t, err.Error(), "app.First")
}

func TestByTypeDependencies_PropagatesErrors(t *testing.T) {
	c := typesystest.NewCorlib()

	_, err := order.Types(typeinfo.New(c.Universe), []*typesys.Type{c.List.TypeArgs()[0]})
	require.ErrorIs(t, err, typesys.ErrGenericParameter)
}
