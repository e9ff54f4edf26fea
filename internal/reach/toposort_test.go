package reach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typemeta/internal/typesys"
)

func TestTopoSort_Order(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{2}
		case 1:
			return nil
		default:
			return []int{1}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	_, err := topoSort(2, func(i int) []int {
		if i == 0 {
			return []int{1}
		}

		return []int{0}
	})
	require.ErrorIs(t, err, typesys.ErrCycleDependency)
}

func TestSortModules(t *testing.T) {
	u, _ := graph(t, []string{"web", "app", "core", "data"}, map[string][]string{
		"web":  {"app"},
		"app":  {"data", "core", "external"},
		"data": {"core"},
	})

	sorted, err := SortModules(u.Modules())
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "data", "app", "web"}, names(sorted))
}

func TestSortModules_Cycle(t *testing.T) {
	u, _ := graph(t, []string{"core", "a", "b"}, map[string][]string{
		"a": {"b"},
		"b": {"a", "core"},
	})

	_, err := SortModules(u.Modules())
	require.ErrorIs(t, err, typesys.ErrCycleDependency)
	assert.Contains(t, err.Error(), "[a b]")
}
