package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	known := []string{"Dictionary", "List", "KeyValuePair", "Nullable", "Dictionaries"}

	assert.Equal(t, []string{"Dictionary", "Dictionaries"}, Suggest("Dictonary", known, 0))
	assert.Equal(t, []string{"Dictionary"}, Suggest("Dictonary", known, 1))
	assert.Equal(t, []string{"KeyValuePair"}, Suggest("key_value_pairs", known, 3))
	assert.Empty(t, Suggest("Zebra", known, 3))
	assert.Empty(t, Suggest("List", []string{"List"}, 3), "exact names are not suggestions")

	qualified := []string{"core.IDisposable", "core.IComparable", "app.Handlers"}
	assert.Equal(t, []string{"core.IDisposable"}, Suggest("core.IDisposible", qualified, 1))
	assert.Equal(t, []string{"app.Handlers"}, Suggest("app/handlers", qualified, 3))
}
