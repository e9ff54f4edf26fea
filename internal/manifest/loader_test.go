package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	yaml := `
modules:
  - name: app
    references: core
    types:
      - name: Repository[T]
        base: core.Object
        implements: [core.IEnumerable[T], core.IDisposable]
        params:
          - name: T
            flags: class
            constraints: core.IEquatable[T]
        after: app.Migrations
        tags:
          layer: storage
        default_constructor: true
      - name: Money
        kind: Struct
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Modules, 1)

	m := f.Modules[0]
	assert.Equal(t, StringOrArray{"core"}, m.References)
	require.Len(t, m.Types, 2)

	repo := m.Types[0]
	assert.Equal(t, KindClass, repo.Kind, "kind defaults to class")
	assert.Equal(t, StringOrArray{"core.IEnumerable[T]", "core.IDisposable"}, repo.Implements)
	require.Len(t, repo.Params, 1)
	assert.True(t, repo.Params[0].Flags.Contains(FlagClass))
	assert.Equal(t, StringOrArray{"app.Migrations"}, repo.After)
	assert.Equal(t, "storage", repo.Tags["layer"])
	assert.True(t, repo.DefaultConstructor)

	assert.Equal(t, KindStruct, m.Types[1].Kind)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("modules: [{name: app, references: {a: b}}]"))
	require.Error(t, err)

	_, err = Parse([]byte("modules: ["))
	require.Error(t, err)
}

func TestWriteFileAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")

	f := &File{Modules: []ModuleSpec{{
		Name:       "app",
		References: StringOrArray{"core"},
		Types:      []TypeSpec{{Name: "Service", Kind: KindClass, After: StringOrArray{"app.Config"}}},
	}}}

	require.NoError(t, WriteFile(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "references: core\n", "single references are written as a scalar")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.Version)
	assert.Equal(t, f.Modules, loaded.Modules)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
