package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())
	assert.True(t, d.IsValid())

	d.AddWarning(CodeModuleBroken, "types could not be enumerated", "plugins", "")
	require.NoError(t, d.Error(), "warnings do not make diagnostics invalid")

	d.AddError(CodeUnresolvedRef, "unknown type", "app", "core.Strin", "core.String")
	require.Error(t, d.Error())
	assert.Equal(t, "[app] core.Strin: [unresolved_reference] unknown type (did you mean core.String?)",
		d.Error().Error())
}

func TestDiagnostics_MergeAndByCode(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning(CodeModuleBroken, "broken", "x", "")
	b.AddError(CodeModuleBroken, "broken", "y", "")
	b.AddInfo(CodeModuleCycle, "cycle", "z", "")

	a.Merge(b)
	assert.True(t, a.HasErrors())
	assert.Len(t, a.ByCode(CodeModuleBroken), 2)
	assert.Len(t, a.ByCode(CodeModuleCycle), 1)
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
