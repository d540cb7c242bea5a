package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo("defaulted", "max_depth defaulted to 100", "mapper", "max_depth")
	d.AddWarning("unused_key", "key table is empty", "keys", "")
	d.AddError("invalid_naming", `unknown naming "snek"`, "mapper", "naming", "snake")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, DiagnosticError, d.All()[0].Severity)

	assert.EqualError(t, d.Error(),
		`[mapper] naming: [invalid_naming] unknown naming "snek" (did you mean snake?)`)
	assert.Equal(t, "[keys]: [unused_key] key table is empty", d.Warnings[0].String())

	var other Diagnostics
	other.AddError("duplicate_key", "duplicate key code 1", "keys", "_id")
	d.Merge(other)
	assert.Len(t, d.Errors, 2)
}

func TestDiagnosticSeverity_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(7).String())
}
