package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/diag"
	"github.com/ember-lang/emberc/source"
)

func TestDiagnosticFormat(t *testing.T) {
	d := diag.New(diag.TypeError, source.Location{Line: 3, Character: 5}, "cannot convert %s to %s", "int", "bool")
	assert.Equal(t, "[3:5] type error: cannot convert int to bool", d.Error())
}

func TestDiagnosticZeroLocation(t *testing.T) {
	d := diag.New(diag.IRError, source.Location{}, "lowering failed")
	assert.Equal(t, "IR error: lowering failed", d.Error())
}

func TestAsRoundTrip(t *testing.T) {
	orig := diag.New(diag.ScopeError, source.Location{Line: 1, Character: 1}, "undeclared name %q", "foo")
	wrapped := diag.Wrap(diag.ScopeError, source.Location{Line: 1, Character: 1}, orig, "resolving identifier")
	got, ok := diag.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, diag.ScopeError, got.Kind)
}
