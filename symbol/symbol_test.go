package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/symbol"
)

func TestIntern(t *testing.T) {
	assert.Equal(t, symbol.Intern("abc"), symbol.Intern("abc"))
	assert.False(t, symbol.Intern("abc") == symbol.Intern("cde"))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"_", "_3", "x", "xyz"} {
		id := symbol.Intern(name)
		assert.Equal(t, name, id.Str())
	}
}

func TestHashStable(t *testing.T) {
	id := symbol.Intern("stablehashtest")
	assert.Equal(t, id.Hash(), symbol.Intern("stablehashtest").Hash())
}

func TestReservedSymbols(t *testing.T) {
	assert.Equal(t, "self", symbol.Self.Str())
	assert.Equal(t, "int", symbol.Int.Str())
}
