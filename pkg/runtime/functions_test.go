package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godfearingman/ape/pkg/ast"
)

func TestFunctionTableRedeclarationOverwrites(t *testing.T) {
	table := NewFunctionTable()
	table.Define(NewFunction(ast.Fn("f", []string{"x"}, ast.Var("x"))))
	table.Define(NewFunction(ast.Fn("f", []string{"a", "b"}, ast.Add(ast.Var("a"), ast.Var("b")))))

	fn, ok := table.Lookup("f")
	require.True(t, ok)
	assert.Equal(t, 2, fn.Arity())
	assert.Equal(t, "f(a, b)", fn.Signature())
	assert.Equal(t, 1, table.Len())
}

func TestFunctionTableNamesSorted(t *testing.T) {
	table := NewFunctionTable()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		table.Define(&Function{Name: name})
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, table.Names())

	_, ok := table.Lookup("missing")
	assert.False(t, ok)
}
