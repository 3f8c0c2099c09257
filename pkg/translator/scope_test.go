package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djinn/compiler-go/pkg/ast"
)

func TestScopeAddAndLookup(t *testing.T) {
	root := NewScope()
	assert.True(t, root.AddVar("Count", ast.DataTypeInt))
	assert.False(t, root.AddVar("count", ast.DataTypeFloat))
	assert.False(t, root.AddConst("COUNT", ast.DataTypeInt))
	assert.True(t, root.AddConst("limit", ast.DataTypeFloat))

	binding, ok := root.Lookup("cOuNt")
	require.True(t, ok)
	assert.Equal(t, BindingVar, binding.Kind)
	assert.Equal(t, ast.DataTypeInt, binding.DataType)
	assert.Equal(t, "_count", binding.MangledName)

	binding, ok = root.Lookup("LIMIT")
	require.True(t, ok)
	assert.Equal(t, BindingConst, binding.Kind)

	_, ok = root.Lookup("missing")
	assert.False(t, ok)
}

func TestScopeChildSeesAncestors(t *testing.T) {
	root := NewScope()
	root.AddVar("x", ast.DataTypeInt)
	child := root.Push()
	grandchild := child.Push()

	assert.Equal(t, 2, grandchild.Depth())
	binding, ok := grandchild.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, "_x", binding.MangledName)

	assert.True(t, grandchild.AddVar("x", ast.DataTypeStr))
	binding, _ = grandchild.Lookup("x")
	assert.Equal(t, "___x", binding.MangledName)
	assert.Equal(t, ast.DataTypeStr, binding.DataType)
	assert.False(t, child.DeclaredHere("x"))

	binding, _ = child.Lookup("x")
	assert.Equal(t, "_x", binding.MangledName, "child must not see its descendant's bindings")
}

func TestScopeSiblingsAreIsolated(t *testing.T) {
	root := NewScope()
	left := root.Push()
	right := root.Push()
	left.AddVar("tmp", ast.DataTypeBool)

	_, ok := right.Lookup("tmp")
	assert.False(t, ok)
	assert.True(t, right.AddVar("tmp", ast.DataTypeInt))
}

func TestScopePop(t *testing.T) {
	root := NewScope()
	assert.True(t, root.IsRoot())
	child := root.Push()
	assert.False(t, child.IsRoot())

	parent, err := child.Pop()
	require.NoError(t, err)
	assert.Equal(t, root, parent)

	_, err = root.Pop()
	assert.ErrorIs(t, err, ErrPopRootScope)
}

func TestScopeLoopFlagIsInherited(t *testing.T) {
	root := NewScope()
	assert.False(t, root.InLoop())

	loop := root.Push()
	loop.FlagInLoop()
	nested := loop.Push().Push()
	assert.True(t, loop.InLoop())
	assert.True(t, nested.InLoop())
	assert.False(t, root.InLoop())
	assert.False(t, root.Push().InLoop())
}

func TestScopeGrowthKeepsHandlesValid(t *testing.T) {
	root := NewScope()
	root.AddVar("anchor", ast.DataTypeStr)
	scope := root
	for i := 0; i < 64; i++ {
		scope = scope.Push()
	}
	binding, ok := scope.Lookup("anchor")
	require.True(t, ok)
	assert.Equal(t, "_anchor", binding.MangledName)
	assert.Equal(t, 64, scope.Depth())
}
