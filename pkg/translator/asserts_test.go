package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/catalog"
)

func newChecker() *checker {
	return &checker{catalog: catalog.Default(), types: map[ast.Expression]ast.DataType{}}
}

func typed(c *checker, dt ast.DataType) ast.Expression {
	expr := ast.ID("tmp")
	c.setType(expr, dt)
	return expr
}

func TestAssertDataType(t *testing.T) {
	c := newChecker()
	assert.NoError(t, c.assertDataType(typed(c, ast.DataTypeFloat), ast.DataTypeFloat))
	assert.NoError(t, c.assertDataType(typed(c, ast.DataTypeFloat), numericTypes...))

	err := c.assertDataType(ast.At(7, typed(c, ast.DataTypeInt)), ast.DataTypeFloat)
	require.Error(t, err)
	assert.True(t, IsKind(err, DataTypeMismatch))
	assert.Equal(t, "line 7: Expecting data type/s: float but got: int", err.Error())
}

func TestAssertIdentifierExists(t *testing.T) {
	c := newChecker()
	scope := NewScope()
	scope.AddVar("known", ast.DataTypeInt)

	assert.NoError(t, c.assertIdentifierExists(scope, ast.ID("log"), true))
	assert.NoError(t, c.assertIdentifierExists(scope, ast.ID("KNOWN"), false))

	err := c.assertIdentifierExists(scope, ast.ID("waka"), false)
	assert.True(t, IsKind(err, UndefinedIdentifier))
	assert.Contains(t, err.Error(), "Undefined identifier: waka")

	assert.True(t, IsKind(c.assertIdentifierExists(scope, ast.ID("known"), true), UndefinedIdentifier))
	assert.True(t, IsKind(c.assertIdentifierExists(scope, ast.ID("log"), false), UndefinedIdentifier))
}

func TestAssertFunctionArgs(t *testing.T) {
	c := newChecker()
	call := func(types ...ast.DataType) *ast.CallExpression {
		args := make([]ast.Expression, len(types))
		for i, dt := range types {
			args[i] = typed(c, dt)
		}
		return ast.Call("log", args...)
	}

	assert.NoError(t, c.assertFunctionArgs(call(ast.DataTypeStr)))
	assert.True(t, IsKind(c.assertFunctionArgs(call()), ArityMismatch))
	assert.True(t, IsKind(c.assertFunctionArgs(call(ast.DataTypeStr, ast.DataTypeStr)), ArityMismatch))
	assert.True(t, IsKind(c.assertFunctionArgs(call(ast.DataTypeInt)), DataTypeMismatch))
}

func TestAssertBinaryOperands(t *testing.T) {
	c := newChecker()
	cases := []struct {
		op          string
		left, right ast.DataType
		ok          bool
	}{
		{"add", ast.DataTypeStr, ast.DataTypeBool, true},
		{"add", ast.DataTypeInt, ast.DataTypeFloat, true},
		{"add", ast.DataTypeBool, ast.DataTypeInt, false},
		{"and", ast.DataTypeBool, ast.DataTypeBool, true},
		{"or", ast.DataTypeBool, ast.DataTypeInt, false},
		{"mod", ast.DataTypeInt, ast.DataTypeInt, true},
		{"mod", ast.DataTypeInt, ast.DataTypeFloat, false},
		{"div", ast.DataTypeFloat, ast.DataTypeInt, true},
		{"sub", ast.DataTypeStr, ast.DataTypeStr, false},
		{"gte", ast.DataTypeInt, ast.DataTypeFloat, true},
		{"neq", ast.DataTypeStr, ast.DataTypeStr, false},
	}
	for _, tc := range cases {
		err := c.assertBinaryOperands(tc.op, typed(c, tc.left), typed(c, tc.right))
		if tc.ok {
			assert.NoError(t, err, "%s %s %s", tc.left, tc.op, tc.right)
		} else {
			assert.True(t, IsKind(err, DataTypeMismatch), "%s %s %s", tc.left, tc.op, tc.right)
		}
	}
}

func TestAssertInsideLoop(t *testing.T) {
	root := NewScope()
	assert.True(t, IsKind(assertInsideLoop(root, ast.Break()), BreakOutsideLoop))
	loop := root.Push()
	loop.FlagInLoop()
	assert.NoError(t, assertInsideLoop(loop.Push(), ast.Break()))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "AssignToConst", AssignToConst.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
