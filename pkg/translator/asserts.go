package translator

import (
	"strings"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/catalog"
)

// checker holds what the assertions consult: the builtin catalog and the types
// inferred so far in the current run.
type checker struct {
	catalog *catalog.Catalog
	types   map[ast.Expression]ast.DataType
}

func (c *checker) typeOf(expr ast.Expression) ast.DataType {
	return c.types[expr]
}

func (c *checker) setType(expr ast.Expression, dt ast.DataType) {
	c.types[expr] = dt
}

func joinTypes(types []ast.DataType) string {
	names := make([]string, len(types))
	for i, dt := range types {
		names[i] = string(dt)
	}
	return strings.Join(names, ",")
}

func (c *checker) assertDataType(expr ast.Expression, allowed ...ast.DataType) error {
	got := c.typeOf(expr)
	for _, dt := range allowed {
		if dt == got {
			return nil
		}
	}
	return errorf(DataTypeMismatch, expr.Line(), "Expecting data type/s: %s but got: %s", joinTypes(allowed), got)
}

// assertIdentifierExists resolves call targets against the catalog and value uses
// against the scope chain.
func (c *checker) assertIdentifierExists(scope Scope, id *ast.Identifier, isCall bool) error {
	var found bool
	if isCall {
		found = c.catalog.Has(id.Name)
	} else {
		_, found = scope.Lookup(id.Name)
	}
	if !found {
		return errorf(UndefinedIdentifier, id.Line(), "Undefined identifier: %s", id.Name)
	}
	return nil
}

func (c *checker) assertFunctionArgs(call *ast.CallExpression) error {
	fn, ok := c.catalog.Lookup(call.Callee.Name)
	if !ok {
		return errorf(UndefinedIdentifier, call.Callee.Line(), "Undefined identifier: %s", call.Callee.Name)
	}
	if fn.Arity() != len(call.Args) {
		return errorf(ArityMismatch, call.Line(), "Expecting %d argument/s for function: %s", fn.Arity(), call.Callee.Name)
	}
	for idx, arg := range call.Args {
		if err := c.assertDataType(arg, fn.Params[idx]...); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) assertBinaryOperands(op string, left, right ast.Expression) error {
	var allowed []ast.DataType
	switch {
	case isConcat(op, c.typeOf(left), c.typeOf(right)):
		return nil
	case isLogical(op):
		allowed = []ast.DataType{ast.DataTypeBool}
	case op == "mod":
		allowed = []ast.DataType{ast.DataTypeInt}
	default:
		allowed = numericTypes
	}
	if err := c.assertDataType(left, allowed...); err != nil {
		return err
	}
	return c.assertDataType(right, allowed...)
}

func assertInsideLoop(scope Scope, node *ast.BreakSentence) error {
	if !scope.InLoop() {
		return errorf(BreakOutsideLoop, node.Line(), "Unexpected break outside of a loop")
	}
	return nil
}
