package translator

import (
	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/estree"
	"djinn/compiler-go/pkg/runtime"
)

type operatorArity int

const (
	unaryOp operatorArity = iota
	binaryOp
)

type operatorInfo struct {
	symbol  string
	arity   operatorArity
	logical bool
}

var operators = map[string]operatorInfo{
	"plus":  {symbol: "+", arity: unaryOp},
	"minus": {symbol: "-", arity: unaryOp},
	"not":   {symbol: "!", arity: unaryOp},

	"add": {symbol: "+", arity: binaryOp},
	"sub": {symbol: "-", arity: binaryOp},
	"mul": {symbol: "*", arity: binaryOp},
	"div": {symbol: "/", arity: binaryOp},
	"mod": {symbol: "%", arity: binaryOp},

	"lt":  {symbol: "<", arity: binaryOp},
	"gt":  {symbol: ">", arity: binaryOp},
	"lte": {symbol: "<=", arity: binaryOp},
	"gte": {symbol: ">=", arity: binaryOp},
	"eq":  {symbol: "==", arity: binaryOp},
	"neq": {symbol: "!=", arity: binaryOp},

	"and": {symbol: "&&", arity: binaryOp, logical: true},
	"or":  {symbol: "||", arity: binaryOp, logical: true},
}

var numericTypes = []ast.DataType{ast.DataTypeInt, ast.DataTypeFloat}

func isComparator(op string) bool {
	switch op {
	case "lt", "gt", "lte", "gte", "eq", "neq":
		return true
	}
	return false
}

func isLogical(op string) bool {
	return op == "and" || op == "or"
}

// isConcat reports whether an add joins strings rather than numbers.
func isConcat(op string, left, right ast.DataType) bool {
	return op == "add" && (left == ast.DataTypeStr || right == ast.DataTypeStr)
}

func needsDivGuard(op string) bool {
	return op == "div" || op == "mod"
}

func binaryResultType(op string, left, right ast.DataType) ast.DataType {
	switch {
	case op == "mod":
		return ast.DataTypeInt
	case isConcat(op, left, right):
		return ast.DataTypeStr
	case isComparator(op), isLogical(op):
		return ast.DataTypeBool
	case left == ast.DataTypeFloat || right == ast.DataTypeFloat:
		return ast.DataTypeFloat
	default:
		return ast.DataTypeInt
	}
}

// defaultLiteral is the value an uninitialised declaration starts with.
func defaultLiteral(dt ast.DataType) (*estree.Literal, bool) {
	switch dt {
	case ast.DataTypeStr:
		return estree.Lit(""), true
	case ast.DataTypeInt, ast.DataTypeFloat:
		return estree.Lit(int64(0)), true
	case ast.DataTypeBool:
		return estree.Lit(false), true
	}
	return nil, false
}

// lowering builds target tree fragments against the runtime namespace object.
type lowering struct {
	namespace string
}

func (l lowering) ns() *estree.Identifier {
	return estree.ID(l.namespace)
}

// slot addresses NS.__scope["mangled"].
func (l lowering) slot(mangled string) *estree.MemberExpression {
	return estree.Index(estree.Member(l.ns(), runtime.ScopeStore), mangled)
}

func (l lowering) assign(mangled string, value estree.Expression, operator string) *estree.AssignmentExpression {
	return estree.NewAssignmentExpression(operator, l.slot(mangled), value)
}

// call builds NS.name(args...), used for builtins and runtime helpers alike.
func (l lowering) call(name string, args ...estree.Expression) *estree.CallExpression {
	return estree.NewCallExpression(estree.Member(l.ns(), name), args)
}

func (l lowering) divGuard(operand estree.Expression) *estree.CallExpression {
	return l.call(runtime.DivGuard, operand)
}
