package ast

// Program and sentence helpers.

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}

func Sentence(expr Expression) *ExpressionSentence {
	return NewExpressionSentence(expr)
}

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *Literal {
	return NewLiteral(value, DataTypeInt)
}

func Flt(value float64) *Literal {
	return NewLiteral(value, DataTypeFloat)
}

func Str(value string) *Literal {
	return NewLiteral(value, DataTypeStr)
}

func Bool(value bool) *Literal {
	return NewLiteral(value, DataTypeBool)
}

// Operation helpers.

func Bin(operator string, left, right Expression) *OperationExpression {
	return NewOperationExpression(operator, left, right)
}

func Un(operator string, operand Expression) *OperationExpression {
	return NewOperationExpression(operator, nil, operand)
}

func Call(name string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(name), args)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression("=", ID(name), value)
}

func AssignOp(operator, name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(operator, ID(name), value)
}

// Declaration helpers. A nil init leaves the declaration uninitialised.

func Var(name string, dataType DataType, value Expression) *VarDeclaration {
	return NewVarDeclaration(ID(name), dataType, value)
}

func Const(name string, dataType DataType, value Expression) *ConstDeclaration {
	return NewConstDeclaration(ID(name), dataType, value)
}

// Control flow helpers.

func If(condition Expression, consequent []Statement, alternates ...*Alternate) *IfSentence {
	return NewIfSentence(condition, consequent, alternates)
}

func ElseIf(condition Expression, consequent ...Statement) *Alternate {
	return &Alternate{ElseIf: NewIfSentence(condition, consequent, nil)}
}

func Else(body ...Statement) *Alternate {
	return &Alternate{Body: body}
}

func Block(stmts ...Statement) []Statement {
	return stmts
}

func Loop(body ...Statement) *LoopSentence {
	return NewLoopSentence(body)
}

func Break() *BreakSentence {
	return NewBreakSentence()
}

// At sets the source line on node and returns it, for building trees inline.
func At[N Node](line int, node N) N {
	SetLine(node, line)
	return node
}
