package ast

type NodeType string

const (
	NodeProgram              NodeType = "Program"
	NodeExpressionSentence   NodeType = "ExpressionSentence"
	NodeLiteral              NodeType = "Literal"
	NodeIdentifier           NodeType = "Identifier"
	NodeOperationExpression  NodeType = "OperationExpression"
	NodeCallExpression       NodeType = "CallExpression"
	NodeVarDeclaration       NodeType = "VarDeclaration"
	NodeConstDeclaration     NodeType = "ConstDeclaration"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeIfSentence           NodeType = "IfSentence"
	NodeLoopSentence         NodeType = "LoopSentence"
	NodeBreakSentence        NodeType = "BreakSentence"
)

type Node interface {
	NodeType() NodeType
	Line() int
	isNode()
}

type nodeImpl struct {
	Type       NodeType `json:"type"`
	SourceLine int      `json:"line"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.SourceLine }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setLine(line int) { n.SourceLine = line }

// SetLine annotates the node with the source line it was parsed from.
func SetLine(node Node, line int) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setLine(int) }); ok {
		setter.setLine(line)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// DataType is one of the four primitive types of the language.
type DataType string

const (
	DataTypeInt   DataType = "int"
	DataTypeFloat DataType = "float"
	DataTypeStr   DataType = "str"
	DataTypeBool  DataType = "bool"
)

func (d DataType) Valid() bool {
	switch d {
	case DataTypeInt, DataTypeFloat, DataTypeStr, DataTypeBool:
		return true
	}
	return false
}

func (d DataType) String() string { return string(d) }

// Program

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

type ExpressionSentence struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionSentence(expr Expression) *ExpressionSentence {
	return &ExpressionSentence{nodeImpl: newNodeImpl(NodeExpressionSentence), Expression: expr}
}

// Expressions

// Literal holds an int64, float64, string or bool value; the parser attaches its DataType.
type Literal struct {
	nodeImpl
	expressionMarker

	Value    any      `json:"value"`
	DataType DataType `json:"dataType"`
}

func NewLiteral(value any, dataType DataType) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value, DataType: dataType}
}

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// OperationExpression is unary when Left is nil; the operand then lives in Right.
type OperationExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left,omitempty"`
	Right    Expression `json:"right"`
}

func NewOperationExpression(operator string, left, right Expression) *OperationExpression {
	return &OperationExpression{nodeImpl: newNodeImpl(NodeOperationExpression), Operator: operator, Left: left, Right: right}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee *Identifier  `json:"callee"`
	Args   []Expression `json:"args"`

	// DataType is optional; the parser may precompute the return type.
	DataType DataType `json:"dataType,omitempty"`
}

func NewCallExpression(callee *Identifier, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Args: args}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator string      `json:"operator"`
	Left     *Identifier `json:"left"`
	Right    Expression  `json:"right"`
}

func NewAssignmentExpression(operator string, left *Identifier, right Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Left: left, Right: right}
}

// Declarations

type VarDeclaration struct {
	nodeImpl
	statementMarker

	ID       *Identifier `json:"id"`
	DataType DataType    `json:"dataType"`
	Init     Expression  `json:"init,omitempty"`
}

func NewVarDeclaration(id *Identifier, dataType DataType, value Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), ID: id, DataType: dataType, Init: value}
}

type ConstDeclaration struct {
	nodeImpl
	statementMarker

	ID       *Identifier `json:"id"`
	DataType DataType    `json:"dataType"`
	Init     Expression  `json:"init,omitempty"`
}

func NewConstDeclaration(id *Identifier, dataType DataType, value Expression) *ConstDeclaration {
	return &ConstDeclaration{nodeImpl: newNodeImpl(NodeConstDeclaration), ID: id, DataType: dataType, Init: value}
}

// Control flow

type IfSentence struct {
	nodeImpl
	statementMarker

	Condition  Expression   `json:"condition"`
	Consequent []Statement  `json:"consequent"`
	Alternates []*Alternate `json:"alternates,omitempty"`
}

func NewIfSentence(condition Expression, consequent []Statement, alternates []*Alternate) *IfSentence {
	return &IfSentence{nodeImpl: newNodeImpl(NodeIfSentence), Condition: condition, Consequent: consequent, Alternates: alternates}
}

// Alternate is one clause after the consequent: an elseif when ElseIf is set, an else
// otherwise. The Alternates of an ElseIf are ignored; the chain is carried by the parent.
type Alternate struct {
	ElseIf *IfSentence `json:"elseIf,omitempty"`
	Body   []Statement `json:"body,omitempty"`
}

type LoopSentence struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"sentences"`
}

func NewLoopSentence(body []Statement) *LoopSentence {
	return &LoopSentence{nodeImpl: newNodeImpl(NodeLoopSentence), Body: body}
}

type BreakSentence struct {
	nodeImpl
	statementMarker
}

func NewBreakSentence() *BreakSentence {
	return &BreakSentence{nodeImpl: newNodeImpl(NodeBreakSentence)}
}
