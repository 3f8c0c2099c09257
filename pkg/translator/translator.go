// Package translator resolves scopes, infers and checks types, and lowers a Djinn
// program tree to an ESTree program that runs against the runtime namespace object.
//
// A translation either yields a complete tree or exactly one *Error; it never returns a
// partial result. Each run owns its scope chain and inference map, so a Translator may be
// shared across goroutines as long as its catalog is not mutated.
package translator

import (
	"reflect"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/catalog"
	"djinn/compiler-go/pkg/estree"
)

// DefaultNamespace names the runtime object generated programs run against.
const DefaultNamespace = "DJINN"

type Options struct {
	// Namespace is the runtime object name; DefaultNamespace when empty.
	Namespace string
	// Catalog lists the callable builtins; catalog.Default() when nil.
	Catalog *catalog.Catalog
}

type Translator struct {
	namespace string
	catalog   *catalog.Catalog
}

func New(opts Options) *Translator {
	t := &Translator{namespace: opts.Namespace, catalog: opts.Catalog}
	if t.namespace == "" {
		t.namespace = DefaultNamespace
	}
	if t.catalog == nil {
		t.catalog = catalog.Default()
	}
	return t
}

func (t *Translator) Namespace() string { return t.namespace }

func (t *Translator) Catalog() *catalog.Catalog { return t.catalog }

// Result is a translated program plus the data type inferred for every expression.
type Result struct {
	Program *estree.Program
	Types   map[ast.Expression]ast.DataType
}

// Translate lowers program with a default Translator.
func Translate(program *ast.Program) (*estree.Program, error) {
	res, err := New(Options{}).Translate(program)
	if err != nil {
		return nil, err
	}
	return res.Program, nil
}

// Translate lowers program. The input tree is never modified.
func (t *Translator) Translate(program *ast.Program) (*Result, error) {
	if program == nil {
		return nil, errorf(UnknownConstruct, 0, "Can't translate block of type: <nil>")
	}
	r := t.newRun()
	body, err := r.statements(NewScope(), program.Body)
	if err != nil {
		return nil, err
	}
	return &Result{Program: estree.NewProgram(body), Types: r.types}, nil
}

func (t *Translator) newRun() *run {
	types := make(map[ast.Expression]ast.DataType)
	return &run{
		checker: checker{catalog: t.catalog, types: types},
		lower:   lowering{namespace: t.namespace},
	}
}

// run carries the state of one translation.
type run struct {
	checker
	lower lowering
}

func (r *run) statements(scope Scope, stmts []ast.Statement) ([]estree.Statement, error) {
	out := make([]estree.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		translated, err := r.statement(scope, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, translated)
	}
	return out, nil
}

func (r *run) block(scope Scope, stmts []ast.Statement) (*estree.BlockStatement, error) {
	body, err := r.statements(scope, stmts)
	if err != nil {
		return nil, err
	}
	return estree.NewBlockStatement(body), nil
}

func (r *run) statement(scope Scope, stmt ast.Statement) (estree.Statement, error) {
	if isNilNode(stmt) {
		return nil, unknownConstruct(nil)
	}
	switch n := stmt.(type) {
	case *ast.ExpressionSentence:
		expr, err := r.expression(scope, n.Expression)
		if err != nil {
			return nil, err
		}
		return estree.NewExpressionStatement(expr), nil
	case *ast.VarDeclaration:
		return r.declaration(scope, n.ID, BindingVar, n.DataType, n.Init, n.Line())
	case *ast.ConstDeclaration:
		return r.declaration(scope, n.ID, BindingConst, n.DataType, n.Init, n.Line())
	case *ast.IfSentence:
		return r.ifSentence(scope, n, n.Alternates)
	case *ast.LoopSentence:
		sub := scope.Push()
		sub.FlagInLoop()
		body, err := r.block(sub, n.Body)
		if err != nil {
			return nil, err
		}
		return estree.NewInfiniteLoop(body), nil
	case *ast.BreakSentence:
		if err := assertInsideLoop(scope, n); err != nil {
			return nil, err
		}
		return estree.NewBreakStatement(), nil
	default:
		return nil, unknownConstruct(stmt)
	}
}

func (r *run) expression(scope Scope, expr ast.Expression) (estree.Expression, error) {
	if isNilNode(expr) {
		return nil, unknownConstruct(nil)
	}
	switch n := expr.(type) {
	case *ast.Literal:
		if !n.DataType.Valid() {
			return nil, errorf(UnknownDataType, n.Line(), "Unknown data type: %s", n.DataType)
		}
		r.setType(n, n.DataType)
		return estree.Lit(n.Value), nil
	case *ast.Identifier:
		if err := r.assertIdentifierExists(scope, n, false); err != nil {
			return nil, err
		}
		binding, _ := scope.Lookup(n.Name)
		r.setType(n, binding.DataType)
		return r.lower.slot(binding.MangledName), nil
	case *ast.OperationExpression:
		return r.operation(scope, n)
	case *ast.CallExpression:
		return r.call(scope, n)
	case *ast.AssignmentExpression:
		return r.assignment(scope, n)
	default:
		return nil, unknownConstruct(expr)
	}
}

// isNilNode reports a missing child, including typed nil pointers held in an interface.
func isNilNode(node ast.Node) bool {
	if node == nil {
		return true
	}
	v := reflect.ValueOf(node)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func unknownConstruct(node ast.Node) *Error {
	if isNilNode(node) {
		return errorf(UnknownConstruct, 0, "Can't translate block of type: <nil>")
	}
	return errorf(UnknownConstruct, node.Line(), "Can't translate block of type: %s", node.NodeType())
}

func (r *run) operation(scope Scope, n *ast.OperationExpression) (estree.Expression, error) {
	info, ok := operators[n.Operator]
	if !ok {
		return nil, errorf(UnknownOperator, n.Line(), "Unrecognised operator: %s", n.Operator)
	}
	if info.arity == unaryOp {
		if !isNilNode(n.Left) {
			return nil, errorf(UnknownOperator, n.Line(), "Operator %s takes a single operand", n.Operator)
		}
		operand, err := r.expression(scope, n.Right)
		if err != nil {
			return nil, err
		}
		allowed := numericTypes
		if n.Operator == "not" {
			allowed = []ast.DataType{ast.DataTypeBool}
		}
		if err := r.assertDataType(n.Right, allowed...); err != nil {
			return nil, err
		}
		r.setType(n, r.typeOf(n.Right))
		return estree.NewUnaryExpression(info.symbol, operand), nil
	}

	if isNilNode(n.Left) {
		return nil, errorf(UnknownOperator, n.Line(), "Operator %s takes two operands", n.Operator)
	}
	left, err := r.expression(scope, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := r.expression(scope, n.Right)
	if err != nil {
		return nil, err
	}
	if needsDivGuard(n.Operator) {
		right = r.lower.divGuard(right)
	}
	if err := r.assertBinaryOperands(n.Operator, n.Left, n.Right); err != nil {
		return nil, err
	}
	r.setType(n, binaryResultType(n.Operator, r.typeOf(n.Left), r.typeOf(n.Right)))
	if info.logical {
		return estree.NewLogicalExpression(info.symbol, left, right), nil
	}
	return estree.NewBinaryExpression(info.symbol, left, right), nil
}

func (r *run) call(scope Scope, n *ast.CallExpression) (estree.Expression, error) {
	if n.Callee == nil {
		return nil, unknownConstruct(nil)
	}
	args := make([]estree.Expression, 0, len(n.Args))
	for _, arg := range n.Args {
		translated, err := r.expression(scope, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, translated)
	}
	if err := r.assertIdentifierExists(scope, n.Callee, true); err != nil {
		return nil, err
	}
	fn, _ := r.catalog.Lookup(n.Callee.Name)
	dt := n.DataType
	if dt == "" {
		dt = fn.Returns
	}
	r.setType(n, dt)
	if err := r.assertFunctionArgs(n); err != nil {
		return nil, err
	}
	return r.lower.call(fn.Name, args...), nil
}

func (r *run) declaration(scope Scope, id *ast.Identifier, kind BindingKind, dt ast.DataType, value ast.Expression, line int) (estree.Statement, error) {
	if id == nil {
		return nil, errorf(UnknownConstruct, line, "Declaration without an identifier")
	}
	if r.catalog.Has(id.Name) || scope.DeclaredHere(id.Name) {
		return nil, errorf(IdentifierAlreadyExists, line, "Identifier already exists: %s", id.Name)
	}
	if !dt.Valid() {
		return nil, errorf(UnknownDataType, line, "Unknown data type: %s", dt)
	}

	// The binding is visible to its own initializer.
	if kind == BindingConst {
		scope.AddConst(id.Name, dt)
	} else {
		scope.AddVar(id.Name, dt)
	}
	binding, _ := scope.Lookup(id.Name)
	r.setType(id, dt)

	var initExpr estree.Expression
	if value != nil {
		translated, err := r.expression(scope, value)
		if err != nil {
			return nil, err
		}
		if err := r.assertDataType(value, dt); err != nil {
			return nil, err
		}
		initExpr = translated
	} else {
		lit, _ := defaultLiteral(dt)
		initExpr = lit
	}
	return estree.NewExpressionStatement(r.lower.assign(binding.MangledName, initExpr, "=")), nil
}

// compoundOperators maps compound assignment operators to the binary operation they
// apply.
var compoundOperators = map[string]string{
	"+=": "add",
	"-=": "sub",
	"*=": "mul",
	"/=": "div",
	"%=": "mod",
}

func (r *run) assignment(scope Scope, n *ast.AssignmentExpression) (estree.Expression, error) {
	if n.Left == nil {
		return nil, errorf(UnknownConstruct, n.Line(), "Assignment without a target")
	}
	binOp, compound := compoundOperators[n.Operator]
	if n.Operator != "=" && !compound {
		return nil, errorf(UnknownOperator, n.Line(), "Unrecognised operator: %s", n.Operator)
	}
	if err := r.assertIdentifierExists(scope, n.Left, false); err != nil {
		return nil, err
	}
	binding, _ := scope.Lookup(n.Left.Name)
	if binding.Kind == BindingConst {
		return nil, errorf(AssignToConst, n.Line(), "Can't assign values to a const: %s", n.Left.Name)
	}

	right, err := r.expression(scope, n.Right)
	if err != nil {
		return nil, err
	}
	if err := r.assertDataType(n.Right, binding.DataType); err != nil {
		return nil, err
	}
	r.setType(n.Left, binding.DataType)
	if compound {
		if err := r.assertBinaryOperands(binOp, n.Left, n.Right); err != nil {
			return nil, err
		}
		if needsDivGuard(binOp) {
			right = r.lower.divGuard(right)
		}
	}
	r.setType(n, binding.DataType)
	return r.lower.assign(binding.MangledName, right, n.Operator), nil
}

// ifSentence lowers an if with the remaining alternates of its chain. Branch scopes are
// siblings: each alternate is translated from scope, never from the consequent's frame.
func (r *run) ifSentence(scope Scope, n *ast.IfSentence, alternates []*ast.Alternate) (estree.Statement, error) {
	sub := scope.Push()
	test, err := r.expression(sub, n.Condition)
	if err != nil {
		return nil, err
	}
	if err := r.assertDataType(n.Condition, ast.DataTypeBool); err != nil {
		return nil, err
	}
	consequent, err := r.block(sub, n.Consequent)
	if err != nil {
		return nil, err
	}
	alternate, err := r.alternates(scope, alternates)
	if err != nil {
		return nil, err
	}
	return estree.NewIfStatement(test, consequent, alternate), nil
}

func (r *run) alternates(scope Scope, alternates []*ast.Alternate) (estree.Statement, error) {
	if len(alternates) == 0 || alternates[0] == nil {
		return estree.NewBlockStatement(nil), nil
	}
	head := alternates[0]
	if head.ElseIf != nil {
		return r.ifSentence(scope, head.ElseIf, alternates[1:])
	}
	body, err := r.block(scope.Push(), head.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
