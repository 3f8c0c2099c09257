package render

import (
	"strings"

	"djinn/compiler-go/pkg/estree"
)

// Operator precedence, loosest first.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precCall
	precPrimary
)

var binaryPrecedence = map[string]int{
	"||":  precOr,
	"&&":  precAnd,
	"==":  precEquality,
	"!=":  precEquality,
	"===": precEquality,
	"!==": precEquality,
	"<":   precRelational,
	">":   precRelational,
	"<=":  precRelational,
	">=":  precRelational,
	"+":   precAdditive,
	"-":   precAdditive,
	"*":   precMultiplicative,
	"/":   precMultiplicative,
	"%":   precMultiplicative,
}

func precedenceOf(expr estree.Expression) int {
	switch e := expr.(type) {
	case *estree.AssignmentExpression:
		return precAssign
	case *estree.BinaryExpression:
		return binaryPrecedence[e.Operator]
	case *estree.LogicalExpression:
		return binaryPrecedence[e.Operator]
	case *estree.UnaryExpression:
		return precUnary
	case *estree.CallExpression, *estree.MemberExpression:
		return precCall
	case *estree.Literal:
		// negative numbers bind like unary minus
		if strings.HasPrefix(literalText(e), "-") {
			return precUnary
		}
		return precPrimary
	default:
		return precPrimary
	}
}

// expression prints expr, parenthesised when it binds looser than minPrec.
func (p *printer) expression(expr estree.Expression, minPrec int) (string, error) {
	text, err := p.bare(expr)
	if err != nil {
		return "", err
	}
	if precedenceOf(expr) < minPrec {
		return "(" + text + ")", nil
	}
	return text, nil
}

func (p *printer) bare(expr estree.Expression) (string, error) {
	switch e := expr.(type) {
	case *estree.Literal:
		return literalText(e), nil
	case *estree.Identifier:
		return e.Name, nil
	case *estree.MemberExpression:
		object, err := p.expression(e.Object, precCall)
		if err != nil {
			return "", err
		}
		if e.Computed {
			prop, err := p.expression(e.Property, precLowest)
			if err != nil {
				return "", err
			}
			return object + "[" + prop + "]", nil
		}
		prop, ok := e.Property.(*estree.Identifier)
		if !ok {
			return "", unsupported(e.Property)
		}
		return object + "." + prop.Name, nil
	case *estree.CallExpression:
		callee, err := p.expression(e.Callee, precCall)
		if err != nil {
			return "", err
		}
		args := make([]string, len(e.Arguments))
		for i, arg := range e.Arguments {
			text, err := p.expression(arg, precAssign)
			if err != nil {
				return "", err
			}
			args[i] = text
		}
		return callee + "(" + strings.Join(args, ", ") + ")", nil
	case *estree.BinaryExpression:
		return p.binary(e.Operator, e.Left, e.Right)
	case *estree.LogicalExpression:
		return p.binary(e.Operator, e.Left, e.Right)
	case *estree.UnaryExpression:
		arg, err := p.expression(e.Argument, precUnary)
		if err != nil {
			return "", err
		}
		// keep "- -x" from collapsing into a decrement
		if (e.Operator == "-" || e.Operator == "+") && strings.HasPrefix(arg, e.Operator) {
			arg = "(" + arg + ")"
		}
		return e.Operator + arg, nil
	case *estree.AssignmentExpression:
		left, err := p.expression(e.Left, precCall)
		if err != nil {
			return "", err
		}
		right, err := p.expression(e.Right, precAssign)
		if err != nil {
			return "", err
		}
		return left + " " + e.Operator + " " + right, nil
	default:
		return "", unsupported(expr)
	}
}

// binary prints a left-associative operation.
func (p *printer) binary(op string, left, right estree.Expression) (string, error) {
	prec := binaryPrecedence[op]
	l, err := p.expression(left, prec)
	if err != nil {
		return "", err
	}
	r, err := p.expression(right, prec+1)
	if err != nil {
		return "", err
	}
	return l + " " + op + " " + r, nil
}

func literalText(lit *estree.Literal) string {
	if lit.Raw != "" {
		return lit.Raw
	}
	return estree.RawValue(lit.Value)
}
