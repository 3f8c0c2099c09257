package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrUnknownDataType = errors.New("unknown data type")
	ErrMalformedNode   = errors.New("malformed node")
)

// DecodeError reports a parser tree that cannot be turned into nodes.
type DecodeError struct {
	Line    int
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ast: line %d: %s", e.Line, e.Message)
	}
	return "ast: " + e.Message
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(line int, kind error, format string, args ...any) *DecodeError {
	return &DecodeError{Line: line, Message: fmt.Sprintf(format, args...), Err: kind}
}

// ReadProgram decodes the JSON tree emitted by the parser.
func ReadProgram(r io.Reader) (*Program, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: parse tree: %w", err)
	}
	node, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	program, ok := node.(*Program)
	if !ok {
		return nil, decodeErr(node.Line(), ErrMalformedNode, "expected Program root, got %s", node.NodeType())
	}
	return program, nil
}

func DecodeProgram(data []byte) (*Program, error) {
	return ReadProgram(bytes.NewReader(data))
}

// DecodeNode builds a node from its generic JSON form. Numbers may be float64 or
// json.Number.
func DecodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	line := lineOf(node)
	switch NodeType(typ) {
	case NodeProgram:
		var sentences any
		switch body := node["body"].(type) {
		case map[string]any:
			sentences = body["sentences"]
		default:
			sentences = body
		}
		body, err := decodeStatements(sentences, line)
		if err != nil {
			return nil, err
		}
		return At(line, NewProgram(body)), nil
	case NodeExpressionSentence:
		expr, err := decodeExpression(node["expression"], line, "expression")
		if err != nil {
			return nil, err
		}
		return At(line, NewExpressionSentence(expr)), nil
	case NodeLiteral:
		dt, err := decodeDataType(node["dataType"], line)
		if err != nil {
			return nil, err
		}
		value, err := literalValue(node["value"], dt, line)
		if err != nil {
			return nil, err
		}
		return At(line, NewLiteral(value, dt)), nil
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, decodeErr(line, ErrMalformedNode, "identifier without a name")
		}
		return At(line, NewIdentifier(name)), nil
	case NodeOperationExpression:
		op, _ := node["operator"].(string)
		var left Expression
		if raw, ok := node["left"]; ok && raw != nil {
			decoded, err := decodeExpression(raw, line, "left operand")
			if err != nil {
				return nil, err
			}
			left = decoded
		}
		rightRaw, ok := node["right"]
		if !ok || rightRaw == nil {
			rightRaw = node["argument"]
		}
		right, err := decodeExpression(rightRaw, line, "right operand")
		if err != nil {
			return nil, err
		}
		return At(line, NewOperationExpression(op, left, right)), nil
	case NodeCallExpression:
		callee, err := decodeIdentifier(node["callee"], line, "callee")
		if err != nil {
			return nil, err
		}
		argsVal, _ := node["args"].([]any)
		args := make([]Expression, 0, len(argsVal))
		for _, raw := range argsVal {
			arg, err := decodeExpression(raw, line, "argument")
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		call := At(line, NewCallExpression(callee, args))
		if raw, ok := node["dataType"]; ok && raw != nil {
			dt, err := decodeDataType(raw, line)
			if err != nil {
				return nil, err
			}
			call.DataType = dt
		}
		return call, nil
	case NodeVarDeclaration, NodeConstDeclaration:
		id, err := decodeIdentifier(node["id"], line, "declared identifier")
		if err != nil {
			return nil, err
		}
		dt, err := decodeDataType(node["dataType"], line)
		if err != nil {
			return nil, err
		}
		var initExpr Expression
		if raw, ok := node["init"]; ok && raw != nil {
			initExpr, err = decodeExpression(raw, line, "initializer")
			if err != nil {
				return nil, err
			}
		}
		if NodeType(typ) == NodeConstDeclaration {
			return At(line, NewConstDeclaration(id, dt, initExpr)), nil
		}
		return At(line, NewVarDeclaration(id, dt, initExpr)), nil
	case NodeAssignmentExpression:
		op, _ := node["operator"].(string)
		if op == "" {
			op = "="
		}
		left, err := decodeIdentifier(node["left"], line, "assignment target")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"], line, "assigned value")
		if err != nil {
			return nil, err
		}
		return At(line, NewAssignmentExpression(op, left, right)), nil
	case NodeIfSentence:
		ifs, err := decodeIf(node, line)
		if err != nil {
			return nil, err
		}
		return ifs, nil
	case NodeLoopSentence:
		sentences, ok := node["sentences"]
		if !ok {
			if body, isMap := node["body"].(map[string]any); isMap {
				sentences = body["sentences"]
			}
		}
		body, err := decodeStatements(sentences, line)
		if err != nil {
			return nil, err
		}
		return At(line, NewLoopSentence(body)), nil
	case NodeBreakSentence:
		return At(line, NewBreakSentence()), nil
	default:
		return nil, decodeErr(line, ErrUnknownNodeType, "can't translate block of type: %q", typ)
	}
}

func decodeIf(node map[string]any, line int) (*IfSentence, error) {
	clause, ok := node["if"].(map[string]any)
	if !ok {
		return nil, decodeErr(line, ErrMalformedNode, "if sentence without an if clause")
	}
	cond, err := decodeExpression(clause["condition"], line, "if condition")
	if err != nil {
		return nil, err
	}
	consequent, err := decodeStatements(clause["consequent"], line)
	if err != nil {
		return nil, err
	}
	altsVal, _ := clause["alternates"].([]any)
	alternates := make([]*Alternate, 0, len(altsVal))
	for _, raw := range altsVal {
		alt, err := decodeAlternate(raw, line)
		if err != nil {
			return nil, err
		}
		alternates = append(alternates, alt)
	}
	return At(line, NewIfSentence(cond, consequent, alternates)), nil
}

// An alternate is a statement list; a list led by an if clause is an elseif.
func decodeAlternate(raw any, line int) (*Alternate, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, decodeErr(line, ErrMalformedNode, "invalid alternate %T", raw)
	}
	if len(items) > 0 {
		if first, isMap := items[0].(map[string]any); isMap {
			if _, hasIf := first["if"]; hasIf {
				elseIf, err := decodeIf(first, lineOr(first, line))
				if err != nil {
					return nil, err
				}
				return &Alternate{ElseIf: elseIf}, nil
			}
		}
	}
	body, err := decodeStatements(items, line)
	if err != nil {
		return nil, err
	}
	return &Alternate{Body: body}, nil
}

func decodeStatements(raw any, line int) ([]Statement, error) {
	if raw == nil {
		return []Statement{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, decodeErr(line, ErrMalformedNode, "invalid statement list %T", raw)
	}
	stmts := make([]Statement, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, decodeErr(line, ErrMalformedNode, "invalid statement %T", item)
		}
		node, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Statement)
		if !ok {
			// bare expressions are accepted as expression sentences
			expr, isExpr := node.(Expression)
			if !isExpr {
				return nil, decodeErr(node.Line(), ErrMalformedNode, "%s is not a statement", node.NodeType())
			}
			stmt = At(node.Line(), NewExpressionSentence(expr))
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeExpression(raw any, line int, what string) (Expression, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeErr(line, ErrMalformedNode, "missing %s", what)
	}
	node, err := DecodeNode(child)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, decodeErr(node.Line(), ErrMalformedNode, "invalid %s %s", what, node.NodeType())
	}
	return expr, nil
}

func decodeIdentifier(raw any, line int, what string) (*Identifier, error) {
	expr, err := decodeExpression(raw, line, what)
	if err != nil {
		return nil, err
	}
	id, ok := expr.(*Identifier)
	if !ok {
		return nil, decodeErr(expr.Line(), ErrMalformedNode, "invalid %s %s", what, expr.NodeType())
	}
	return id, nil
}

func decodeDataType(raw any, line int) (DataType, error) {
	name, _ := raw.(string)
	dt := DataType(name)
	if !dt.Valid() {
		return "", decodeErr(line, ErrUnknownDataType, "unknown data type: %v", raw)
	}
	return dt, nil
}

func literalValue(raw any, dt DataType, line int) (any, error) {
	switch dt {
	case DataTypeInt:
		switch v := raw.(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return i, nil
			}
			f, err := v.Float64()
			if err != nil || f != float64(int64(f)) {
				return nil, decodeErr(line, ErrMalformedNode, "invalid int literal %s", v)
			}
			return int64(f), nil
		case float64:
			if v != float64(int64(v)) {
				return nil, decodeErr(line, ErrMalformedNode, "invalid int literal %v", v)
			}
			return int64(v), nil
		}
	case DataTypeFloat:
		switch v := raw.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, decodeErr(line, ErrMalformedNode, "invalid float literal %s", v)
			}
			return f, nil
		case float64:
			return v, nil
		}
	case DataTypeStr:
		if v, ok := raw.(string); ok {
			return v, nil
		}
	case DataTypeBool:
		if v, ok := raw.(bool); ok {
			return v, nil
		}
	}
	return nil, decodeErr(line, ErrMalformedNode, "literal %v does not hold a %s", raw, dt)
}

func lineOf(node map[string]any) int {
	return lineOr(node, 0)
}

func lineOr(node map[string]any, fallback int) int {
	switch v := node["line"].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case float64:
		return int(v)
	}
	return fallback
}

// DecodeStatements accepts a Program, a JSON array of nodes, or a single node and
// returns the statements it holds, as an interactive prompt receives them.
func DecodeStatements(data []byte) ([]Statement, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: parse tree: %w", err)
	}
	if node, ok := raw.(map[string]any); ok {
		if typ, _ := node["type"].(string); NodeType(typ) == NodeProgram {
			decoded, err := DecodeNode(node)
			if err != nil {
				return nil, err
			}
			return decoded.(*Program).Body, nil
		}
		return decodeStatements([]any{node}, lineOf(node))
	}
	return decodeStatements(raw, 0)
}
