// Package render turns ESTree programs into JavaScript source and checks generated source
// with the tree-sitter JavaScript grammar.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"djinn/compiler-go/pkg/estree"
)

const defaultIndent = "  "

type Options struct {
	// Indent is repeated once per nesting level; two spaces when empty.
	Indent string
}

// Render formats program as JavaScript source ending in a newline.
func Render(program *estree.Program) ([]byte, error) {
	return RenderWith(program, Options{})
}

func RenderWith(program *estree.Program, opts Options) ([]byte, error) {
	if program == nil {
		return nil, fmt.Errorf("render: nil program")
	}
	p := newPrinter(opts)
	for _, stmt := range program.Body {
		if err := p.statement(stmt); err != nil {
			return nil, err
		}
	}
	return p.buf.Bytes(), nil
}

// Expression formats a single expression without a trailing semicolon.
func Expression(expr estree.Expression) (string, error) {
	return newPrinter(Options{}).expression(expr, precLowest)
}

type printer struct {
	buf    bytes.Buffer
	indent string
	depth  int
}

func newPrinter(opts Options) *printer {
	indent := opts.Indent
	if indent == "" {
		indent = defaultIndent
	}
	return &printer{indent: indent}
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat(p.indent, p.depth))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) statement(stmt estree.Statement) error {
	switch s := stmt.(type) {
	case *estree.ExpressionStatement:
		expr, err := p.expression(s.Expression, precLowest)
		if err != nil {
			return err
		}
		p.line("%s;", expr)
	case *estree.BlockStatement:
		p.line("{")
		if err := p.body(s); err != nil {
			return err
		}
		p.line("}")
	case *estree.IfStatement:
		return p.ifStatement(s, "")
	case *estree.ForStatement:
		head, err := p.forHead(s)
		if err != nil {
			return err
		}
		p.line("%s {", head)
		if err := p.body(s.Body); err != nil {
			return err
		}
		p.line("}")
	case *estree.BreakStatement:
		if s.Label != nil {
			p.line("break %s;", s.Label.Name)
		} else {
			p.line("break;")
		}
	default:
		return unsupported(stmt)
	}
	return nil
}

func (p *printer) body(block *estree.BlockStatement) error {
	if block == nil {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	for _, stmt := range block.Body {
		if err := p.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ifStatement prints an if chain; prefix carries "} else " when continuing one.
func (p *printer) ifStatement(s *estree.IfStatement, prefix string) error {
	test, err := p.expression(s.Test, precLowest)
	if err != nil {
		return err
	}
	p.line("%sif (%s) {", prefix, test)
	if err := p.body(s.Consequent); err != nil {
		return err
	}
	switch alt := s.Alternate.(type) {
	case nil:
	case *estree.IfStatement:
		return p.ifStatement(alt, "} else ")
	case *estree.BlockStatement:
		if len(alt.Body) > 0 {
			p.line("} else {")
			if err := p.body(alt); err != nil {
				return err
			}
		}
	default:
		p.line("} else {")
		p.depth++
		err := p.statement(alt)
		p.depth--
		if err != nil {
			return err
		}
	}
	p.line("}")
	return nil
}

func (p *printer) forHead(s *estree.ForStatement) (string, error) {
	parts := make([]string, 3)
	for i, expr := range []estree.Expression{s.Init, s.Test, s.Update} {
		if expr == nil {
			continue
		}
		text, err := p.expression(expr, precLowest)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	head := fmt.Sprintf("for (%s; %s; %s)", parts[0], parts[1], parts[2])
	if parts[0] == "" && parts[1] == "" && parts[2] == "" {
		head = "for (;;)"
	}
	return head, nil
}

func unsupported(node estree.Node) error {
	if node == nil {
		return fmt.Errorf("render: missing node")
	}
	return fmt.Errorf("render: unsupported node %s", node.NodeType())
}
