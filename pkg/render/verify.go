package render

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// SyntaxError locates the first problem tree-sitter finds in generated source.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("render: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

var (
	javascriptOnce sync.Once
	javascript     *sitter.Language
)

func javascriptLanguage() *sitter.Language {
	javascriptOnce.Do(func() {
		javascript = sitter.NewLanguage(tree_sitter_javascript.Language())
	})
	return javascript
}

// Verify parses source as JavaScript and reports the first syntax error, if any.
func Verify(source []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(javascriptLanguage()); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("render: parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("render: unexpected root node")
	}
	if root.Kind() != "program" {
		return fmt.Errorf("render: unexpected root node %s", root.Kind())
	}
	if !root.HasError() {
		return nil
	}
	return syntaxError(root)
}

func syntaxError(root *sitter.Node) *SyntaxError {
	node := firstNode(root, func(n *sitter.Node) bool { return n.IsMissing() })
	message := "syntax error"
	if node != nil {
		message = fmt.Sprintf("syntax error: expected %s", node.Kind())
	} else {
		node = firstNode(root, func(n *sitter.Node) bool { return n.IsError() })
	}
	if node == nil {
		node = root
	}
	start := node.StartPosition()
	return &SyntaxError{Message: message, Line: int(start.Row) + 1, Column: int(start.Column) + 1}
}

// firstNode returns the earliest node in source order that matches.
func firstNode(root *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(node *sitter.Node) {
		if !match(node) {
			return
		}
		if best == nil || node.StartByte() < best.StartByte() {
			best = node
		}
	})
	return best
}

func walkNodes(root *sitter.Node, visit func(node *sitter.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		walkNodes(child, visit)
	}
}
