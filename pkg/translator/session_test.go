package translator

import (
	"testing"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/estree"
)

func TestSessionKeepsEarlierBindings(t *testing.T) {
	session := New(Options{}).NewSession()

	out, err := session.Submit(ast.Var("name", ast.DataTypeStr, ast.Str("djinn")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(out.Body))
	}

	out, err = session.Submit(ast.Sentence(ast.Call("log", ast.Bin("add", ast.Str("hi "), ast.ID("NAME")))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Body) != 1 {
		t.Fatalf("expected only the new statement, got %d", len(out.Body))
	}
	if _, ok := out.Body[0].(*estree.ExpressionStatement); !ok {
		t.Fatalf("expected expression statement, got %T", out.Body[0])
	}
	if got := len(session.History()); got != 2 {
		t.Fatalf("expected 2 history entries, got %d", got)
	}
}

func TestSessionRejectsFailedEntries(t *testing.T) {
	session := New(Options{}).NewSession()
	if _, err := session.Submit(ast.Const("max", ast.DataTypeInt, ast.Int(3))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.Submit(ast.Sentence(ast.Assign("MAX", ast.Int(4)))); !IsKind(err, AssignToConst) {
		t.Fatalf("expected AssignToConst, got %v", err)
	}
	if _, err := session.Submit(ast.Var("max", ast.DataTypeInt, nil)); !IsKind(err, IdentifierAlreadyExists) {
		t.Fatalf("expected IdentifierAlreadyExists, got %v", err)
	}
	if got := len(session.History()); got != 1 {
		t.Fatalf("expected failed entries to be dropped, history has %d", got)
	}

	session.Reset()
	if _, err := session.Submit(ast.Var("max", ast.DataTypeInt, nil)); err != nil {
		t.Fatalf("expected redeclaration after reset to succeed: %v", err)
	}
}
