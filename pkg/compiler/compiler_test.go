package compiler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/driver"
	"djinn/compiler-go/pkg/translator"
)

func readFixture(t *testing.T, name string) *driver.Source {
	t.Helper()
	src, err := driver.ReadSource(filepath.Join("testdata", name), nil)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return src
}

func TestCompileFixtureToJavaScript(t *testing.T) {
	res, err := New(Options{Verify: true}).Compile(readFixture(t, "countdown.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := string(res.Files["countdown.js"])
	if !strings.HasPrefix(out, "// Code generated by djinnc from countdown") {
		t.Fatalf("missing generated header:\n%s", out)
	}
	want := strings.Join([]string{
		`DJINN.__scope["_limit"] = 3;`,
		`DJINN.__scope["_n"] = 0;`,
		`for (;;) {`,
		`  if (DJINN.__scope["_n"] >= DJINN.__scope["_limit"]) {`,
		`    break;`,
		`  } else {`,
		`    DJINN.log("tick " + DJINN.__scope["_n"] / DJINN.__checkDivByZero(2.5));`,
		`  }`,
		`  DJINN.__scope["_n"] += 1;`,
		`}`,
		``,
	}, "\n")
	if !strings.HasSuffix(out, want) {
		t.Fatalf("unexpected output:\n%s\nwant suffix:\n%s", out, want)
	}
	if !bytes.Equal(res.Output(), res.Files["countdown.js"]) {
		t.Fatalf("Output should return the single rendered file")
	}
}

func TestCompileReportsTranslationErrors(t *testing.T) {
	_, err := New(Options{}).Compile(readFixture(t, "const_assign.json"))
	if !translator.IsKind(err, translator.AssignToConst) {
		t.Fatalf("expected AssignToConst, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2:") {
		t.Fatalf("expected line-tagged error, got %q", err.Error())
	}
}

func TestCompileTreeMode(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res, err := New(Options{Mode: ModeTree, Prelude: true, Logger: logger}).Compile(readFixture(t, "countdown.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	data, ok := res.Files["countdown.estree.json"]
	if !ok {
		t.Fatalf("expected estree output, got %v", res.Files)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if doc["type"] != "Program" {
		t.Fatalf("expected Program root, got %v", doc["type"])
	}
	body, _ := doc["body"].([]any)
	if len(body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(body))
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("expected a warning about the ignored prelude")
	}
	if !strings.Contains(logs.String(), "prelude ignored") {
		t.Fatalf("expected prelude warning in logs:\n%s", logs.String())
	}
}

func TestCompileWithPreludeAndNamespace(t *testing.T) {
	program := ast.Prog(ast.Sentence(ast.Call("log", ast.Str("hi"))))
	res, err := New(Options{Namespace: "RT", Prelude: true, Verify: true}).CompileProgram("hello", program)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := string(res.Output())
	if !strings.Contains(out, "var RT = {\n") {
		t.Fatalf("expected RT prelude:\n%s", out)
	}
	if !strings.HasSuffix(out, "RT.log(\"hi\");\n") {
		t.Fatalf("expected call against RT:\n%s", out)
	}
}

func TestCheckDoesNotRender(t *testing.T) {
	c := New(Options{})
	if err := c.Check(ast.Prog(ast.Var("x", ast.DataTypeInt, nil))); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := c.Check(ast.Prog(ast.Break())); !translator.IsKind(err, translator.BreakOutsideLoop) {
		t.Fatalf("expected BreakOutsideLoop, got %v", err)
	}
}

func TestResultWrite(t *testing.T) {
	res, err := New(Options{}).CompileProgram("out", ast.Prog(ast.Var("x", ast.DataTypeStr, nil)))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "build")
	if err := res.Write(dir); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.js"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `DJINN.__scope["_x"] = "";`) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
	if err := res.Write(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode("ESTree"); err != nil || mode != ModeTree {
		t.Fatalf("expected tree mode, got %v (%v)", mode, err)
	}
	if mode, err := ParseMode(""); err != nil || mode != ModeSource {
		t.Fatalf("expected source mode, got %v (%v)", mode, err)
	}
	if _, err := ParseMode("wasm"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
