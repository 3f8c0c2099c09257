// Package compiler runs the whole pipeline for one input: decode the parse tree,
// translate it, and render JavaScript source or the ESTree document.
package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/catalog"
	"djinn/compiler-go/pkg/driver"
	"djinn/compiler-go/pkg/estree"
	"djinn/compiler-go/pkg/logging"
	"djinn/compiler-go/pkg/render"
	"djinn/compiler-go/pkg/runtime"
	"djinn/compiler-go/pkg/translator"
)

type Mode int

const (
	// ModeSource renders JavaScript text.
	ModeSource Mode = iota
	// ModeTree returns the ESTree program as JSON.
	ModeTree
)

func (m Mode) String() string {
	if m == ModeTree {
		return driver.FormatESTree
	}
	return driver.FormatJS
}

// ParseMode maps a djinn.yml output format onto a Mode.
func ParseMode(format string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case driver.FormatJS, "":
		return ModeSource, nil
	case driver.FormatESTree:
		return ModeTree, nil
	}
	return ModeSource, fmt.Errorf("compiler: unknown output format %q", format)
}

type Options struct {
	Namespace string
	Mode      Mode
	// Prelude prepends the runtime namespace definition to JavaScript output.
	Prelude bool
	// Verify parses JavaScript output with tree-sitter before returning it.
	Verify  bool
	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

type Result struct {
	Name     string
	Tree     *estree.Program
	Types    map[ast.Expression]ast.DataType
	Revision *driver.Revision
	Files    map[string][]byte
	Warnings []string
}

type Compiler struct {
	opts       Options
	translator *translator.Translator
	logger     *slog.Logger
}

func New(opts Options) *Compiler {
	if opts.Namespace == "" {
		opts.Namespace = translator.DefaultNamespace
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Compiler{
		opts:       opts,
		translator: translator.New(translator.Options{Namespace: opts.Namespace, Catalog: opts.Catalog}),
		logger:     logger,
	}
}

func (c *Compiler) Translator() *translator.Translator { return c.translator }

// Compile decodes and compiles src, recording the git revision it was read from.
func (c *Compiler) Compile(src *driver.Source) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("compiler: missing source")
	}
	log := c.logger.With("source", src.Name())
	program, err := src.Program()
	if err != nil {
		return nil, err
	}
	log.Debug("decoded parse tree", "statements", len(program.Body))

	var warnings []string
	rev, err := driver.SourceRevision(src.Path)
	if err != nil {
		log.Warn("source revision unavailable", "error", err)
		warnings = append(warnings, err.Error())
	} else if rev != nil {
		log.Debug("source revision", "revision", rev.String())
	}
	res, err := c.compile(outputName(src.Path), program, rev)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// CompileProgram translates and renders an already decoded program.
func (c *Compiler) CompileProgram(name string, program *ast.Program) (*Result, error) {
	return c.compile(name, program, nil)
}

func (c *Compiler) compile(name string, program *ast.Program, rev *driver.Revision) (*Result, error) {
	translated, err := c.translator.Translate(program)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("translated program", "name", name, "statements", len(translated.Program.Body))
	res := &Result{Name: name, Tree: translated.Program, Types: translated.Types, Revision: rev}
	if c.opts.Mode == ModeTree && c.opts.Prelude {
		res.Warnings = append(res.Warnings, "prelude is only emitted with js output")
		c.logger.Warn("prelude ignored for estree output", "name", name)
	}
	files, err := c.emit(res)
	if err != nil {
		return nil, err
	}
	res.Files = files
	return res, nil
}

// Check translates program without rendering output.
func (c *Compiler) Check(program *ast.Program) error {
	_, err := c.translator.Translate(program)
	return err
}

func (c *Compiler) emit(res *Result) (map[string][]byte, error) {
	if c.opts.Mode == ModeTree {
		data, err := json.MarshalIndent(res.Tree, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("compiler: encode tree: %w", err)
		}
		return map[string][]byte{res.Name + ".estree.json": append(data, '\n')}, nil
	}

	body, err := render.Render(res.Tree)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by djinnc from %s", res.Name)
	if res.Revision != nil {
		fmt.Fprintf(&buf, " at %s", res.Revision)
	}
	buf.WriteString(". DO NOT EDIT.\n\n")
	if c.opts.Prelude {
		buf.Write(runtime.Prelude(c.opts.Namespace, c.opts.Catalog))
		buf.WriteByte('\n')
	}
	buf.Write(body)

	if c.opts.Verify {
		if err := render.Verify(buf.Bytes()); err != nil {
			return nil, fmt.Errorf("compiler: generated invalid JavaScript for %s: %w", res.Name, err)
		}
		c.logger.Debug("verified output", "name", res.Name, "bytes", buf.Len())
	}
	return map[string][]byte{res.Name + ".js": buf.Bytes()}, nil
}

// Output returns the single rendered file.
func (r *Result) Output() []byte {
	if r == nil {
		return nil
	}
	for _, data := range r.Files {
		return data
	}
	return nil
}

// Write stores every output file under dir, creating it when needed.
func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	if dir == "" {
		return fmt.Errorf("compiler: empty output dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: create output dir: %w", err)
	}
	names := make([]string, 0, len(r.Files))
	for name := range r.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), r.Files[name], 0o644); err != nil {
			return fmt.Errorf("compiler: write %s: %w", name, err)
		}
	}
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "main"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
