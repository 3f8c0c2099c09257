// Package driver loads what a compilation needs from disk: the parse tree input, the
// djinn.yml project file, and the git revision the input comes from.
package driver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/translator"
)

// Source is a parse tree document read from a file or stdin.
type Source struct {
	// Path is empty when the source came from stdin.
	Path string
	Data []byte
}

func (s *Source) Name() string {
	if s == nil || s.Path == "" {
		return "<stdin>"
	}
	return s.Path
}

// ReadSource reads path, or stdin when path is empty or "-".
func ReadSource(path string, stdin io.Reader) (*Source, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("driver: no input")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("driver: read stdin: %w", err)
		}
		return &Source{Data: data}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", abs, err)
	}
	return &Source{Path: abs, Data: data}, nil
}

// Program decodes the source's parse tree. Unknown node and data types surface as
// translation errors so callers report every static failure the same way.
func (s *Source) Program() (*ast.Program, error) {
	if s == nil {
		return nil, fmt.Errorf("driver: nil source")
	}
	program, err := ast.ReadProgram(bytes.NewReader(s.Data))
	if err != nil {
		return nil, translator.FromDecodeError(err)
	}
	return program, nil
}
