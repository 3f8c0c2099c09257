package translator

import (
	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/estree"
)

// Session translates a program one entry at a time, as an interactive prompt does.
// Each entry is translated after the accepted history under a fresh root scope, so
// earlier declarations stay visible and keep their storage keys. A failed entry leaves
// the session unchanged. Sessions are not safe for concurrent use.
type Session struct {
	translator *Translator
	history    []ast.Statement
}

func (t *Translator) NewSession() *Session {
	return &Session{translator: t}
}

// Submit translates stmts in the context of the accepted history and returns only
// their lowered form.
func (s *Session) Submit(stmts ...ast.Statement) (*estree.Program, error) {
	combined := make([]ast.Statement, 0, len(s.history)+len(stmts))
	combined = append(combined, s.history...)
	combined = append(combined, stmts...)

	res, err := s.translator.Translate(ast.NewProgram(combined))
	if err != nil {
		return nil, err
	}
	s.history = combined
	fresh := res.Program.Body[len(combined)-len(stmts):]
	return estree.NewProgram(fresh), nil
}

// History returns the accepted statements in submission order.
func (s *Session) History() []ast.Statement {
	out := make([]ast.Statement, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Reset() {
	s.history = nil
}
