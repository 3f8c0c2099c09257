package translator

import (
	"errors"
	"fmt"

	"djinn/compiler-go/pkg/ast"
)

// Kind classifies a translation failure.
type Kind int

const (
	UnknownConstruct Kind = iota + 1
	UnknownOperator
	UndefinedIdentifier
	IdentifierAlreadyExists
	ArityMismatch
	DataTypeMismatch
	AssignToConst
	BreakOutsideLoop
	UnknownDataType
)

var kindNames = map[Kind]string{
	UnknownConstruct:        "UnknownConstruct",
	UnknownOperator:         "UnknownOperator",
	UndefinedIdentifier:     "UndefinedIdentifier",
	IdentifierAlreadyExists: "IdentifierAlreadyExists",
	ArityMismatch:           "ArityMismatch",
	DataTypeMismatch:        "DataTypeMismatch",
	AssignToConst:           "AssignToConst",
	BreakOutsideLoop:        "BreakOutsideLoop",
	UnknownDataType:         "UnknownDataType",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single failure a translation run produces.
type Error struct {
	Kind    Kind
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func errorf(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a translation error of the given kind.
func IsKind(err error, kind Kind) bool {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind == kind
	}
	return false
}

// ErrPopRootScope is returned when popping the outermost scope frame.
var ErrPopRootScope = errors.New("translator: cannot pop the root scope")

// FromDecodeError maps a parse tree decoding failure onto the translation taxonomy.
// Errors that are not decoding failures are returned unchanged.
func FromDecodeError(err error) error {
	var derr *ast.DecodeError
	if !errors.As(err, &derr) {
		return err
	}
	switch {
	case errors.Is(derr, ast.ErrUnknownDataType):
		return &Error{Kind: UnknownDataType, Line: derr.Line, Message: capitalize(derr.Message)}
	case errors.Is(derr, ast.ErrUnknownNodeType):
		return &Error{Kind: UnknownConstruct, Line: derr.Line, Message: capitalize(derr.Message)}
	}
	return err
}

func capitalize(msg string) string {
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}
