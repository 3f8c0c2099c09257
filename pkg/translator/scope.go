package translator

import (
	"strings"

	"djinn/compiler-go/pkg/ast"
)

type BindingKind int

const (
	BindingVar BindingKind = iota
	BindingConst
)

func (k BindingKind) String() string {
	if k == BindingConst {
		return "const"
	}
	return "var"
}

// Binding is the compile-time record of a declared identifier.
type Binding struct {
	Kind        BindingKind
	DataType    ast.DataType
	MangledName string
}

const noParent = -1

type frame struct {
	parent   int
	depth    int
	inLoop   bool
	bindings map[string]Binding
}

// frames owns every scope frame created during one translation run. Frames refer to
// their parent by index, so nothing outlives the arena.
type frames struct {
	items []frame
}

// Scope is a handle to one frame of a scope chain. The zero value is not usable; start
// from NewScope.
type Scope struct {
	arena *frames
	id    int
}

// NewScope creates the root frame of a fresh scope chain.
func NewScope() Scope {
	arena := &frames{}
	arena.items = append(arena.items, frame{parent: noParent, bindings: map[string]Binding{}})
	return Scope{arena: arena, id: 0}
}

func (s Scope) frame() *frame {
	return &s.arena.items[s.id]
}

// Push creates a child frame and returns it.
func (s Scope) Push() Scope {
	parent := s.frame()
	child := frame{parent: s.id, depth: parent.depth + 1, bindings: map[string]Binding{}}
	s.arena.items = append(s.arena.items, child)
	return Scope{arena: s.arena, id: len(s.arena.items) - 1}
}

// Pop returns the parent frame.
func (s Scope) Pop() (Scope, error) {
	parent := s.frame().parent
	if parent == noParent {
		return s, ErrPopRootScope
	}
	return Scope{arena: s.arena, id: parent}, nil
}

func (s Scope) Depth() int { return s.frame().depth }

func (s Scope) IsRoot() bool { return s.frame().parent == noParent }

// Mangle returns the storage key a name declared in this frame receives.
func (s Scope) Mangle(name string) string {
	return strings.Repeat("_", s.Depth()+1) + strings.ToLower(name)
}

// AddVar binds name in this frame. It reports false when the frame already binds it.
func (s Scope) AddVar(name string, dataType ast.DataType) bool {
	return s.add(name, BindingVar, dataType)
}

// AddConst is AddVar for constants.
func (s Scope) AddConst(name string, dataType ast.DataType) bool {
	return s.add(name, BindingConst, dataType)
}

func (s Scope) add(name string, kind BindingKind, dataType ast.DataType) bool {
	key := strings.ToLower(name)
	f := s.frame()
	if _, exists := f.bindings[key]; exists {
		return false
	}
	f.bindings[key] = Binding{Kind: kind, DataType: dataType, MangledName: s.Mangle(key)}
	return true
}

// Lookup resolves name in this frame and then its ancestors, ignoring case.
func (s Scope) Lookup(name string) (Binding, bool) {
	key := strings.ToLower(name)
	for id := s.id; id != noParent; id = s.arena.items[id].parent {
		if binding, ok := s.arena.items[id].bindings[key]; ok {
			return binding, true
		}
	}
	return Binding{}, false
}

// DeclaredHere reports whether this frame itself binds name.
func (s Scope) DeclaredHere(name string) bool {
	_, ok := s.frame().bindings[strings.ToLower(name)]
	return ok
}

func (s Scope) FlagInLoop() {
	s.frame().inLoop = true
}

// InLoop reports whether this frame or any ancestor is a loop body.
func (s Scope) InLoop() bool {
	for id := s.id; id != noParent; id = s.arena.items[id].parent {
		if s.arena.items[id].inLoop {
			return true
		}
	}
	return false
}
