package scope

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Origin says what kind of declaration introduced a binding.
type Origin int

const (
	OriginVariable Origin = iota
	OriginParameter
	OriginImport
	OriginFunction
	OriginClass
	OriginCatch
)

func (o Origin) String() string {
	return [...]string{"variable", "parameter", "import", "function", "class", "catch"}[o]
}

type SlotKind int

const (
	// SlotWhole binds the entire initializer value: const x = init.
	SlotWhole SlotKind = iota
	// SlotIndex binds one array position: const [, x] = init.
	SlotIndex
	// SlotKey binds one object property: const {key: x} = init.
	SlotKey
	// SlotNested covers deeper patterns, rest elements and defaults.
	SlotNested
)

// Slot locates a binding inside the destructure pattern of its declaration.
type Slot struct {
	Kind  SlotKind
	Index int
	Key   string
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotWhole:
		return "whole"
	case SlotIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case SlotKey:
		return "{" + s.Key + "}"
	}
	return "nested"
}

// Ref is one use of a binding.
type Ref struct {
	Node  *sitter.Node
	Scope *Scope
	Write bool
}

// Binding is a declared name.
type Binding struct {
	ID      int
	Name    string
	Scope   *Scope
	Origin  Origin
	Keyword string // const, let or var for variable bindings

	// Ident is the declaring identifier, Decl the declaring construct
	// (variable_declarator, function_declaration, import_specifier, ...)
	// and Value the initializer expression, if any.
	Ident *sitter.Node
	Decl  *sitter.Node
	Value *sitter.Node
	Slot  Slot

	Reassigned bool
	Refs       []Ref
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s#%d", b.Name, b.ID)
}

// Reads returns the non-write references of b.
func (b *Binding) Reads() []Ref {
	out := make([]Ref, 0, len(b.Refs))
	for _, r := range b.Refs {
		if !r.Write {
			out = append(out, r)
		}
	}
	return out
}
