// Package scope builds the lexical scope tree of a JavaScript or TypeScript
// syntax tree and resolves identifier references to their bindings.
package scope

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Kind int

const (
	KindModule Kind = iota
	KindFunction
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	}
	return "unknown"
}

// Scope is one lexical region. Parent is nil only for the module scope.
type Scope struct {
	Kind   Kind
	Parent *Scope
	Node   *sitter.Node

	bindings map[string]*Binding
	order    []*Binding
	depth    int
}

func newScope(kind Kind, parent *Scope, node *sitter.Node) *Scope {
	s := &Scope{
		Kind:     kind,
		Parent:   parent,
		Node:     node,
		bindings: make(map[string]*Binding),
	}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// Declare registers b in s. A second declaration of the same name in the same
// scope replaces the first and marks the survivor as reassigned, since the
// name no longer has a single initializer.
func (s *Scope) Declare(b *Binding) *Binding {
	b.Scope = s
	if prev, ok := s.bindings[b.Name]; ok {
		b.Reassigned = true
		b.Refs = append(b.Refs, prev.Refs...)
		for i, o := range s.order {
			if o == prev {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.bindings[b.Name] = b
	s.order = append(s.order, b)
	return b
}

// Own returns the binding declared directly in s.
func (s *Scope) Own(name string) *Binding {
	return s.bindings[name]
}

// Lookup resolves name from s outward. It returns nil for names no scope
// declares (globals and other externals).
func (s *Scope) Lookup(name string) *Binding {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.bindings[name]; ok {
			return b
		}
	}
	return nil
}

// Bindings lists the bindings of s in declaration order.
func (s *Scope) Bindings() []*Binding {
	return append([]*Binding(nil), s.order...)
}

// FunctionScope returns the nearest function or module scope at or above s.
func (s *Scope) FunctionScope() *Scope {
	cur := s
	for cur.Kind == KindBlock && cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Encloses reports whether s is other or one of its ancestors.
func (s *Scope) Encloses(other *Scope) bool {
	if s == nil || other == nil || other.depth < s.depth {
		return false
	}
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == s {
			return true
		}
	}
	return false
}

func (s *Scope) Depth() int { return s.depth }
