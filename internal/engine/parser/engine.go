package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node. Returning true stops the walker from
// descending into the node's children.
type NodeHandler func(node *sitter.Node) bool

// Walker walks a syntax tree depth-first and dispatches handlers by node kind.
// Kinds without a handler are descended into.
type Walker struct {
	handlers map[string]NodeHandler
}

func NewWalker(handlers map[string]NodeHandler) *Walker {
	return &Walker{handlers: handlers}
}

func (w *Walker) Walk(node *sitter.Node) {
	if node == nil {
		return
	}
	if handler, ok := w.handlers[node.Kind()]; ok && handler(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.Walk(node.Child(i))
	}
}

// WalkChildren walks only the children of node.
func (w *Walker) WalkChildren(node *sitter.Node) {
	if node == nil {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.Walk(node.Child(i))
	}
}

// Skip is a handler that prunes a subtree.
func Skip(*sitter.Node) bool { return true }
