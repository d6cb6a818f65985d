package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NamedChildren returns the named children of node without comments.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Unwrap strips parentheses and TypeScript expression wrappers that do not
// change the runtime value (as, satisfies, non-null assertions).
func Unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			children := NamedChildren(node)
			if len(children) == 0 {
				return node
			}
			node = children[0]
		case "type_assertion":
			children := NamedChildren(node)
			if len(children) == 0 {
				return node
			}
			node = children[len(children)-1]
		default:
			return node
		}
	}
	return nil
}

// IsInlineFunction reports whether node is a function-valued expression.
func IsInlineFunction(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return true
	}
	return false
}

// IsFunction reports whether node introduces a function scope.
func IsFunction(node *sitter.Node) bool {
	if IsInlineFunction(node) {
		return true
	}
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration", "method_definition":
		return true
	}
	return false
}

// IsAsync reports whether a function node carries the async modifier.
func IsAsync(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "async" {
			return true
		}
		if child.IsNamed() {
			return false
		}
	}
	return false
}

// SameNode compares nodes by identity.
func SameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.Id() == b.Id()
}

// Contains reports whether inner lies inside outer's byte range.
func Contains(outer, inner *sitter.Node) bool {
	if outer == nil || inner == nil {
		return false
	}
	return outer.StartByte() <= inner.StartByte() && inner.EndByte() <= outer.EndByte()
}

// IsTypeOnly reports whether node belongs to TypeScript type syntax, which
// never holds runtime references.
func IsTypeOnly(node *sitter.Node) bool {
	switch node.Kind() {
	case "type_annotation", "type_arguments", "type_parameters", "type_alias_declaration",
		"interface_declaration", "implements_clause", "asserts_annotation",
		"opting_type_annotation", "omitting_type_annotation", "type_predicate_annotation",
		"ambient_declaration":
		return true
	}
	return false
}
