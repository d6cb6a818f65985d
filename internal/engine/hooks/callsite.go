package hooks

import (
	"hookdeps/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// CallSite is a recognized hook invocation.
type CallSite struct {
	Spec
	Callee string
	Call   *sitter.Node

	// Callback is nil when the call has no argument at the callback position.
	Callback *sitter.Node
	// Deps is the dependency-list argument with wrappers stripped, nil when
	// absent. NonArrayDeps is set when it is present but not an array literal.
	Deps         *sitter.Node
	NonArrayDeps bool
}

// Classify recognizes call as a hook call site. Calls whose callee is not a
// plain name or static member chain, or that no table entry matches, are not
// hook call sites.
func (r *Registry) Classify(tree *parser.Tree, call *sitter.Node) (CallSite, bool) {
	if call == nil || call.Kind() != "call_expression" {
		return CallSite{}, false
	}
	callee, ok := CalleeName(tree, parser.Unwrap(call.ChildByFieldName("function")))
	if !ok {
		return CallSite{}, false
	}
	spec, ok := r.Lookup(callee)
	if !ok {
		return CallSite{}, false
	}
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil || argsNode.Kind() != "arguments" {
		return CallSite{}, false
	}

	site := CallSite{Spec: spec, Callee: callee, Call: call}
	args := parser.NamedChildren(argsNode)
	if spec.CallbackIndex < len(args) {
		site.Callback = args[spec.CallbackIndex]
	}
	if spec.DepsIndex() < len(args) {
		site.Deps = parser.Unwrap(args[spec.DepsIndex()])
		site.NonArrayDeps = site.Deps.Kind() != "array"
	}
	return site, true
}

// CalleeName renders identifiers and non-computed member chains as dotted
// names. Optional chaining is dropped.
func CalleeName(tree *parser.Tree, node *sitter.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "identifier":
		return tree.Text(node), true
	case "member_expression":
		prop := node.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			return "", false
		}
		obj, ok := CalleeName(tree, parser.Unwrap(node.ChildByFieldName("object")))
		if !ok {
			return "", false
		}
		return obj + "." + tree.Text(prop), true
	}
	return "", false
}
