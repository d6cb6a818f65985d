package deps

import (
	"hookdeps/internal/engine/hooks"
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/engine/scope"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Label is the render stability of a binding.
type Label int

const (
	Unknown Label = iota
	Static
	Dynamic
)

func (l Label) String() string {
	return [...]string{"unknown", "static", "dynamic"}[l]
}

// Label classifies b on first demand and memoizes the result for the pass.
// A binding reached again while its own classification is in progress is
// Dynamic for that inner demand and is not memoized from it.
func (p *Pass) Label(b *scope.Binding) Label {
	if l, ok := p.labels[b.ID]; ok {
		return l
	}
	if p.visiting[b.ID] {
		return Dynamic
	}
	p.visiting[b.ID] = true
	l := p.classify(b)
	delete(p.visiting, b.ID)
	p.labels[b.ID] = l
	return l
}

func (p *Pass) classify(b *scope.Binding) Label {
	if b.Reassigned || b.Origin != scope.OriginVariable {
		return Dynamic
	}
	value := parser.Unwrap(b.Value)
	if value == nil {
		return Dynamic
	}
	if b.Slot.Kind == scope.SlotWhole && isPrimitive(value) {
		return Static
	}
	if value.Kind() != "call_expression" {
		return Dynamic
	}

	reg := p.analyzer.registry
	callee, ok := hooks.CalleeName(p.Tree, parser.Unwrap(value.ChildByFieldName("function")))
	if !ok {
		return Dynamic
	}
	if spec, ok := reg.StaticSpec(callee); ok {
		if spec.Resolve(b.Slot) {
			return Static
		}
		return Dynamic
	}
	if p.analyzer.opts.CheckMemoizedVariableIsStatic && b.Slot.Kind == scope.SlotWhole {
		if site, ok := reg.Classify(p.Tree, value); ok && site.Kind == hooks.KindMemo {
			return p.memoLabel(site)
		}
	}
	return Dynamic
}

// memoLabel decides whether a memoized value keeps its identity: an empty
// dependency list never recomputes, otherwise every value the callback
// captures must itself be static.
func (p *Pass) memoLabel(site hooks.CallSite) Label {
	if site.Deps == nil || site.NonArrayDeps {
		return Dynamic
	}
	if len(parser.NamedChildren(site.Deps)) == 0 {
		return Static
	}
	fn := parser.Unwrap(site.Callback)
	if !parser.IsInlineFunction(fn) {
		return Dynamic
	}
	component := p.Scopes.Enclosing(site.Call).FunctionScope()
	ext := p.extract(fn, component, site.Call)
	if len(ext.writes) > 0 {
		return Dynamic
	}
	for _, d := range ext.deps {
		if p.Label(d.Binding) != Static {
			return Dynamic
		}
	}
	return Static
}

func isPrimitive(node *sitter.Node) bool {
	switch node.Kind() {
	case "string", "number", "true", "false", "null", "undefined":
		return true
	case "template_string":
		for _, c := range parser.NamedChildren(node) {
			if c.Kind() == "template_substitution" {
				return false
			}
		}
		return true
	case "unary_expression":
		op := node.ChildByFieldName("operator")
		arg := parser.Unwrap(node.ChildByFieldName("argument"))
		if op == nil || arg == nil || arg.Kind() != "number" {
			return false
		}
		k := op.Kind()
		return k == "-" || k == "+"
	}
	return false
}

// construction describes a binding whose value is rebuilt on every render.
type construction struct {
	kind string
}

// constructionOf reports how b's value is constructed when it gets a new
// identity on every render.
func (p *Pass) constructionOf(b *scope.Binding) (construction, bool) {
	switch b.Origin {
	case scope.OriginFunction:
		return construction{kind: "function"}, true
	case scope.OriginClass:
		return construction{kind: "class"}, true
	case scope.OriginVariable:
		if b.Slot.Kind != scope.SlotWhole || b.Value == nil {
			return construction{}, false
		}
		if kind, ok := constructionType(b.Value); ok {
			return construction{kind: kind}, true
		}
	}
	return construction{}, false
}

func constructionType(node *sitter.Node) (string, bool) {
	node = parser.Unwrap(node)
	if node == nil {
		return "", false
	}

	switch node.Kind() {
	case "object":
		return "object", true
	case "array":
		return "array", true
	case "arrow_function", "function_expression", "function", "generator_function":
		return "function", true
	case "class":
		return "class", true
	case "new_expression":
		return "object construction", true
	case "regex":
		return "regular expression", true
	case "jsx_self_closing_element":
		return "JSX element", true
	case "jsx_fragment":
		return "JSX fragment", true
	case "jsx_element":
		if open := node.NamedChild(0); open != nil && open.Kind() == "jsx_opening_element" && open.ChildByFieldName("name") == nil {
			return "JSX fragment", true
		}
		return "JSX element", true
	case "ternary_expression":
		if _, ok := constructionType(node.ChildByFieldName("consequence")); ok {
			return "conditional", true
		}
		if _, ok := constructionType(node.ChildByFieldName("alternative")); ok {
			return "conditional", true
		}
	case "binary_expression":
		op := node.ChildByFieldName("operator")
		if op == nil {
			return "", false
		}
		if k := op.Kind(); k != "&&" && k != "||" && k != "??" {
			return "", false
		}
		if _, ok := constructionType(node.ChildByFieldName("left")); ok {
			return "logical expression", true
		}
		if _, ok := constructionType(node.ChildByFieldName("right")); ok {
			return "logical expression", true
		}
	case "assignment_expression":
		if _, ok := constructionType(node.ChildByFieldName("right")); ok {
			return "assignment expression", true
		}
	}
	return "", false
}
