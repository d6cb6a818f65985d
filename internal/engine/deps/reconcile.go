package deps

import (
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/engine/scope"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// declaredDep is one element of a dependency array literal.
type declaredDep struct {
	node *sitter.Node
	text string

	// binding is nil for complex entries and for names no scope declares.
	binding *scope.Binding
	path    []Segment
	simple  bool
	literal bool
}

func (d declaredDep) key() string {
	if d.binding == nil {
		return "ext:" + d.text
	}
	var sb strings.Builder
	sb.WriteString(d.binding.String())
	for _, seg := range d.path {
		sb.WriteByte('.')
		sb.WriteString(seg.Name)
	}
	return sb.String()
}

func (d declaredDep) String() string {
	if d.binding == nil {
		return d.text
	}
	return renderPath(d.binding.Name, d.path)
}

func (p *Pass) parseDeclared(array *sitter.Node) []declaredDep {
	var out []declaredDep
	for _, el := range parser.NamedChildren(array) {
		d := declaredDep{node: el, text: p.Tree.Text(el)}
		inner := parser.Unwrap(el)
		if root, path, ok := p.memberChain(inner); ok {
			d.simple = true
			d.binding = p.Scopes.Resolve(root)
			d.path = path
		} else {
			d.literal = isLiteral(inner)
		}
		out = append(out, d)
	}
	return out
}

// memberChain splits a static member chain into its root identifier and
// property segments.
func (p *Pass) memberChain(node *sitter.Node) (*sitter.Node, []Segment, bool) {
	node = parser.Unwrap(node)
	if node == nil {
		return nil, nil, false
	}
	switch node.Kind() {
	case "identifier":
		return node, nil, true
	case "member_expression":
		prop := node.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			return nil, nil, false
		}
		root, path, ok := p.memberChain(node.ChildByFieldName("object"))
		if !ok {
			return nil, nil, false
		}
		return root, append(path, Segment{Name: p.Tree.Text(prop), Optional: hasOptionalChain(node)}), true
	}
	return nil, nil, false
}

func isLiteral(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	if node.Kind() == "regex" {
		return true
	}
	return node.Kind() != "undefined" && isPrimitive(node)
}

// reconciliation is the outcome of comparing one declared list against the
// required dependencies of its callback.
type reconciliation struct {
	missing     []*Dependency
	unnecessary []declaredDep
	duplicates  []declaredDep
	complex     []declaredDep
	kept        []declaredDep

	// outer and mutable hold the unnecessary entries that get a hint.
	outer   []string
	mutable string
}

func (p *Pass) reconcile(ext *extraction, required []*Dependency, declared []declaredDep, component *scope.Scope) reconciliation {
	var r reconciliation
	seen := make(map[string]bool, len(declared))

	for _, d := range declared {
		if !d.simple {
			r.complex = append(r.complex, d)
			r.kept = append(r.kept, d)
			continue
		}
		if seen[d.key()] {
			r.duplicates = append(r.duplicates, d)
			continue
		}
		seen[d.key()] = true

		if d.binding == nil || !component.Encloses(d.binding.Scope) {
			r.unnecessary = append(r.unnecessary, d)
			r.outer = append(r.outer, d.String())
			continue
		}
		if i := currentIndex(d.path); i >= 0 {
			r.unnecessary = append(r.unnecessary, d)
			if r.mutable == "" {
				r.mutable = renderPath(d.binding.Name, d.path[:i+1])
			}
			continue
		}
		if coversRequired(d, required) {
			r.kept = append(r.kept, d)
			continue
		}
		if _, used := ext.byID[d.binding.ID]; used && len(d.path) == 0 && !p.analyzer.opts.ReportStaticDependencies {
			// Static or assigned bindings the callback reads may stay listed.
			r.kept = append(r.kept, d)
			continue
		}
		r.unnecessary = append(r.unnecessary, d)
	}

	for _, req := range required {
		covered := false
		for _, k := range r.kept {
			if k.binding == req.Binding {
				covered = true
				break
			}
		}
		if !covered {
			r.missing = append(r.missing, req)
		}
	}
	return r
}

func coversRequired(d declaredDep, required []*Dependency) bool {
	for _, req := range required {
		if req.Binding == d.binding && isPathPrefix(d.path, req.Path) {
			return true
		}
	}
	return false
}

func currentIndex(path []Segment) int {
	for i, seg := range path {
		if seg.Name == "current" {
			return i
		}
	}
	return -1
}

// fixText renders the replacement dependency array.
func (r reconciliation) fixText() string {
	items := make([]string, 0, len(r.kept)+len(r.missing))
	for _, k := range r.kept {
		items = append(items, k.text)
	}
	for _, m := range r.missing {
		items = append(items, m.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (r reconciliation) problems() bool {
	return len(r.missing)+len(r.unnecessary)+len(r.duplicates) > 0
}
