package deps

import (
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/engine/scope"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Segment is one property step of a dependency path.
type Segment struct {
	Name     string
	Optional bool
}

// Dependency is a binding a callback reads, narrowed to the property path
// shared by all of its uses.
type Dependency struct {
	Binding *scope.Binding
	Path    []Segment
	First   *sitter.Node
}

func (d *Dependency) String() string {
	return renderPath(d.Binding.Name, d.Path)
}

func renderPath(root string, path []Segment) string {
	var sb strings.Builder
	sb.WriteString(root)
	for _, seg := range path {
		if seg.Optional {
			sb.WriteString("?.")
		} else {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
	}
	return sb.String()
}

type occurrence struct {
	binding *scope.Binding
	node    *sitter.Node
	scope   *scope.Scope
	write   bool
}

// extraction is what a callback captures from its component.
type extraction struct {
	deps        []*Dependency
	byID        map[int]*Dependency
	occurrences []occurrence

	// writes holds the first assignment to each captured binding.
	writes  []occurrence
	written map[int]bool
}

// required drops bindings the callback assigns and bindings labeled Static.
func (p *Pass) required(ext *extraction) []*Dependency {
	out := make([]*Dependency, 0, len(ext.deps))
	for _, d := range ext.deps {
		if ext.written[d.Binding.ID] || p.Label(d.Binding) == Static {
			continue
		}
		out = append(out, d)
	}
	return out
}

// extract collects the bindings fn reads from the scopes between its parent
// and component, inclusive. self is the hook call being analyzed; a binding
// initialized by it is not a dependency of its own callback.
func (p *Pass) extract(fn *sitter.Node, component *scope.Scope, self *sitter.Node) *extraction {
	ext := &extraction{
		byID:    make(map[int]*Dependency),
		written: make(map[int]bool),
	}
	fnScope := p.Scopes.ScopeAt(fn)

	capture := func(n *sitter.Node) bool {
		p.capture(ext, n, component, fnScope, self)
		return true
	}
	parser.NewWalker(map[string]parser.NodeHandler{
		"identifier":                            capture,
		"shorthand_property_identifier":         capture,
		"shorthand_property_identifier_pattern": capture,
		"type_annotation":                       parser.Skip,
		"type_arguments":                        parser.Skip,
		"type_parameters":                       parser.Skip,
	}).Walk(fn)
	return ext
}

func (p *Pass) capture(ext *extraction, ident *sitter.Node, component, fnScope *scope.Scope, self *sitter.Node) {
	b := p.Scopes.Resolve(ident)
	if b == nil || !component.Encloses(b.Scope) {
		return
	}
	if fnScope != nil && fnScope.Encloses(b.Scope) {
		return
	}
	if self != nil && parser.SameNode(parser.Unwrap(b.Value), self) {
		return
	}

	occ := occurrence{binding: b, node: ident}
	for _, r := range b.Refs {
		if parser.SameNode(r.Node, ident) {
			occ.scope, occ.write = r.Scope, r.Write
			break
		}
	}
	ext.occurrences = append(ext.occurrences, occ)

	if occ.write {
		if !ext.written[b.ID] {
			ext.written[b.ID] = true
			ext.writes = append(ext.writes, occ)
		}
		return
	}

	path := p.dependencyPath(ident)
	if d, ok := ext.byID[b.ID]; ok {
		d.Path = commonPrefix(d.Path, path)
		return
	}
	d := &Dependency{Binding: b, Path: path, First: ident}
	ext.byID[b.ID] = d
	ext.deps = append(ext.deps, d)
}

// dependencyPath climbs the static member chain above ident. It stops at
// computed access, before .current, before a member that is called as a
// method and before a member that is assigned to.
func (p *Pass) dependencyPath(ident *sitter.Node) []Segment {
	var path []Segment
	node := ident
	for {
		parent := node.Parent()
		if parent == nil {
			break
		}
		if k := parent.Kind(); k == "non_null_expression" || k == "parenthesized_expression" {
			node = parent
			continue
		}
		if parent.Kind() != "member_expression" || !parser.SameNode(parent.ChildByFieldName("object"), node) {
			break
		}
		prop := parent.ChildByFieldName("property")
		if prop == nil || prop.Kind() != "property_identifier" {
			break
		}
		name := p.Tree.Text(prop)
		if name == "current" {
			break
		}
		if grand := parent.Parent(); grand != nil {
			switch grand.Kind() {
			case "call_expression":
				if parser.SameNode(grand.ChildByFieldName("function"), parent) {
					return path
				}
			case "assignment_expression", "augmented_assignment_expression":
				if parser.SameNode(grand.ChildByFieldName("left"), parent) {
					return path
				}
			case "update_expression":
				return path
			}
		}
		path = append(path, Segment{Name: name, Optional: hasOptionalChain(parent)})
		node = parent
	}
	return path
}

func hasOptionalChain(member *sitter.Node) bool {
	for i := uint(0); i < member.ChildCount(); i++ {
		if member.Child(i).Kind() == "optional_chain" {
			return true
		}
	}
	return false
}

// commonPrefix keeps the shared leading segments of a and b. A segment stays
// optional only if both uses were optional there.
func commonPrefix(a, b []Segment) []Segment {
	n := 0
	for n < len(a) && n < len(b) && a[n].Name == b[n].Name {
		n++
	}
	out := make([]Segment, n)
	for i := 0; i < n; i++ {
		out[i] = Segment{Name: a[i].Name, Optional: a[i].Optional && b[i].Optional}
	}
	return out
}

// isPathPrefix reports whether prefix names the same property chain as the
// start of path.
func isPathPrefix(prefix, path []Segment) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if prefix[i].Name != path[i].Name {
			return false
		}
	}
	return true
}
