package scope

import (
	"hookdeps/internal/engine/parser"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Info is the resolved scope tree of one file.
type Info struct {
	Module *Scope

	scopes   map[uintptr]*Scope
	refs     map[uintptr]*Binding
	bindings []*Binding
}

// ScopeAt returns the scope opened by node, or nil.
func (i *Info) ScopeAt(node *sitter.Node) *Scope {
	if node == nil {
		return nil
	}
	return i.scopes[node.Id()]
}

// Enclosing returns the innermost scope containing node, counting a scope
// opened by node itself.
func (i *Info) Enclosing(node *sitter.Node) *Scope {
	for n := node; n != nil; n = n.Parent() {
		if s := i.scopes[n.Id()]; s != nil {
			return s
		}
	}
	return i.Module
}

// Resolve returns the binding an identifier reference resolves to, or nil
// for declaration sites and external names.
func (i *Info) Resolve(ident *sitter.Node) *Binding {
	if ident == nil {
		return nil
	}
	return i.refs[ident.Id()]
}

func (i *Info) Bindings() []*Binding {
	return append([]*Binding(nil), i.bindings...)
}

type builder struct {
	tree   *parser.Tree
	info   *Info
	cur    *Scope
	nextID int
}

// Build constructs the scope tree of tree in two walks: the first opens
// scopes and declares bindings (so hoisted and later declarations are
// visible everywhere in their scope), the second resolves references.
func Build(tree *parser.Tree) *Info {
	root := tree.Root()
	info := &Info{
		scopes: make(map[uintptr]*Scope),
		refs:   make(map[uintptr]*Binding),
	}
	info.Module = newScope(KindModule, nil, root)
	info.scopes[root.Id()] = info.Module

	b := &builder{tree: tree, info: info, cur: info.Module}
	b.declareChildren(root)
	b.cur = nil
	b.visit(root)
	return info
}

func (b *builder) enter(kind Kind, node *sitter.Node) func() {
	s := newScope(kind, b.cur, node)
	b.info.scopes[node.Id()] = s
	b.cur = s
	return func() { b.cur = s.Parent }
}

func (b *builder) bind(target *Scope, ident, decl, value *sitter.Node, origin Origin, keyword string, slot Slot) {
	b.nextID++
	bd := &Binding{
		ID:      b.nextID,
		Name:    b.tree.Text(ident),
		Origin:  origin,
		Keyword: keyword,
		Ident:   ident,
		Decl:    decl,
		Value:   value,
		Slot:    slot,
	}
	target.Declare(bd)
	b.info.bindings = append(b.info.bindings, bd)
}

func (b *builder) declareChildren(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		b.declare(node.Child(i))
	}
}

func (b *builder) declare(node *sitter.Node) {
	if node == nil || parser.IsTypeOnly(node) {
		return
	}

	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			b.bind(b.cur, name, node, node, OriginFunction, "", Slot{})
		}
		b.declareFunction(node)
	case "function_expression", "function", "generator_function", "arrow_function", "method_definition":
		if name := node.ChildByFieldName("name"); name != nil && name.Kind() == "computed_property_name" {
			b.declare(name)
		}
		b.declareFunction(node)
	case "class_declaration", "abstract_class_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			b.bind(b.cur, name, node, node, OriginClass, "", Slot{})
		}
		b.declareClass(node)
	case "class":
		b.declareClass(node)
	case "statement_block", "switch_body", "for_statement":
		exit := b.enter(KindBlock, node)
		defer exit()
		b.declareChildren(node)
	case "for_in_statement":
		exit := b.enter(KindBlock, node)
		defer exit()
		if kind := node.ChildByFieldName("kind"); kind != nil {
			keyword := b.tree.Text(kind)
			target := b.cur
			if keyword == "var" {
				target = b.cur.FunctionScope()
			}
			b.declarePattern(target, node.ChildByFieldName("left"), node, nil, OriginVariable, keyword, Slot{Kind: SlotNested})
		}
		b.declare(node.ChildByFieldName("right"))
		b.declare(node.ChildByFieldName("body"))
	case "catch_clause":
		exit := b.enter(KindBlock, node)
		defer exit()
		if param := node.ChildByFieldName("parameter"); param != nil {
			b.declarePattern(b.cur, param, node, nil, OriginCatch, "", Slot{})
		}
		b.declare(node.ChildByFieldName("body"))
	case "lexical_declaration", "variable_declaration":
		keyword := b.tree.Text(node.Child(0))
		target := b.cur
		if keyword == "var" {
			target = b.cur.FunctionScope()
		}
		for _, d := range parser.NamedChildren(node) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			value := d.ChildByFieldName("value")
			b.declarePattern(target, d.ChildByFieldName("name"), d, value, OriginVariable, keyword, Slot{})
			b.declare(value)
		}
	case "import_statement":
		b.declareImports(node)
	default:
		b.declareChildren(node)
	}
}

// declareFunction opens the function scope of node. Parameters and the
// top-level declarations of the body share that scope.
func (b *builder) declareFunction(node *sitter.Node) {
	exit := b.enter(KindFunction, node)
	defer exit()

	if node.Kind() != "arrow_function" && node.Kind() != "method_definition" && parser.IsInlineFunction(node) {
		if name := node.ChildByFieldName("name"); name != nil {
			b.bind(b.cur, name, node, node, OriginFunction, "", Slot{})
		}
	}
	if p := node.ChildByFieldName("parameter"); p != nil {
		b.bind(b.cur, p, p, nil, OriginParameter, "", Slot{})
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, p := range parser.NamedChildren(params) {
			b.declareParam(p)
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	if body.Kind() == "statement_block" {
		b.declareChildren(body)
		return
	}
	b.declare(body)
}

func (b *builder) declareParam(p *sitter.Node) {
	switch p.Kind() {
	case "required_parameter", "optional_parameter":
		if pattern := p.ChildByFieldName("pattern"); pattern != nil {
			b.declarePattern(b.cur, pattern, p, nil, OriginParameter, "", Slot{})
		}
		b.declare(p.ChildByFieldName("value"))
	case "this":
	default:
		b.declarePattern(b.cur, p, p, nil, OriginParameter, "", Slot{})
	}
}

func (b *builder) declareClass(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "class_body":
			exit := b.enter(KindBlock, child)
			b.declareChildren(child)
			exit()
		case "identifier", "type_identifier":
		default:
			b.declare(child)
		}
	}
}

func (b *builder) declareImports(node *sitter.Node) {
	for _, clause := range parser.NamedChildren(node) {
		if clause.Kind() != "import_clause" {
			continue
		}
		for _, c := range parser.NamedChildren(clause) {
			switch c.Kind() {
			case "identifier":
				b.bind(b.cur, c, node, nil, OriginImport, "", Slot{})
			case "namespace_import":
				for _, id := range parser.NamedChildren(c) {
					if id.Kind() == "identifier" {
						b.bind(b.cur, id, node, nil, OriginImport, "", Slot{})
					}
				}
			case "named_imports":
				for _, spec := range parser.NamedChildren(c) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					local := spec.ChildByFieldName("alias")
					if local == nil {
						local = spec.ChildByFieldName("name")
					}
					if local != nil && local.Kind() == "identifier" {
						b.bind(b.cur, local, spec, nil, OriginImport, "", Slot{})
					}
				}
			}
		}
	}
}

// declarePattern binds every identifier of a binding pattern. slot is the
// position of pattern itself inside the declaration.
func (b *builder) declarePattern(target *Scope, pattern, decl, value *sitter.Node, origin Origin, keyword string, slot Slot) {
	if pattern == nil {
		return
	}
	nested := Slot{Kind: SlotNested}

	switch pattern.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		b.bind(target, pattern, decl, value, origin, keyword, slot)
	case "array_pattern":
		idx := 0
		for i := uint(0); i < pattern.ChildCount(); i++ {
			c := pattern.Child(i)
			if c.Kind() == "," {
				idx++
				continue
			}
			if !c.IsNamed() || c.Kind() == "comment" {
				continue
			}
			s := nested
			if slot.Kind == SlotWhole && c.Kind() == "identifier" {
				s = Slot{Kind: SlotIndex, Index: idx}
			}
			b.declarePattern(target, c, decl, value, origin, keyword, s)
		}
	case "object_pattern":
		for _, c := range parser.NamedChildren(pattern) {
			switch c.Kind() {
			case "shorthand_property_identifier_pattern":
				s := nested
				if slot.Kind == SlotWhole {
					s = Slot{Kind: SlotKey, Key: b.tree.Text(c)}
				}
				b.declarePattern(target, c, decl, value, origin, keyword, s)
			case "pair_pattern":
				key := c.ChildByFieldName("key")
				val := c.ChildByFieldName("value")
				s := nested
				if key != nil && key.Kind() == "computed_property_name" {
					b.declare(key)
				} else if k, ok := b.propertyKey(key); ok && slot.Kind == SlotWhole && val != nil && val.Kind() == "identifier" {
					s = Slot{Kind: SlotKey, Key: k}
				}
				b.declarePattern(target, val, decl, value, origin, keyword, s)
			default:
				b.declarePattern(target, c, decl, value, origin, keyword, nested)
			}
		}
	case "assignment_pattern", "object_assignment_pattern":
		b.declarePattern(target, pattern.ChildByFieldName("left"), decl, value, origin, keyword, nested)
		b.declare(pattern.ChildByFieldName("right"))
	case "rest_pattern":
		for _, c := range parser.NamedChildren(pattern) {
			b.declarePattern(target, c, decl, value, origin, keyword, nested)
		}
	}
}

func (b *builder) propertyKey(key *sitter.Node) (string, bool) {
	if key == nil {
		return "", false
	}
	switch key.Kind() {
	case "property_identifier", "number":
		return b.tree.Text(key), true
	case "string":
		text := b.tree.Text(key)
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
	}
	return "", false
}

func (b *builder) reference(ident *sitter.Node, write bool) {
	bd := b.cur.Lookup(b.tree.Text(ident))
	if bd == nil {
		return
	}
	b.info.refs[ident.Id()] = bd
	bd.Refs = append(bd.Refs, Ref{Node: ident, Scope: b.cur, Write: write})
	if write {
		bd.Reassigned = true
	}
}

func (b *builder) visitChildren(node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		b.visit(node.Child(i))
	}
}

// visit resolves references in expression position.
func (b *builder) visit(node *sitter.Node) {
	if node == nil || parser.IsTypeOnly(node) {
		return
	}
	if s := b.info.scopes[node.Id()]; s != nil {
		prev := b.cur
		b.cur = s
		defer func() { b.cur = prev }()
	}

	switch node.Kind() {
	case "identifier", "shorthand_property_identifier":
		b.reference(node, false)
	case "import_statement", "export_clause", "comment", "jsx_closing_element", "jsx_namespace_name":
	case "variable_declarator":
		b.visitPattern(node.ChildByFieldName("name"))
		b.visit(node.ChildByFieldName("value"))
	case "function_declaration", "generator_function_declaration", "function_expression", "function",
		"generator_function", "arrow_function", "method_definition":
		if name := node.ChildByFieldName("name"); name != nil && name.Kind() == "computed_property_name" {
			b.visit(name)
		}
		b.visitPattern(node.ChildByFieldName("parameters"))
		b.visit(node.ChildByFieldName("body"))
	case "class_declaration", "abstract_class_declaration", "class":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if k := child.Kind(); k != "identifier" && k != "type_identifier" {
				b.visit(child)
			}
		}
	case "catch_clause":
		b.visitPattern(node.ChildByFieldName("parameter"))
		b.visit(node.ChildByFieldName("body"))
	case "for_in_statement":
		if node.ChildByFieldName("kind") != nil {
			b.visitPattern(node.ChildByFieldName("left"))
		} else {
			b.visitTarget(node.ChildByFieldName("left"))
		}
		b.visit(node.ChildByFieldName("right"))
		b.visit(node.ChildByFieldName("body"))
	case "assignment_expression", "augmented_assignment_expression":
		b.visitTarget(node.ChildByFieldName("left"))
		b.visit(node.ChildByFieldName("right"))
	case "update_expression":
		b.visitTarget(node.ChildByFieldName("argument"))
	case "member_expression":
		b.visit(node.ChildByFieldName("object"))
	case "jsx_opening_element", "jsx_self_closing_element":
		name := node.ChildByFieldName("name")
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if parser.SameNode(child, name) && isIntrinsicElement(b.tree.Text(name), name) {
				continue
			}
			b.visit(child)
		}
	default:
		b.visitChildren(node)
	}
}

// visitPattern walks a declaration pattern. Bound identifiers are skipped;
// default values and computed keys are expressions.
func (b *builder) visitPattern(node *sitter.Node) {
	if node == nil || parser.IsTypeOnly(node) {
		return
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "this", "comment":
	case "assignment_pattern", "object_assignment_pattern":
		b.visitPattern(node.ChildByFieldName("left"))
		b.visit(node.ChildByFieldName("right"))
	case "pair_pattern":
		if key := node.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
			b.visit(key)
		}
		b.visitPattern(node.ChildByFieldName("value"))
	case "required_parameter", "optional_parameter":
		b.visitPattern(node.ChildByFieldName("pattern"))
		b.visit(node.ChildByFieldName("value"))
	default:
		for _, c := range parser.NamedChildren(node) {
			b.visitPattern(c)
		}
	}
}

// visitTarget walks the left side of an assignment.
func (b *builder) visitTarget(node *sitter.Node) {
	node = parser.Unwrap(node)
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "shorthand_property_identifier":
		b.reference(node, true)
	case "array_pattern", "object_pattern", "rest_pattern", "array", "object", "spread_element":
		for _, c := range parser.NamedChildren(node) {
			b.visitTarget(c)
		}
	case "pair_pattern", "pair":
		if key := node.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
			b.visit(key)
		}
		b.visitTarget(node.ChildByFieldName("value"))
	case "assignment_pattern", "object_assignment_pattern":
		b.visitTarget(node.ChildByFieldName("left"))
		b.visit(node.ChildByFieldName("right"))
	default:
		b.visit(node)
	}
}

// isIntrinsicElement reports whether a JSX tag name refers to a host element
// (<div>) rather than a component value in scope.
func isIntrinsicElement(text string, name *sitter.Node) bool {
	if name.Kind() != "identifier" || text == "" {
		return false
	}
	r := []rune(text)[0]
	return unicode.IsLower(r) || strings.Contains(text, "-")
}
