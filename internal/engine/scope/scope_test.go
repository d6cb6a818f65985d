package scope

import (
	"hookdeps/internal/engine/parser"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func build(t *testing.T, lang, src string) (*parser.Tree, *Info) {
	t.Helper()
	loader, err := parser.NewGrammarLoader(nil)
	if err != nil {
		t.Fatalf("NewGrammarLoader: %v", err)
	}
	tree, err := parser.NewParser(loader).ParseSource(lang, []byte(src))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	t.Cleanup(tree.Close)
	if tree.Root().HasError() {
		t.Fatalf("fixture has syntax errors: %s", tree.Root().ToSexp())
	}
	return tree, Build(tree)
}

// idents returns every identifier-like node spelled name, in source order.
func idents(tree *parser.Tree, name string) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern", "type_identifier":
			if tree.Text(n) == name {
				out = append(out, n)
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Root())
	return out
}

func bindingsNamed(info *Info, name string) []*Binding {
	var out []*Binding
	for _, b := range info.Bindings() {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

func TestVarHoistsToFunctionScope(t *testing.T) {
	tree, info := build(t, parser.LangJavaScript, `
function f(x) {
  if (x) { var a = 1; }
  return a;
}`)
	a := bindingsNamed(info, "a")
	if len(a) != 1 {
		t.Fatalf("expected one binding for a, got %d", len(a))
	}
	if a[0].Scope.Kind != KindFunction {
		t.Fatalf("expected var to hoist into the function scope, got %s", a[0].Scope.Kind)
	}
	uses := idents(tree, "a")
	if got := info.Resolve(uses[len(uses)-1]); got != a[0] {
		t.Fatalf("return a resolved to %v, want %v", got, a[0])
	}
}

func TestBlockShadowing(t *testing.T) {
	tree, info := build(t, parser.LangJavaScript, `
const a = 1;
function f() {
  { const a = 2; use(a); }
  use(a);
}`)
	a := bindingsNamed(info, "a")
	if len(a) != 2 {
		t.Fatalf("expected two bindings for a, got %d", len(a))
	}
	outer, inner := a[0], a[1]
	if outer.Scope != info.Module {
		t.Fatalf("expected first a at module scope")
	}
	uses := idents(tree, "a")
	// decl, decl, use in block, use in function
	if got := info.Resolve(uses[2]); got != inner {
		t.Errorf("block use resolved to %v, want %v", got, inner)
	}
	if got := info.Resolve(uses[3]); got != outer {
		t.Errorf("function use resolved to %v, want %v", got, outer)
	}
	if info.Resolve(uses[0]) != nil {
		t.Errorf("declaration site must not resolve as a reference")
	}
}

func TestDestructureSlots(t *testing.T) {
	_, info := build(t, parser.LangJavaScript, `
function C() {
  const [state, setState] = useState(0);
  const [, second] = useTuple();
  const { value, cb: callback, "quoted": q } = useObject();
  const [{ deep }] = useNested();
  const [withDefault = 1, ...rest] = useRest();
  const whole = useRef();
}`)

	tests := []struct {
		name string
		want Slot
	}{
		{"state", Slot{Kind: SlotIndex, Index: 0}},
		{"setState", Slot{Kind: SlotIndex, Index: 1}},
		{"second", Slot{Kind: SlotIndex, Index: 1}},
		{"value", Slot{Kind: SlotKey, Key: "value"}},
		{"callback", Slot{Kind: SlotKey, Key: "cb"}},
		{"q", Slot{Kind: SlotKey, Key: "quoted"}},
		{"deep", Slot{Kind: SlotNested}},
		{"withDefault", Slot{Kind: SlotNested}},
		{"rest", Slot{Kind: SlotNested}},
		{"whole", Slot{Kind: SlotWhole}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bindingsNamed(info, tt.name)
			if len(b) != 1 {
				t.Fatalf("expected one binding, got %d", len(b))
			}
			if b[0].Slot != tt.want {
				t.Errorf("slot = %v, want %v", b[0].Slot, tt.want)
			}
			if b[0].Value == nil || b[0].Value.Kind() != "call_expression" {
				t.Errorf("expected the call as initializer")
			}
			if b[0].Keyword != "const" {
				t.Errorf("keyword = %q", b[0].Keyword)
			}
		})
	}
}

func TestReassignment(t *testing.T) {
	_, info := build(t, parser.LangJavaScript, `
function C() {
  let n = 0;
  let m = 0;
  let pair = 0;
  const stable = 1;
  function bump() { n = 1; n++; [pair] = [2]; read(m, stable); }
}`)
	n := bindingsNamed(info, "n")[0]
	if !n.Reassigned {
		t.Fatal("expected n to be reassigned")
	}
	writes := 0
	for _, r := range n.Refs {
		if r.Write {
			writes++
		}
	}
	if writes != 2 {
		t.Errorf("expected 2 writes to n, got %d", writes)
	}
	if !bindingsNamed(info, "pair")[0].Reassigned {
		t.Error("expected destructuring assignment to mark pair reassigned")
	}
	if bindingsNamed(info, "m")[0].Reassigned || bindingsNamed(info, "stable")[0].Reassigned {
		t.Error("reads must not mark bindings reassigned")
	}
}

func TestImports(t *testing.T) {
	_, info := build(t, parser.LangJavaScript, `
import React, { useEffect as ue, useMemo } from 'react';
import * as ns from 'lib';
ue(); useMemo(); ns.x; React.y;
`)
	for _, name := range []string{"React", "ue", "useMemo", "ns"} {
		b := bindingsNamed(info, name)
		if len(b) != 1 {
			t.Fatalf("expected import binding %s", name)
		}
		if b[0].Origin != OriginImport {
			t.Errorf("%s origin = %s", name, b[0].Origin)
		}
		if len(b[0].Refs) != 1 {
			t.Errorf("%s refs = %d, want 1", name, len(b[0].Refs))
		}
	}
	if len(bindingsNamed(info, "useEffect")) != 0 {
		t.Error("aliased import must bind only the alias")
	}
}

func TestJSXReferences(t *testing.T) {
	_, info := build(t, parser.LangJavaScript, `
function A() {
  const Comp = X;
  const div = 1;
  return <Comp title={div}><div /></Comp>;
}`)
	comp := bindingsNamed(info, "Comp")[0]
	if len(comp.Refs) != 1 {
		t.Errorf("expected one reference to Comp (closing tag excluded), got %d", len(comp.Refs))
	}
	div := bindingsNamed(info, "div")[0]
	if len(div.Refs) != 1 {
		t.Errorf("expected only the attribute to reference div, got %d", len(div.Refs))
	}
}

func TestUseBeforeDeclaration(t *testing.T) {
	tree, info := build(t, parser.LangJavaScript, `
function f() {
  g();
  function g() {}
}`)
	g := bindingsNamed(info, "g")[0]
	if g.Origin != OriginFunction {
		t.Fatalf("origin = %s", g.Origin)
	}
	if info.Resolve(idents(tree, "g")[0]) != g {
		t.Fatal("call before declaration must resolve")
	}
}

func TestParameters(t *testing.T) {
	_, info := build(t, parser.LangJavaScript, `
function C({ a, b = 1 }, [c], ...d) {
  return x => a + b + c + d + x;
}`)
	for _, name := range []string{"a", "b", "c", "d", "x"} {
		b := bindingsNamed(info, name)
		if len(b) != 1 || b[0].Origin != OriginParameter {
			t.Fatalf("expected parameter binding for %s", name)
		}
		if len(b[0].Refs) != 1 {
			t.Errorf("%s refs = %d", name, len(b[0].Refs))
		}
	}
	x := bindingsNamed(info, "x")[0]
	a := bindingsNamed(info, "a")[0]
	if !a.Scope.Encloses(x.Scope) || x.Scope.Encloses(a.Scope) {
		t.Error("arrow scope must nest inside the component scope")
	}
}

func TestTypeScriptTypesAreNotReferences(t *testing.T) {
	tree, info := build(t, parser.LangTSX, `
interface Props { a: number }
function C(p: Props): number {
  const x: number = p.a as number;
  return x!;
}`)
	p := bindingsNamed(info, "p")
	if len(p) != 1 || len(p[0].Refs) != 1 {
		t.Fatalf("expected parameter p with one reference")
	}
	x := bindingsNamed(info, "x")[0]
	if len(x.Refs) != 1 {
		t.Errorf("x refs = %d", len(x.Refs))
	}
	for _, n := range idents(tree, "Props") {
		if info.Resolve(n) != nil {
			t.Error("type position must not resolve")
		}
	}
}

func TestEnclosingAndFunctionScope(t *testing.T) {
	tree, info := build(t, parser.LangJavaScript, `
function C() {
  if (ok) {
    useEffect(() => { marker(); });
  }
}`)
	marker := idents(tree, "marker")[0]
	inner := info.Enclosing(marker)
	if inner.Kind != KindFunction {
		t.Fatalf("expected the arrow scope, got %s", inner.Kind)
	}
	block := inner.Parent
	if block.Kind != KindBlock {
		t.Fatalf("expected the if block, got %s", block.Kind)
	}
	component := block.FunctionScope()
	if component.Kind != KindFunction || component.Parent != info.Module {
		t.Fatalf("expected the component scope under module")
	}
}
