package deps

import (
	"hookdeps/internal/engine/hooks"
	"hookdeps/internal/engine/scope"
	"testing"
)

func labelOf(t *testing.T, p *Pass, name string) Label {
	t.Helper()
	for _, b := range p.Scopes.Bindings() {
		if b.Name == name {
			return p.Label(b)
		}
	}
	t.Fatalf("no binding %q", name)
	return Unknown
}

func TestLabelPrimitives(t *testing.T) {
	src := []byte(`function C() {
  const s = 'a';
  const tpl = ` + "`plain`" + `;
  const sub = ` + "`${s}`" + `;
  const n = 1;
  const neg = -1;
  const nul = null;
  const u = undefined;
  const yes = true;
  let moved = 1;
  moved = 2;
  if (n) {
    const deep = 3;
    function inner() { const deeper = 'x'; }
  }
}
`)
	p := New(Options{}).NewPass(parse(t, "prim.jsx", src))

	tests := []struct {
		name string
		want Label
	}{
		{"s", Static},
		{"tpl", Static},
		{"sub", Dynamic},
		{"n", Static},
		{"neg", Static},
		{"nul", Static},
		{"u", Static},
		{"yes", Static},
		{"moved", Dynamic},
		{"deep", Static},
		{"deeper", Static},
		{"inner", Dynamic},
	}
	for _, tt := range tests {
		if got := labelOf(t, p, tt.name); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestLabelHookResults(t *testing.T) {
	src := []byte(`function C() {
  const ref = useRef();
  const [state, setState] = useState();
  const [, dispatch] = React.useReducer(r);
  const [pending, start] = useTransition();
  const { a, b } = useThing();
  const whole = useThing();
  const memo = useMemo(() => 1, []);
  const chained = useCallback(() => memo, [memo]);
  const open = useMemo(() => 1);
}
`)
	opts := Options{
		StaticHooks: map[string]hooks.StaticHookSpec{
			"useThing": hooks.StaticProperties(map[string]bool{"a": true}),
		},
	}

	want := map[string]Label{
		"ref": Static, "state": Dynamic, "setState": Static, "dispatch": Static,
		"pending": Dynamic, "start": Static, "a": Static, "b": Dynamic, "whole": Dynamic,
		"memo": Dynamic, "chained": Dynamic, "open": Dynamic,
	}
	p := New(opts).NewPass(parse(t, "hooks.jsx", src))
	for name, w := range want {
		if got := labelOf(t, p, name); got != w {
			t.Errorf("default %s: got %s, want %s", name, got, w)
		}
	}

	opts.CheckMemoizedVariableIsStatic = true
	want["memo"], want["chained"] = Static, Static
	p = New(opts).NewPass(parse(t, "hooks.jsx", src))
	for name, w := range want {
		if got := labelOf(t, p, name); got != w {
			t.Errorf("verify %s: got %s, want %s", name, got, w)
		}
	}
}

func TestLabelMemoizedPerPass(t *testing.T) {
	p := New(Options{}).NewPass(parse(t, "memo.jsx", []byte("function C() { const x = 1; }\n")))
	var b *scope.Binding
	for _, cand := range p.Scopes.Bindings() {
		if cand.Name == "x" {
			b = cand
		}
	}
	if b == nil || p.Label(b) != Static {
		t.Fatal("expected static")
	}
	// A label is computed once per pass even if the binding changes later.
	b.Reassigned = true
	if p.Label(b) != Static {
		t.Error("label was recomputed")
	}
	fresh := New(Options{}).NewPass(p.Tree)
	for _, fb := range fresh.Scopes.Bindings() {
		if fb.Name == "x" && fresh.Label(fb) != Static {
			t.Error("fresh pass should rebuild bindings and labels")
		}
	}
}

func TestConstructionType(t *testing.T) {
	src := []byte(`function C(p) {
  const o = {};
  const arr = [];
  const fn = () => {};
  const re = /x/;
  const made = new Map();
  const el = <div />;
  const frag = <></>;
  const pick = p ? {} : null;
  const either = p || [];
  const plain = p.value;
  function decl() {}
  const [first] = [];
}
`)
	p := New(Options{}).NewPass(parse(t, "ctor.jsx", src))
	want := map[string]string{
		"o": "object", "arr": "array", "fn": "function", "re": "regular expression",
		"made": "object construction", "el": "JSX element", "frag": "JSX fragment",
		"pick": "conditional", "either": "logical expression", "decl": "function",
		"C": "function",
	}
	for _, b := range p.Scopes.Bindings() {
		c, ok := p.constructionOf(b)
		w, expected := want[b.Name]
		switch {
		case expected && (!ok || c.kind != w):
			t.Errorf("%s: got %q (%v), want %q", b.Name, c.kind, ok, w)
		case !expected && ok:
			t.Errorf("%s: unexpected construction %q", b.Name, c.kind)
		}
	}
	if _, ok := p.constructionOf(&scope.Binding{Origin: scope.OriginParameter}); ok {
		t.Error("parameters are never constructions")
	}
}
