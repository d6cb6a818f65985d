package parser

import (
	"hookdeps/internal/core/errors"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	loader, err := NewGrammarLoader(nil)
	if err != nil {
		t.Fatalf("NewGrammarLoader: %v", err)
	}
	return NewParser(loader)
}

func TestParseFile_DetectsLanguage(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		path string
		src  string
		lang string
	}{
		{"App.jsx", "const App = () => <div>{x}</div>;", LangJavaScript},
		{"lib/util.mjs", "export const a = 1;", LangJavaScript},
		{"hook.ts", "const n = (v as number) satisfies number;", LangTypeScript},
		{"View.tsx", "const V = (p: Props) => <span>{p.a!}</span>;", LangTSX},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tree, err := p.ParseFile(tt.path, []byte(tt.src))
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			defer tree.Close()
			if tree.Language != tt.lang {
				t.Errorf("expected language %s, got %s", tt.lang, tree.Language)
			}
			if tree.Root().HasError() {
				t.Errorf("unexpected syntax error: %s", tree.Root().ToSexp())
			}
		})
	}
}

func TestParseFile_Unsupported(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseFile("main.go", []byte("package main"))
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestGrammarLoader_DisabledLanguage(t *testing.T) {
	registry := DefaultLanguageRegistry()
	spec := registry[LangTypeScript]
	spec.Enabled = false
	registry[LangTypeScript] = spec

	loader, err := NewGrammarLoader(registry)
	if err != nil {
		t.Fatalf("NewGrammarLoader: %v", err)
	}
	if got := loader.LanguageForPath("a.ts"); got != "" {
		t.Errorf("expected .ts to be unclaimed, got %q", got)
	}
	if got := loader.LanguageForPath("A.JSX"); got != LangJavaScript {
		t.Errorf("expected case-insensitive extension match, got %q", got)
	}
}

func TestGrammarLoader_UnknownLanguage(t *testing.T) {
	_, err := NewGrammarLoader(map[string]LanguageSpec{"cobol": {Name: "cobol", Enabled: true}})
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	p := newTestParser(t)
	tree, err := p.ParseSource(LangTypeScript, []byte("x = ((y as any)!);"))
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	var rhs *sitter.Node
	NewWalker(map[string]NodeHandler{
		"assignment_expression": func(n *sitter.Node) bool {
			rhs = n.ChildByFieldName("right")
			return true
		},
	}).Walk(tree.Root())
	if rhs == nil {
		t.Fatal("assignment not found")
	}
	inner := Unwrap(rhs)
	if inner.Kind() != "identifier" || tree.Text(inner) != "y" {
		t.Fatalf("expected identifier y, got %s %q", inner.Kind(), tree.Text(inner))
	}
}

func TestTreeLocation(t *testing.T) {
	p := newTestParser(t)
	tree, err := p.ParseFile("a.js", []byte("\n  foo();"))
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	var call *sitter.Node
	NewWalker(map[string]NodeHandler{
		"call_expression": func(n *sitter.Node) bool { call = n; return true },
	}).Walk(tree.Root())

	loc := tree.Location(call)
	if loc.Line != 2 || loc.Column != 3 || loc.File != "a.js" {
		t.Fatalf("unexpected location %v", loc)
	}
}
