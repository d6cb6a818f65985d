package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Location is a 1-based line/column position inside a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Span is a half-open byte range [Start, End) together with the location of Start.
type Span struct {
	Start int
	End   int
	Pos   Location
}

// LanguageSpec describes one grammar the loader can provide.
type LanguageSpec struct {
	Name       string
	Enabled    bool
	Extensions []string
}

const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

// DefaultLanguageRegistry returns the built-in grammar table.
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LangJavaScript: {Name: LangJavaScript, Enabled: true, Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
		LangTypeScript: {Name: LangTypeScript, Enabled: true, Extensions: []string{".ts", ".mts", ".cts"}},
		LangTSX:        {Name: LangTSX, Enabled: true, Extensions: []string{".tsx"}},
	}
}

// Tree owns the source and syntax tree of one parsed file.
type Tree struct {
	Path     string
	Language string
	Source   []byte

	tree *sitter.Tree
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter tree. It is safe to call twice.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(t.Source[node.StartByte():node.EndByte()])
}

func (t *Tree) Location(node *sitter.Node) Location {
	pos := node.StartPosition()
	return Location{
		File:   t.Path,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

func (t *Tree) Span(node *sitter.Node) Span {
	return Span{
		Start: int(node.StartByte()),
		End:   int(node.EndByte()),
		Pos:   t.Location(node),
	}
}
