package deps

import (
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/engine/scope"
)

// Pass is the analysis context of one file. Labels are memoized here and
// nowhere else, so analyzing the same file twice starts from a clean state.
type Pass struct {
	Tree   *parser.Tree
	Scopes *scope.Info

	analyzer *Analyzer
	labels   map[int]Label
	visiting map[int]bool
	diags    []Diagnostic
}

// NewPass builds the scope model of tree and returns a fresh context for it.
func (a *Analyzer) NewPass(tree *parser.Tree) *Pass {
	return &Pass{
		Tree:     tree,
		Scopes:   scope.Build(tree),
		analyzer: a,
		labels:   make(map[int]Label),
		visiting: make(map[int]bool),
	}
}

func (p *Pass) report(d Diagnostic) {
	p.diags = append(p.diags, d)
}

// Diagnostics returns what the pass has reported so far, sorted by position.
func (p *Pass) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), p.diags...)
	sortDiagnostics(out)
	return out
}
