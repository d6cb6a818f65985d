// Package deps checks that hook callbacks declare exactly the render-scoped
// values they capture.
package deps

import (
	"fmt"
	"hookdeps/internal/engine/hooks"
	"hookdeps/internal/engine/parser"
	"hookdeps/internal/engine/scope"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Options configure one Analyzer.
type Options struct {
	// CheckMemoizedVariableIsStatic lets useMemo and useCallback results with
	// stable inputs count as static.
	CheckMemoizedVariableIsStatic bool
	// StaticHooks are merged over the built-in stability table.
	StaticHooks map[string]hooks.StaticHookSpec
	// AdditionalHooks matches callee names checked like useCallback.
	AdditionalHooks *regexp.Regexp
	// ReportStaticDependencies flags static bindings listed as dependencies.
	ReportStaticDependencies bool
}

// Reporter receives diagnostics in source order.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Analyzer is safe for concurrent use; all per-file state lives in a Pass.
type Analyzer struct {
	opts     Options
	registry *hooks.Registry
}

func New(opts Options) *Analyzer {
	return &Analyzer{
		opts:     opts,
		registry: hooks.NewRegistry(opts.AdditionalHooks, opts.StaticHooks),
	}
}

func (a *Analyzer) Options() Options { return a.opts }

// Run analyzes every call expression of tree and reports the diagnostics.
func (a *Analyzer) Run(tree *parser.Tree, r Reporter) {
	p := a.NewPass(tree)
	parser.NewWalker(map[string]parser.NodeHandler{
		"call_expression": func(n *sitter.Node) bool {
			a.VisitCall(p, n)
			return false
		},
	}).Walk(tree.Root())
	for _, d := range p.Diagnostics() {
		r.Report(d)
	}
}

// Analyze is Run collecting into a slice.
func (a *Analyzer) Analyze(tree *parser.Tree) []Diagnostic {
	var out []Diagnostic
	a.Run(tree, ReporterFunc(func(d Diagnostic) { out = append(out, d) }))
	return out
}

// VisitCall checks a single call expression. Calls that are not hook call
// sites, and hook calls outside any function, are ignored.
func (a *Analyzer) VisitCall(p *Pass, call *sitter.Node) {
	site, ok := a.registry.Classify(p.Tree, call)
	if !ok {
		return
	}
	component := p.Scopes.Enclosing(call).FunctionScope()
	if component == p.Scopes.Module {
		return
	}
	callee := parser.Unwrap(call.ChildByFieldName("function"))

	if site.Callback == nil {
		p.report(Diagnostic{
			Kind:    MissingCallback,
			Hook:    site.Callee,
			Span:    p.Tree.Span(callee),
			Message: missingCallbackMessage(site.Callee),
		})
		return
	}
	if site.Deps == nil && site.Kind == hooks.KindMemo {
		if site.Name == "useMemo" || site.Name == "useCallback" {
			p.report(Diagnostic{
				Kind:    MissingDependencyList,
				Hook:    site.Callee,
				Span:    p.Tree.Span(callee),
				Message: missingListMessage(site.Callee),
			})
		}
		return
	}

	if site.NonArrayDeps {
		p.report(Diagnostic{
			Kind:    NonArrayDependencyList,
			Hook:    site.Callee,
			Span:    p.Tree.Span(site.Deps),
			Message: nonArrayMessage(site.Callee),
		})
		return
	}

	fn := parser.Unwrap(site.Callback)
	switch {
	case parser.IsInlineFunction(fn):
	case fn.Kind() == "identifier":
		if fn, ok = a.resolveCallback(p, site, fn, callee, component); !ok {
			return
		}
	default:
		p.report(Diagnostic{
			Kind:    UnknownCallback,
			Hook:    site.Callee,
			Span:    p.Tree.Span(callee),
			Message: unknownCallbackMessage(site.Callee),
		})
		return
	}

	if site.Kind == hooks.KindEffect && parser.IsAsync(fn) {
		p.report(Diagnostic{
			Kind:    AsyncEffect,
			Hook:    site.Callee,
			Span:    p.Tree.Span(fn),
			Message: asyncEffectMessage(),
		})
	}

	ext := p.extract(fn, component, call)
	for _, w := range ext.writes {
		p.report(Diagnostic{
			Kind:    StaleAssignment,
			Hook:    site.Callee,
			Names:   []string{w.binding.Name},
			Span:    p.Tree.Span(w.node),
			Message: staleAssignmentMessage(site.Callee, w.binding.Name),
		})
	}
	required := p.required(ext)

	if site.Deps == nil {
		if site.Kind == hooks.KindEffect {
			a.checkSetStateLoop(p, site, fn, callee, required)
		}
		return
	}

	declared := p.parseDeclared(site.Deps)
	rec := p.reconcile(ext, required, declared, component)
	a.reportComplex(p, site, rec, required)
	if !rec.problems() {
		a.reportConstructions(p, site, declared, component)
		return
	}
	a.reportReconciliation(p, site, rec)
}

// resolveCallback follows an identifier callback to the function it names.
// It returns false when there is nothing to analyze, reporting first when
// the callback itself is a missing render-scoped dependency.
func (a *Analyzer) resolveCallback(p *Pass, site hooks.CallSite, ident, callee *sitter.Node, component *scope.Scope) (*sitter.Node, bool) {
	if site.Deps == nil {
		return nil, false
	}
	name := p.Tree.Text(ident)
	for _, el := range parser.NamedChildren(site.Deps) {
		if el.Kind() == "identifier" && p.Tree.Text(el) == name {
			return nil, false
		}
	}

	b := p.Scopes.Resolve(ident)
	if b != nil {
		switch b.Origin {
		case scope.OriginParameter:
			p.report(Diagnostic{
				Kind:    UnknownCallback,
				Hook:    site.Callee,
				Span:    p.Tree.Span(callee),
				Message: unknownCallbackMessage(site.Callee),
			})
			return nil, false
		case scope.OriginFunction:
			return b.Decl, true
		case scope.OriginVariable:
			if v := parser.Unwrap(b.Value); b.Slot.Kind == scope.SlotWhole && parser.IsInlineFunction(v) {
				return v, true
			}
		}
	}
	// External and stable callbacks need no entry.
	if b == nil || !component.Encloses(b.Scope) || p.Label(b) == Static {
		return nil, false
	}

	p.report(Diagnostic{
		Kind:    MissingDependency,
		Hook:    site.Callee,
		Names:   []string{name},
		Span:    p.Tree.Span(callee),
		Message: missingMessage(site.Callee, []string{name}),
		Fix: &Fix{
			Description: fmt.Sprintf("Update the dependencies list to be: [%s]", name),
			Edits:       []TextEdit{replaceNode(site.Deps, "["+name+"]")},
		},
	})
	return nil, false
}

// checkSetStateLoop flags an effect without a dependency list that calls a
// state setter synchronously.
func (a *Analyzer) checkSetStateLoop(p *Pass, site hooks.CallSite, fn, callee *sitter.Node, required []*Dependency) {
	fnScope := p.Scopes.ScopeAt(fn)
	var setter string
	parser.NewWalker(map[string]parser.NodeHandler{
		"call_expression": func(n *sitter.Node) bool {
			if setter != "" {
				return true
			}
			target := parser.Unwrap(n.ChildByFieldName("function"))
			if target == nil || target.Kind() != "identifier" {
				return false
			}
			if p.Scopes.Enclosing(n).FunctionScope() != fnScope {
				return false
			}
			if b := p.Scopes.Resolve(target); b != nil && a.isStateSetter(p, b) {
				setter = b.Name
			}
			return false
		},
	}).Walk(fn)
	if setter == "" {
		return
	}

	suggested := make([]string, len(required))
	for i, d := range required {
		suggested[i] = d.String()
	}
	list := "[" + strings.Join(suggested, ", ") + "]"
	p.report(Diagnostic{
		Kind:    SetStateWithoutDependencies,
		Hook:    site.Callee,
		Names:   []string{setter},
		Span:    p.Tree.Span(callee),
		Message: setStateWithoutDepsMessage(site.Callee, setter, suggested),
		Fix: &Fix{
			Description: "Add dependencies array: " + list,
			Edits: []TextEdit{{
				Start:   int(site.Callback.EndByte()),
				End:     int(site.Callback.EndByte()),
				NewText: ", " + list,
			}},
		},
	})
}

func (a *Analyzer) isStateSetter(p *Pass, b *scope.Binding) bool {
	if b.Origin != scope.OriginVariable || b.Slot.Kind != scope.SlotIndex || b.Slot.Index != 1 {
		return false
	}
	init := parser.Unwrap(b.Value)
	if init == nil || init.Kind() != "call_expression" {
		return false
	}
	name, ok := hooks.CalleeName(p.Tree, parser.Unwrap(init.ChildByFieldName("function")))
	if !ok {
		return false
	}
	name = strings.TrimPrefix(name, "React.")
	return name == "useState" || name == "useReducer"
}

func (a *Analyzer) reportComplex(p *Pass, site hooks.CallSite, rec reconciliation, required []*Dependency) {
	for _, d := range rec.complex {
		msg := complexMessage(site.Callee)
		if d.literal {
			msg = literalMessage(d.text, namesRequired(strings.Trim(d.text, "'\"`"), required))
		}
		p.report(Diagnostic{
			Kind:    ComplexDependency,
			Hook:    site.Callee,
			Names:   []string{d.text},
			Span:    p.Tree.Span(d.node),
			Message: msg,
		})
	}
}

func namesRequired(name string, required []*Dependency) bool {
	for _, d := range required {
		if d.String() == name {
			return true
		}
	}
	return false
}

// reportConstructions flags listed bindings that get a new identity on every
// render, which defeats the dependency list entirely.
func (a *Analyzer) reportConstructions(p *Pass, site hooks.CallSite, declared []declaredDep, component *scope.Scope) {
	depsLine := p.Tree.Location(site.Deps).Line
	for _, d := range declared {
		if d.binding == nil || len(d.path) > 0 || !component.Encloses(d.binding.Scope) {
			continue
		}
		c, ok := p.constructionOf(d.binding)
		if !ok {
			continue
		}
		outside := usedOutside(d.binding, site.Callback, site.Deps)
		diag := Diagnostic{
			Kind:    UnstableLiteralDependency,
			Hook:    site.Name,
			Names:   []string{d.binding.Name},
			Span:    p.Tree.Span(d.binding.Decl),
			Message: unstableMessage(site.Name, d.binding.Name, c, depsLine, outside),
		}
		if outside && c.kind == "function" && d.binding.Origin == scope.OriginVariable && d.binding.Value != nil {
			diag.Fix = a.wrapInCallback(p, d.binding, component)
		}
		p.report(diag)
	}
}

// wrapInCallback memoizes a function binding with the render-scoped values
// its body reads as the dependency list.
func (a *Analyzer) wrapInCallback(p *Pass, b *scope.Binding, component *scope.Scope) *Fix {
	v := parser.Unwrap(b.Value)
	required := p.required(p.extract(v, component, v))
	names := make([]string, len(required))
	for i, d := range required {
		names[i] = d.String()
	}
	return &Fix{
		Description: fmt.Sprintf("Wrap the definition of '%s' in its own useCallback() Hook.", b.Name),
		Edits: []TextEdit{
			{Start: int(v.StartByte()), End: int(v.StartByte()), NewText: "useCallback("},
			{Start: int(v.EndByte()), End: int(v.EndByte()), NewText: ", [" + strings.Join(names, ", ") + "])"},
		},
	}
}

func usedOutside(b *scope.Binding, callback, deps *sitter.Node) bool {
	for _, r := range b.Refs {
		if !parser.Contains(callback, r.Node) && !parser.Contains(deps, r.Node) {
			return true
		}
	}
	return false
}

func (a *Analyzer) reportReconciliation(p *Pass, site hooks.CallSite, rec reconciliation) {
	text := rec.fixText()
	fix := &Fix{
		Description: "Update the dependencies array to be: " + text,
		Edits:       []TextEdit{replaceNode(site.Deps, text)},
	}
	span := p.Tree.Span(site.Deps)

	if len(rec.missing) > 0 {
		names := make([]string, len(rec.missing))
		for i, d := range rec.missing {
			names[i] = d.String()
		}
		p.report(Diagnostic{
			Kind:    MissingDependency,
			Hook:    site.Callee,
			Names:   names,
			Span:    span,
			Message: missingMessage(site.Callee, names),
			Fix:     fix,
		})
	}
	if len(rec.unnecessary) > 0 {
		names := declaredNames(rec.unnecessary)
		msg := unnecessaryMessage(site.Callee, names)
		if rec.mutable != "" {
			msg += mutableValueHint(rec.mutable)
		} else if len(rec.outer) > 0 {
			msg += outerScopeHint(rec.outer)
		}
		p.report(Diagnostic{
			Kind:    UnnecessaryDependency,
			Hook:    site.Callee,
			Names:   names,
			Span:    span,
			Message: msg,
			Fix:     fix,
		})
	}
	if len(rec.duplicates) > 0 {
		names := declaredNames(rec.duplicates)
		p.report(Diagnostic{
			Kind:    DuplicateDependency,
			Hook:    site.Callee,
			Names:   names,
			Span:    span,
			Message: duplicateMessage(site.Callee, names),
			Fix:     fix,
		})
	}
}

func declaredNames(ds []declaredDep) []string {
	seen := make(map[string]bool, len(ds))
	var out []string
	for _, d := range ds {
		n := d.String()
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func replaceNode(node *sitter.Node, text string) TextEdit {
	return TextEdit{Start: int(node.StartByte()), End: int(node.EndByte()), NewText: text}
}
