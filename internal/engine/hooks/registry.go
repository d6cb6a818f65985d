// Package hooks recognizes hook call sites and knows which hook results are
// stable between renders.
package hooks

import (
	"regexp"
	"strings"
)

type Kind int

const (
	KindEffect Kind = iota
	KindMemo
)

func (k Kind) String() string {
	if k == KindEffect {
		return "effect"
	}
	return "memo"
}

// Spec describes where a hook takes its callback. The dependency list is the
// argument right after the callback.
type Spec struct {
	Name          string
	Kind          Kind
	CallbackIndex int
}

func (s Spec) DepsIndex() int { return s.CallbackIndex + 1 }

// Registry is the lookup table of hooks the analyzer checks.
type Registry struct {
	builtin    map[string]Spec
	additional *regexp.Regexp
	static     map[string]StaticHookSpec
}

// NewRegistry merges the built-in tables with configuration. Entries of
// staticHooks replace built-in entries of the same name.
func NewRegistry(additional *regexp.Regexp, staticHooks map[string]StaticHookSpec) *Registry {
	r := &Registry{
		builtin: map[string]Spec{
			"useEffect":           {Name: "useEffect", Kind: KindEffect},
			"useLayoutEffect":     {Name: "useLayoutEffect", Kind: KindEffect},
			"useInsertionEffect":  {Name: "useInsertionEffect", Kind: KindEffect},
			"useCallback":         {Name: "useCallback", Kind: KindMemo},
			"useMemo":             {Name: "useMemo", Kind: KindMemo},
			"useImperativeHandle": {Name: "useImperativeHandle", Kind: KindMemo, CallbackIndex: 1},
		},
		additional: additional,
		static:     builtinStatic(),
	}
	for name, spec := range staticHooks {
		r.static[name] = spec
	}
	return r
}

// Lookup classifies a callee. callee is the source text of the callee
// expression, for example useEffect, React.useMemo or store.useSelector.
func (r *Registry) Lookup(callee string) (Spec, bool) {
	name := strings.TrimPrefix(callee, "React.")
	if spec, ok := r.builtin[name]; ok {
		return spec, true
	}
	if r.additional != nil && r.additional.MatchString(callee) {
		return Spec{Name: callee, Kind: KindMemo}, true
	}
	return Spec{}, false
}

// IsMemo reports whether callee caches its callback result.
func (r *Registry) IsMemo(callee string) bool {
	spec, ok := r.Lookup(callee)
	return ok && spec.Kind == KindMemo
}

// StaticSpec returns the stability spec of a hook by callee text.
func (r *Registry) StaticSpec(callee string) (StaticHookSpec, bool) {
	if spec, ok := r.static[callee]; ok {
		return spec, true
	}
	spec, ok := r.static[strings.TrimPrefix(callee, "React.")]
	return spec, ok
}
