package deps

import (
	"fmt"
	"hookdeps/internal/engine/parser"
	"sort"
	"strings"
)

type Kind int

const (
	MissingDependency Kind = iota
	UnnecessaryDependency
	UnstableLiteralDependency
	NonArrayDependencyList
	DuplicateDependency
	ComplexDependency
	StaleAssignment
	UnknownCallback
	MissingDependencyList
	MissingCallback
	AsyncEffect
	SetStateWithoutDependencies
)

var kindNames = [...]string{
	MissingDependency:           "missing-dependency",
	UnnecessaryDependency:       "unnecessary-dependency",
	UnstableLiteralDependency:   "unstable-literal-dependency",
	NonArrayDependencyList:      "non-array-dependency-list",
	DuplicateDependency:         "duplicate-dependency",
	ComplexDependency:           "complex-dependency",
	StaleAssignment:             "stale-assignment",
	UnknownCallback:             "unknown-callback",
	MissingDependencyList:       "missing-dependency-list",
	MissingCallback:             "missing-callback",
	AsyncEffect:                 "async-effect",
	SetStateWithoutDependencies: "set-state-without-dependencies",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every diagnostic kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Informational kinds describe code the analyzer could not fully check
// rather than a definite dependency error.
func (k Kind) Informational() bool {
	return k == ComplexDependency || k == StaleAssignment
}

// Diagnostic is one finding at a hook call site.
type Diagnostic struct {
	Kind    Kind
	Hook    string
	Names   []string
	Span    parser.Span
	Message string
	Fix     *Fix
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s]", d.Span.Pos, d.Message, d.Kind)
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Span.Start != diags[j].Span.Start {
			return diags[i].Span.Start < diags[j].Span.Start
		}
		return diags[i].Kind < diags[j].Kind
	})
}

func quoteNames(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = "'" + n + "'"
	}
	return out
}

func joinEnglish(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		sb.WriteString(item)
		switch {
		case i == 0 && len(items) == 2:
			sb.WriteString(" and ")
		case i == len(items)-2 && len(items) > 2:
			sb.WriteString(", and ")
		case i < len(items)-1:
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// listMessage renders "has a missing dependency: 'a'. Either include it or
// remove the dependency array." and its plural forms.
func listMessage(hook, article, label, verb string, names []string) string {
	noun, pronoun := "dependency", "it"
	prefix := article + " "
	if len(names) > 1 {
		noun, pronoun, prefix = "dependencies", "them", ""
	}
	return fmt.Sprintf("React Hook %s has %s%s %s: %s. Either %s %s or remove the dependency array.",
		hook, prefix, label, noun, joinEnglish(quoteNames(names)), verb, pronoun)
}

func missingMessage(hook string, names []string) string {
	return listMessage(hook, "a", "missing", "include", names)
}

func unnecessaryMessage(hook string, names []string) string {
	return listMessage(hook, "an", "unnecessary", "exclude", names)
}

func duplicateMessage(hook string, names []string) string {
	return listMessage(hook, "a", "duplicate", "omit", names)
}

func outerScopeHint(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return fmt.Sprintf(" Outer scope values like %s aren't valid dependencies because mutating them doesn't re-render the component.",
		strings.Join(quoted, ", "))
}

func mutableValueHint(name string) string {
	return fmt.Sprintf(" Mutable values like '%s' aren't valid dependencies because mutating them doesn't re-render the component.", name)
}

func nonArrayMessage(hook string) string {
	return fmt.Sprintf("React Hook %s was passed a dependency list that is not an array literal. "+
		"This means we can't statically verify whether you've passed the correct dependencies.", hook)
}

func complexMessage(hook string) string {
	return fmt.Sprintf("React Hook %s has a complex expression in the dependency array. "+
		"Extract it to a separate variable so it can be statically checked.", hook)
}

func literalMessage(raw string, referenced bool) string {
	if referenced {
		return fmt.Sprintf("The %s literal is not a valid dependency because it never changes. "+
			"Did you mean to include %s in the array instead?", raw, strings.Trim(raw, "'\"`"))
	}
	return fmt.Sprintf("The %s literal is not a valid dependency because it never changes. You can safely remove it.", raw)
}

func staleAssignmentMessage(hook, name string) string {
	return fmt.Sprintf("Assignments to the '%s' variable from inside React Hook %s will be lost after each render. "+
		"To preserve the value over time, store it in a useRef Hook and keep the mutable value in the '.current' property. "+
		"Otherwise, you can move this variable directly inside %s.", name, hook, hook)
}

func unknownCallbackMessage(hook string) string {
	return fmt.Sprintf("React Hook %s received a function whose dependencies are unknown. Pass an inline function instead.", hook)
}

func missingListMessage(hook string) string {
	return fmt.Sprintf("React Hook %s does nothing when called with only one argument. "+
		"Did you forget to pass an array of dependencies?", hook)
}

func missingCallbackMessage(hook string) string {
	return fmt.Sprintf("React Hook %s requires an effect callback. Did you forget to pass a callback to the hook?", hook)
}

func asyncEffectMessage() string {
	return "Effect callbacks are synchronous to prevent race conditions. Put the async function inside:\n\n" +
		"useEffect(() => {\n" +
		"  async function fetchData() {\n" +
		"    // You can await here\n" +
		"    const response = await MyAPI.getData(someId);\n" +
		"    // ...\n" +
		"  }\n" +
		"  fetchData();\n" +
		"}, [someId]); // Or [] if effects don't need props or state\n\n" +
		"Learn more about data fetching with Hooks: https://react.dev/link/hooks-data-fetching"
}

func setStateWithoutDepsMessage(hook, setter string, suggested []string) string {
	return fmt.Sprintf("React Hook %s contains a call to '%s'. Without a list of dependencies, this can lead to an infinite chain of updates. "+
		"To fix this, pass [%s] as a second argument to the %s Hook.", hook, setter, strings.Join(suggested, ", "), hook)
}

func unstableMessage(hook, name string, c construction, depsLine int, usedOutside bool) string {
	wrapper, what := "useMemo", "initialization"
	if c.kind == "function" {
		wrapper, what = "useCallback", "definition"
	}
	advice := fmt.Sprintf("wrap the %s of '%s' in its own %s() Hook.", what, name, wrapper)
	if usedOutside {
		advice = "To fix this, " + advice
	} else {
		advice = fmt.Sprintf("Move it inside the %s callback. Alternatively, %s", hook, advice)
	}
	causation := "makes"
	if c.kind == "conditional" || c.kind == "logical expression" {
		causation = "could make"
	}
	return fmt.Sprintf("The '%s' %s %s the dependencies of %s Hook (at line %d) change on every render. %s",
		name, c.kind, causation, hook, depsLine, advice)
}
