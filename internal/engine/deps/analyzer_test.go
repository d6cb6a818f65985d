package deps

import (
	"fmt"
	"hookdeps/internal/engine/hooks"
	"hookdeps/internal/engine/parser"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

type fixtureOptions struct {
	CheckMemoizedVariableIsStatic bool           `toml:"check_memoized_variable_is_static"`
	AdditionalHooks               string         `toml:"additional_hooks"`
	ReportStaticDependencies      bool           `toml:"report_static_dependencies"`
	StaticHooks                   map[string]any `toml:"static_hooks"`
}

func (fo fixtureOptions) options(t *testing.T) Options {
	t.Helper()
	opts := Options{
		CheckMemoizedVariableIsStatic: fo.CheckMemoizedVariableIsStatic,
		ReportStaticDependencies:      fo.ReportStaticDependencies,
	}
	if fo.AdditionalHooks != "" {
		opts.AdditionalHooks = regexp.MustCompile(fo.AdditionalHooks)
	}
	if len(fo.StaticHooks) > 0 {
		opts.StaticHooks = make(map[string]hooks.StaticHookSpec, len(fo.StaticHooks))
		for name, raw := range fo.StaticHooks {
			spec, err := hooks.ParseStaticHookSpec(raw)
			if err != nil {
				t.Fatalf("static_hooks.%s: %v", name, err)
			}
			opts.StaticHooks[name] = spec
		}
	}
	return opts
}

var testParser *parser.Parser

func newParser(t *testing.T) *parser.Parser {
	t.Helper()
	if testParser != nil {
		return testParser
	}
	loader, err := parser.NewGrammarLoader(nil)
	if err != nil {
		t.Fatalf("NewGrammarLoader: %v", err)
	}
	testParser = parser.NewParser(loader)
	return testParser
}

func parse(t *testing.T, path string, src []byte) *parser.Tree {
	t.Helper()
	tree, err := newParser(t).ParseFile(path, src)
	if err != nil {
		t.Fatalf("ParseFile(%s): %v", path, err)
	}
	t.Cleanup(tree.Close)
	if tree.Root().HasError() {
		t.Fatalf("%s has syntax errors: %s", path, tree.Root().ToSexp())
	}
	return tree
}

func summarize(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, strings.TrimSpace(fmt.Sprintf("%d %s %s", d.Span.Pos.Line, d.Kind, strings.Join(d.Names, ","))))
	}
	return out
}

func lines(data []byte) []string {
	out := []string{}
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestFixtures(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			ar := txtar.Parse(data)

			var (
				fo                  fixtureOptions
				input, fixed, want  []byte
				inputName, fixedExt string
				hasFixed            bool
			)
			for _, f := range ar.Files {
				switch {
				case f.Name == "options.toml":
					if _, err := toml.Decode(string(f.Data), &fo); err != nil {
						t.Fatalf("options.toml: %v", err)
					}
				case f.Name == "want":
					want = f.Data
				case strings.HasPrefix(f.Name, "input."):
					input, inputName = f.Data, f.Name
				case strings.HasPrefix(f.Name, "fixed."):
					fixed, fixedExt, hasFixed = f.Data, filepath.Ext(f.Name), true
				}
			}
			if input == nil {
				t.Fatal("fixture has no input file")
			}

			a := New(fo.options(t))
			diags := a.Analyze(parse(t, inputName, input))
			if diff := cmp.Diff(lines(want), summarize(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			for _, d := range diags {
				if d.Message == "" {
					t.Errorf("%s has an empty message", d.Kind)
				}
			}

			if !hasFixed {
				return
			}
			got, skipped := ApplyEdits(input, CollectEdits(diags))
			if skipped != 0 {
				t.Errorf("ApplyEdits skipped %d edits", skipped)
			}
			if diff := cmp.Diff(string(fixed), string(got)); diff != "" {
				t.Errorf("fixed source mismatch (-want +got):\n%s", diff)
			}

			for _, d := range a.Analyze(parse(t, "fixed"+fixedExt, got)) {
				switch d.Kind {
				case MissingDependency, UnnecessaryDependency, DuplicateDependency, MissingDependencyList, NonArrayDependencyList:
					t.Errorf("fixed source still reports %s", d)
				}
			}
		})
	}
}

func TestAnalyzeReportsInSourceOrder(t *testing.T) {
	src := []byte(`function C({ a, b }) {
  useEffect(() => { console.log(b); }, []);
  useEffect(() => { console.log(a); }, []);
}
`)
	var got []Diagnostic
	New(Options{}).Run(parse(t, "order.jsx", src), ReporterFunc(func(d Diagnostic) {
		got = append(got, d)
	}))
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	if got[0].Names[0] != "b" || got[1].Names[0] != "a" {
		t.Errorf("unexpected order: %v", summarize(got))
	}
	if got[0].Span.Start >= got[1].Span.Start {
		t.Errorf("spans out of order: %d >= %d", got[0].Span.Start, got[1].Span.Start)
	}
}

func TestMissingDependencyMessageAndFix(t *testing.T) {
	src := []byte(`function C({ b, a }) {
  useEffect(() => { console.log(b, a); }, []);
}
`)
	diags := New(Options{}).Analyze(parse(t, "msg.jsx", src))
	if len(diags) != 1 {
		t.Fatalf("got %v", summarize(diags))
	}
	d := diags[0]
	wantMsg := "React Hook useEffect has missing dependencies: 'a' and 'b'. Either include them or remove the dependency array."
	if d.Message != wantMsg {
		t.Errorf("message = %q\nwant      %q", d.Message, wantMsg)
	}
	if d.Fix == nil || d.Fix.Description != "Update the dependencies array to be: [b, a]" {
		t.Errorf("fix = %+v", d.Fix)
	}
}

func TestReportStaticDependencies(t *testing.T) {
	src := []byte(`function C() {
  const [v, setV] = useState(0);
  useEffect(() => { setV(v); }, [v, setV]);
}
`)
	if diags := New(Options{}).Analyze(parse(t, "static.jsx", src)); len(diags) != 0 {
		t.Fatalf("static setter should be tolerated, got %v", summarize(diags))
	}

	diags := New(Options{ReportStaticDependencies: true}).Analyze(parse(t, "static.jsx", src))
	if diff := cmp.Diff([]string{"3 unnecessary-dependency setV"}, summarize(diags)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestPassLabelsAreIsolated(t *testing.T) {
	src := []byte(`function C() {
  const v = useMemo(() => 1, []);
  useEffect(() => console.log(v), []);
}
`)
	tree := parse(t, "iso.jsx", src)
	verify := New(Options{CheckMemoizedVariableIsStatic: true})
	plain := New(Options{})

	if n := len(verify.Analyze(tree)); n != 0 {
		t.Errorf("verify mode: got %d diagnostics", n)
	}
	if n := len(plain.Analyze(tree)); n != 1 {
		t.Errorf("default mode: got %d diagnostics", n)
	}
	if n := len(verify.Analyze(tree)); n != 0 {
		t.Errorf("verify mode after default run: got %d diagnostics", n)
	}
}
