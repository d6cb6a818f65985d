package formats

import (
	"hookdeps/internal/core/app"
	"hookdeps/internal/engine/deps"
	"strings"
	"testing"
)

func TestTextReport(t *testing.T) {
	out := TextReport{ProjectRoot: "/project"}.Generate(sampleResults())

	for _, want := range []string{
		"src/App.jsx\n",
		"  3:35  warning  React Hook useEffect has a missing dependency: 'v'.",
		"missing-dependency\n",
		"  5:7  note  React Hook useMemo",
		"src/Broken.jsx\n  error  [NOT_FOUND] read source\n",
		"✖ 2 problems (1 warning, 1 note) in 1 file; 1 fixable with -fix; 1 file failed\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Clean.jsx") {
		t.Error("files without findings are not listed")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain report must not contain escape codes")
	}
}

func TestTextReportClean(t *testing.T) {
	out := TextReport{}.Generate([]app.FileResult{{Path: "a.js"}})
	if out != "No hook dependency problems found.\n" {
		t.Errorf("got %q", out)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "clean" {
		t.Errorf("got %q", got)
	}
	got := Summary(sampleResults())
	if got != "1 missing-dependency, 1 complex-dependency" {
		t.Errorf("got %q", got)
	}
	files := []app.FileResult{{Diagnostics: []deps.Diagnostic{{Kind: deps.AsyncEffect}, {Kind: deps.AsyncEffect}}}}
	if got := Summary(files); got != "2 async-effect" {
		t.Errorf("got %q", got)
	}
}
