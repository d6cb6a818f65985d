package formats

import (
	"strings"
	"testing"
)

func TestGenerateTSV(t *testing.T) {
	out := GenerateTSV("/project", sampleResults())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d:\n%s", len(lines), out)
	}
	if lines[0]+"\n" != tsvHeader {
		t.Errorf("header = %q", lines[0])
	}

	want := []string{
		"missing-dependency\tsrc/App.jsx\t3\t35\tuseEffect\tv\ttrue\tReact Hook useEffect has a missing dependency: 'v'. Either include it or remove the dependency array.",
		"complex-dependency\tsrc/App.jsx\t5\t7\tuseMemo\t\tfalse\tReact Hook useMemo has a complex expression in the dependency array.",
		"error\tsrc/Broken.jsx\t0\t0\t\t\tfalse\t[NOT_FOUND] read source",
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Errorf("row %d:\n got %q\nwant %q", i, lines[i+1], w)
		}
	}
	for _, line := range lines {
		if n := strings.Count(line, "\t"); n != 7 {
			t.Errorf("row has %d tabs: %q", n, line)
		}
	}
}

func TestCell(t *testing.T) {
	if got := cell("a\tb\nc"); got != "a b c" {
		t.Errorf("got %q", got)
	}
}
