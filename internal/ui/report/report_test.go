package report

import (
	"bytes"
	"encoding/json"
	"hookdeps/internal/core/app"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/deps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

var results = []app.FileResult{{
	Path:        "src/App.jsx",
	Diagnostics: []deps.Diagnostic{{Kind: deps.AsyncEffect, Hook: "useEffect", Message: "async"}},
}}

func TestRenderFormats(t *testing.T) {
	text, err := Render(results, Options{Format: "TEXT"})
	if err != nil || !strings.Contains(string(text), "src/App.jsx") {
		t.Fatalf("text: %v %q", err, text)
	}

	tsv, err := Render(results, Options{Format: FormatTSV})
	if err != nil || !strings.HasPrefix(string(tsv), "Kind\t") {
		t.Fatalf("tsv: %v %q", err, tsv)
	}

	id := uuid.New()
	sarif, err := Render(results, Options{Format: FormatSARIF, RunID: id})
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(sarif, &doc); err != nil {
		t.Fatalf("sarif is not JSON: %v", err)
	}
	if !strings.Contains(string(sarif), id.String()) {
		t.Error("run id missing from sarif")
	}

	_, err = Render(results, Options{Format: "xml"})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWriteAndWriteFile(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, results, Options{Format: FormatTSV}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("unexpected tsv %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "out", "report.txt")
	if err := WriteFile(path, results, Options{Format: FormatText, Color: true}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("report files must not be styled")
	}
}
