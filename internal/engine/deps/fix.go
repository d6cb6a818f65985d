package deps

import (
	"bytes"
	"sort"
)

// TextEdit replaces the byte range [Start, End) of a source file.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// Fix is a suggested rewrite attached to a diagnostic.
type Fix struct {
	Description string
	Edits       []TextEdit
}

// ApplyEdits applies edits to src. Identical edits collapse into one, so the
// fix shared by several diagnostics of a call site applies once. An edit
// that overlaps an already accepted edit is dropped; the number of dropped
// edits is returned so callers can re-run until the source is stable.
func ApplyEdits(src []byte, edits []TextEdit) ([]byte, int) {
	if len(edits) == 0 {
		return src, 0
	}
	sorted := append([]TextEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	accepted := make([]TextEdit, 0, len(sorted))
	skipped := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			skipped++
			continue
		}
		if n := len(accepted); n > 0 {
			last := accepted[n-1]
			if last == e {
				continue
			}
			if e.Start < last.End {
				skipped++
				continue
			}
		}
		accepted = append(accepted, e)
	}

	var out bytes.Buffer
	out.Grow(len(src))
	pos := 0
	for _, e := range accepted {
		out.Write(src[pos:e.Start])
		out.WriteString(e.NewText)
		pos = e.End
	}
	out.Write(src[pos:])
	return out.Bytes(), skipped
}

// CollectEdits gathers the edits of every fix-carrying diagnostic.
func CollectEdits(diags []Diagnostic) []TextEdit {
	var edits []TextEdit
	for _, d := range diags {
		if d.Fix != nil {
			edits = append(edits, d.Fix.Edits...)
		}
	}
	return edits
}
