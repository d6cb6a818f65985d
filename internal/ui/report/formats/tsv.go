package formats

import (
	"fmt"
	"hookdeps/internal/core/app"
	"strings"
)

const tsvHeader = "Kind\tFile\tLine\tColumn\tHook\tNames\tFixable\tMessage\n"

// GenerateTSV renders one row per diagnostic. Files that failed to lint get
// an "error" row carrying the failure.
func GenerateTSV(projectRoot string, files []app.FileResult) string {
	var buf strings.Builder
	buf.WriteString(tsvHeader)
	for _, f := range files {
		path := relativeURI(projectRoot, f.Path)
		if f.Err != nil {
			buf.WriteString(fmt.Sprintf("error\t%s\t0\t0\t\t\tfalse\t%s\n", cell(path), cell(f.Err.Error())))
			continue
		}
		for _, d := range f.Diagnostics {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%s\t%s\t%t\t%s\n",
				d.Kind,
				cell(path),
				d.Span.Pos.Line,
				d.Span.Pos.Column,
				cell(d.Hook),
				cell(strings.Join(sortedNames(d.Names), ",")),
				d.Fix != nil,
				cell(d.Message),
			))
		}
	}
	return buf.String()
}
