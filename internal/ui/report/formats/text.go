package formats

import (
	"fmt"
	"hookdeps/internal/core/app"
	"hookdeps/internal/engine/deps"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	fileStyle    = lipgloss.NewStyle().Underline(true).Bold(true)
	posStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

// TextReport renders results grouped by file, one line per diagnostic.
type TextReport struct {
	ProjectRoot string
	// Color enables lipgloss styling; leave it off when writing to files.
	Color bool
}

func (r TextReport) paint(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

func (r TextReport) Generate(files []app.FileResult) string {
	var b strings.Builder
	var warnings, notes, fixable, failed, dirty int

	for _, f := range files {
		path := relativeURI(r.ProjectRoot, f.Path)
		if f.Err != nil {
			failed++
			b.WriteString(r.paint(fileStyle, path) + "\n")
			b.WriteString("  " + r.paint(errorStyle, "error") + "  " + f.Err.Error() + "\n\n")
			continue
		}
		if len(f.Diagnostics) == 0 {
			continue
		}
		dirty++
		b.WriteString(r.paint(fileStyle, path) + "\n")
		for _, d := range f.Diagnostics {
			level, style := "warning", warningStyle
			if d.Kind.Informational() {
				level, style = "note", noteStyle
				notes++
			} else {
				warnings++
			}
			if d.Fix != nil {
				fixable++
			}
			pos := fmt.Sprintf("%d:%d", d.Span.Pos.Line, d.Span.Pos.Column)
			b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
				r.paint(posStyle, pos),
				r.paint(style, level),
				d.Message,
				r.paint(kindStyle, d.Kind.String()),
			))
		}
		b.WriteString("\n")
	}

	b.WriteString(r.summary(warnings, notes, fixable, failed, dirty))
	return b.String()
}

func (r TextReport) summary(warnings, notes, fixable, failed, dirty int) string {
	total := warnings + notes
	if total == 0 && failed == 0 {
		return r.paint(successStyle, "No hook dependency problems found.") + "\n"
	}
	parts := []string{fmt.Sprintf("%s (%s, %s) in %s",
		plural(total, "problem"), plural(warnings, "warning"), plural(notes, "note"), plural(dirty, "file"))}
	if fixable > 0 {
		parts = append(parts, fmt.Sprintf("%d fixable with -fix", fixable))
	}
	if failed > 0 {
		parts = append(parts, plural(failed, "file")+" failed")
	}
	return r.paint(errorStyle, "✖ ") + strings.Join(parts, "; ") + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Summary is the one-line status used by the watch UI.
func Summary(files []app.FileResult) string {
	counts := make(map[deps.Kind]int)
	for _, f := range files {
		for _, d := range f.Diagnostics {
			counts[d.Kind]++
		}
	}
	parts := make([]string, 0, len(counts))
	for _, k := range deps.Kinds() {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
		}
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, ", ")
}
