package cli

import (
	"fmt"
	coreapp "hookdeps/internal/core/app"
	"hookdeps/internal/ui/report/formats"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	problemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	failed      bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	files      []coreapp.FileResult
	lastUpdate time.Time
	problems   int
	notes      int
	failed     int
}

type updateMsg struct {
	files []coreapp.FileResult
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.list.FilterState() != list.Filtering) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.files = msg.files
		m.lastUpdate = time.Now()
		m.problems, m.notes, m.failed = 0, 0, 0

		items := []list.Item{}
		for _, f := range m.files {
			if f.Err != nil {
				m.failed++
				items = append(items, item{title: "Lint failed: " + f.Path, desc: f.Err.Error(), failed: true})
				continue
			}
			for _, d := range f.Diagnostics {
				if d.Kind.Informational() {
					m.notes++
				} else {
					m.problems++
				}
				items = append(items, item{
					title: fmt.Sprintf("%s:%d:%d %s", filepath.ToSlash(f.Path), d.Span.Pos.Line, d.Span.Pos.Column, d.Kind),
					desc:  d.Message,
				})
			}
		}
		cmd := m.list.SetItems(items)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %s",
		m.lastUpdate.Format("15:04:05"), len(m.files), formats.Summary(m.files)))

	var summary string
	if m.problems == 0 && m.notes == 0 && m.failed == 0 {
		summary = successStyle.Render("✅ Dependencies Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			problemStyle.Render(fmt.Sprintf("%d Problems", m.problems)),
			noteStyle.Render(fmt.Sprintf("%d Notes", m.notes)))
		if m.failed > 0 {
			summary += " | " + problemStyle.Render(fmt.Sprintf("%d Failed", m.failed))
		}
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("React Hook Dependency Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Hook Diagnostics"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// uiRunner owns the bubbletea program of a watch session.
type uiRunner struct {
	program *tea.Program
}

func newUIRunner() *uiRunner {
	return &uiRunner{program: tea.NewProgram(initialModel(), tea.WithAltScreen())}
}

func (r *uiRunner) send(u coreapp.WatchUpdate) {
	r.program.Send(updateMsg{files: u.Files})
}

func (r *uiRunner) run() error {
	_, err := r.program.Run()
	return err
}
