package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coreapp "apidocgen/internal/core/app"
	"apidocgen/internal/core/diag"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
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
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelDocuments panelMode = iota
	panelDiagnostics
)

type model struct {
	docList  list.Model
	diagList list.Model
	mode     panelMode

	result      *coreapp.Result
	selected    int
	showVerbose bool
	strict      bool
	localDir    string
	rerun       func() error
	running     bool
	lastUpdate  time.Time
	status      string
}

type updateMsg struct {
	result *coreapp.Result
}

type rerunDoneMsg struct {
	err error
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.docList.SetSize(width, height)
		m.diagList.SetSize(width, height)
	case updateMsg:
		m.result = msg.result
		m.lastUpdate = time.Now()
		m.running = false
		if m.result == nil || m.selected >= len(m.result.Documents) {
			m.selected = 0
		}
		m.docList.SetItems(documentItems(m.result))
		m.diagList.SetItems(diagnosticItems(m.selectedDocument(), m.showVerbose))
	case rerunDoneMsg:
		m.running = false
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Run failed: %v", msg.err))
		} else {
			m.status = statusStyle.Render("Run complete.")
		}
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.status = statusStyle.Render(fmt.Sprintf("Source jump failed: %v", msg.err))
		} else {
			m.status = statusStyle.Render(fmt.Sprintf("Opened source: %s", msg.target))
		}
	}

	var cmd tea.Cmd
	if m.mode == panelDocuments {
		m.docList, cmd = m.docList.Update(msg)
	} else {
		m.diagList, cmd = m.diagList.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("API Declaration Generator"), renderStatusLine(m), renderSummary(m))
	help := renderHelp(m)

	body := m.docList.View()
	if m.mode == panelDiagnostics {
		body = renderDiagnosticsPanel(m)
	}
	if m.status != "" {
		body += "\n\n" + m.status
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func (m model) selectedDocument() *coreapp.DocumentResult {
	if m.result == nil || m.selected < 0 || m.selected >= len(m.result.Documents) {
		return nil
	}
	return &m.result.Documents[m.selected]
}

func documentItems(res *coreapp.Result) []list.Item {
	if res == nil {
		return []list.Item{}
	}
	items := make([]list.Item, 0, len(res.Documents))
	for _, d := range res.Documents {
		desc := fmt.Sprintf("%d errors, %d warnings, %d patches", d.Errors, d.Warnings, d.Patches)
		if d.Err != nil {
			desc = "load failed: " + d.Err.Error()
		}
		items = append(items, item{title: d.Name, desc: desc})
	}
	return items
}

func diagnosticItems(doc *coreapp.DocumentResult, verbose bool) []list.Item {
	if doc == nil {
		return []list.Item{}
	}
	items := make([]list.Item, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.Severity == diag.SeverityVerbose && !verbose {
			continue
		}
		title := e.Severity.String()
		if e.Severity != diag.SeverityVerbose {
			title = fmt.Sprintf("%s (line %d)", e.Severity, e.Line)
		}
		items = append(items, item{title: title, desc: e.Message})
	}
	return items
}

func initialModel(localDir string, strict bool, rerun func() error) model {
	docList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	docList.Title = "Documents"
	docList.SetShowStatusBar(false)
	docList.SetFilteringEnabled(true)

	diagList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	diagList.Title = "Diagnostics"
	diagList.SetShowStatusBar(false)
	diagList.SetFilteringEnabled(true)

	return model{
		docList:    docList,
		diagList:   diagList,
		mode:       panelDocuments,
		strict:     strict,
		localDir:   localDir,
		rerun:      rerun,
		running:    true,
		lastUpdate: time.Now(),
	}
}
