package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"apidocgen/internal/core/diag"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelDocuments {
			m.mode = panelDiagnostics
		} else {
			m.mode = panelDocuments
		}
		return m, nil
	case "r":
		if m.running || m.rerun == nil {
			return m, nil
		}
		m.running = true
		m.status = ""
		return m, rerunCmd(m.rerun)
	}

	if m.mode == panelDocuments {
		if msg.String() == "enter" {
			return selectDocument(m), nil
		}
		var cmd tea.Cmd
		m.docList, cmd = m.docList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "backspace":
		m.mode = panelDocuments
		return m, nil
	case "v":
		m.showVerbose = !m.showVerbose
		m.diagList.SetItems(diagnosticItems(m.selectedDocument(), m.showVerbose))
		return m, nil
	case "o":
		target, ok := selectedSourceTarget(m)
		if !ok {
			m.status = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	var cmd tea.Cmd
	m.diagList, cmd = m.diagList.Update(msg)
	return m, cmd
}

func selectDocument(m model) model {
	if m.result == nil || len(m.result.Documents) == 0 {
		return m
	}
	idx := m.docList.Index()
	if idx < 0 || idx >= len(m.result.Documents) {
		idx = 0
	}
	m.selected = idx
	m.diagList.SetItems(diagnosticItems(m.selectedDocument(), m.showVerbose))
	m.diagList.ResetSelected()
	m.mode = panelDiagnostics
	return m
}

func rerunCmd(rerun func() error) tea.Cmd {
	return func() tea.Msg {
		return rerunDoneMsg{err: rerun()}
	}
}

type sourceTarget struct {
	file string
	line int
}

// selectedSourceTarget maps the highlighted diagnostic back to the local
// Markdown file. Remote sources have nothing to open.
func selectedSourceTarget(m model) (sourceTarget, bool) {
	doc := m.selectedDocument()
	if doc == nil || m.localDir == "" {
		return sourceTarget{}, false
	}
	file := filepath.Join(m.localDir, filepath.FromSlash(doc.Name))

	visible := make([]diag.Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.Severity == diag.SeverityVerbose && !m.showVerbose {
			continue
		}
		visible = append(visible, e)
	}
	line := 1
	if idx := m.diagList.Index(); idx >= 0 && idx < len(visible) && visible[idx].Line > 0 {
		line = visible[idx].Line
	}
	return sourceTarget{file: file, line: line}, true
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	args := []string{target.file}
	if strings.Contains(editor, "vim") || strings.Contains(editor, "nvim") || strings.HasSuffix(editor, "/vi") || editor == "vi" {
		args = []string{fmt.Sprintf("+%d", target.line), target.file}
	}
	cmd := exec.Command(editor, args...)
	label := fmt.Sprintf("%s:%d", target.file, target.line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}
