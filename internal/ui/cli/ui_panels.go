package cli

import (
	"fmt"
	"strings"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter diagnostics | r re-run | q quit"
	if m.mode == panelDiagnostics {
		keys = "Keys: tab panel | / filter | esc back | v verbose | o open source | r re-run | q quit"
	}
	return statusStyle.Render(keys)
}

func renderStatusLine(m model) string {
	if m.running {
		return statusStyle.Render("Running...")
	}
	if m.result == nil {
		return statusStyle.Render("Waiting for first run")
	}
	return statusStyle.Render(fmt.Sprintf("Last update: %s | %d documents | run %s",
		m.lastUpdate.Format("15:04:05"), len(m.result.Documents), shortID(m.result.RunID)))
}

func renderSummary(m model) string {
	if m.result == nil {
		return ""
	}
	errs, warns := m.result.ErrorCount(), m.result.WarningCount()
	if errs == 0 && (warns == 0 || !m.strict) {
		clean := successStyle.Render("Declarations Clean")
		if warns > 0 {
			clean += " | " + warningStyle.Render(fmt.Sprintf("%d warnings", warns))
		}
		return clean
	}
	parts := []string{
		errorStyle.Render(fmt.Sprintf("%d errors", errs)),
		warningStyle.Render(fmt.Sprintf("%d warnings", warns)),
	}
	if m.result.SyntaxIssues > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d syntax issues", m.result.SyntaxIssues)))
	}
	if !m.result.Emitted {
		parts = append(parts, errorStyle.Render("outputs not written"))
	}
	return strings.Join(parts, " | ")
}

func renderDiagnosticsPanel(m model) string {
	doc := m.selectedDocument()
	if doc == nil {
		return statusStyle.Render("No document selected.")
	}
	lines := []string{
		fmt.Sprintf("Document: %s", doc.Name),
		fmt.Sprintf("  URL: %s", doc.URL),
	}
	if doc.Err != nil {
		lines = append(lines, errorStyle.Render("  Load failed: "+doc.Err.Error()))
	} else if doc.Output != nil {
		out := doc.Output
		lines = append(lines, fmt.Sprintf("  %s (%s): %d methods, %d properties, %d events, %d data types",
			out.Name, out.Mode, len(out.Methods), len(out.Properties), len(out.Events), len(out.DataTypes)))
	}
	return strings.Join(lines, "\n") + "\n\n" + m.diagList.View()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
