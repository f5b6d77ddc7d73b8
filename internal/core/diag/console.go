package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	verboseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8")).
			Faint(true)
)

// ConsoleSink prints one colored line per diagnostic, the way a terminal user
// expects to read them: "<url>, line <n>: error: <message>".
type ConsoleSink struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

func NewConsoleSink(w io.Writer, verbose bool) *ConsoleSink {
	return &ConsoleSink{w: w, verbose: verbose}
}

func (s *ConsoleSink) Error(location string, line int, format string, args ...any) {
	s.print(errorStyle, Entry{Severity: SeverityError, Location: location, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (s *ConsoleSink) Warning(location string, line int, format string, args ...any) {
	s.print(warningStyle, Entry{Severity: SeverityWarning, Location: location, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (s *ConsoleSink) Verbose(format string, args ...any) {
	if !s.verbose {
		return
	}
	s.print(verboseStyle, Entry{Severity: SeverityVerbose, Message: fmt.Sprintf(format, args...)})
}

func (s *ConsoleSink) print(style lipgloss.Style, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, style.Render(e.String()))
}
