package output

import (
	"fmt"
	"strings"
)

// Writer builds tab-indented text. Indentation is written lazily at the
// start of a line, so blank lines carry no trailing tabs.
type Writer struct {
	b         strings.Builder
	level     int
	lineStart bool
}

func NewWriter() *Writer {
	return &Writer{lineStart: true}
}

func (w *Writer) writeIndentation() {
	if !w.lineStart {
		return
	}
	w.lineStart = false
	if w.level > 0 {
		w.b.WriteString(strings.Repeat("\t", w.level))
	}
}

func (w *Writer) Write(text string) {
	w.writeIndentation()
	w.b.WriteString(text)
}

func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

func (w *Writer) WriteLine(text string) {
	if text != "" {
		w.writeIndentation()
		w.b.WriteString(text)
	}
	w.b.WriteByte('\n')
	w.lineStart = true
}

func (w *Writer) WriteLinef(format string, args ...any) {
	w.WriteLine(fmt.Sprintf(format, args...))
}

func (w *Writer) Indent() {
	w.level++
}

func (w *Writer) Unindent() {
	if w.level > 0 {
		w.level--
	}
}

func (w *Writer) String() string {
	return w.b.String()
}
