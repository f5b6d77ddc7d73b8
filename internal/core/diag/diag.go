// Package diag carries parser diagnostics from the core to whatever reports
// them. The core only ever talks to a Sink; it never aborts on a diagnostic.
package diag

import (
	"fmt"
	"sync"
)

type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "verbose"
	}
}

// Entry is one recorded diagnostic. Line is 1-based, or 0 when the message is
// not tied to a source line.
type Entry struct {
	Severity Severity
	Location string
	Line     int
	Message  string
}

func (e Entry) String() string {
	if e.Severity == SeverityVerbose {
		return e.Message
	}
	return fmt.Sprintf("%s, line %d: %s: %s", e.Location, e.Line, e.Severity, e.Message)
}

type Sink interface {
	Error(location string, line int, format string, args ...any)
	Warning(location string, line int, format string, args ...any)
	Verbose(format string, args ...any)
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Error(string, int, string, ...any)   {}
func (discard) Warning(string, int, string, ...any) {}
func (discard) Verbose(string, ...any)              {}

// Collector records diagnostics for a single document and optionally forwards
// them. One Collector per parse keeps error attribution per document.
type Collector struct {
	mu       sync.Mutex
	entries  []Entry
	errors   int
	warnings int
	next     Sink
}

func NewCollector(next Sink) *Collector {
	if next == nil {
		next = Discard
	}
	return &Collector{next: next}
}

func (c *Collector) Error(location string, line int, format string, args ...any) {
	c.record(Entry{Severity: SeverityError, Location: location, Line: line, Message: fmt.Sprintf(format, args...)})
	c.next.Error(location, line, format, args...)
}

func (c *Collector) Warning(location string, line int, format string, args ...any) {
	c.record(Entry{Severity: SeverityWarning, Location: location, Line: line, Message: fmt.Sprintf(format, args...)})
	c.next.Warning(location, line, format, args...)
}

func (c *Collector) Verbose(format string, args ...any) {
	c.record(Entry{Severity: SeverityVerbose, Message: fmt.Sprintf(format, args...)})
	c.next.Verbose(format, args...)
}

func (c *Collector) record(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch e.Severity {
	case SeverityError:
		c.errors++
	case SeverityWarning:
		c.warnings++
	}
	c.entries = append(c.entries, e)
}

// Entries returns a copy of everything recorded so far, in order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Filter returns the recorded entries at or above min.
func (c *Collector) Filter(min Severity) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, c.errors+c.warnings)
	for _, e := range c.entries {
		if e.Severity >= min {
			out = append(out, e)
		}
	}
	return out
}

func (c *Collector) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

func (c *Collector) WarningCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warnings
}

func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}
