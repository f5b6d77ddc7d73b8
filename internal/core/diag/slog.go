package diag

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogSink writes diagnostics to a structured logger: errors at Error,
// warnings at Warn and verbose messages at Debug.
type SlogSink struct {
	Logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) Error(location string, line int, format string, args ...any) {
	s.Logger.Error(fmt.Sprintf(format, args...), "url", location, "line", line)
}

func (s *SlogSink) Warning(location string, line int, format string, args ...any) {
	s.Logger.Warn(fmt.Sprintf(format, args...), "url", location, "line", line)
}

func (s *SlogSink) Verbose(format string, args ...any) {
	if !s.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.Logger.Debug(fmt.Sprintf(format, args...))
}
