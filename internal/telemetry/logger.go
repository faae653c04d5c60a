package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger is the event sink the app writes to. Fields become JSON keys.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type JSONLogger struct {
	l *clog.Logger
	w io.WriteCloser
}

// NewJSONLogger appends JSON lines to path. An empty path discards events.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return newJSONLogger(nopCloser{Writer: io.Discard}), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return newJSONLogger(f), nil
}

// NewWriterLogger logs to w without taking ownership of it.
func NewWriterLogger(w io.Writer) *JSONLogger {
	return newJSONLogger(nopCloser{Writer: w})
}

func newJSONLogger(w io.WriteCloser) *JSONLogger {
	l := clog.NewWithOptions(w, clog.Options{
		Formatter:       clog.JSONFormatter,
		Level:           clog.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
	})
	return &JSONLogger{l: l, w: w}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Info(msg, keyvals(fields)...)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Error(msg, keyvals(fields)...)
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// keyvals flattens fields in key order so lines are stable.
func keyvals(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
