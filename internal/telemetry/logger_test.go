package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterLoggerEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.Info("progress.complete", map[string]any{"challenge_id": 3, "points": 15})
	l.Error("sandbox.error", map[string]any{"err": "boom"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if first["msg"] != "progress.complete" || first["level"] != "info" {
		t.Fatalf("unexpected entry %#v", first)
	}
	if first["challenge_id"] != float64(3) {
		t.Fatalf("missing field: %#v", first)
	}
	if _, ok := first["time"]; !ok {
		t.Fatalf("missing timestamp: %#v", first)
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second["level"] != "error" || second["err"] != "boom" {
		t.Fatalf("unexpected entry %#v", second)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "webdojo.log")
	for i := 0; i < 2; i++ {
		l, err := NewJSONLogger(path)
		if err != nil {
			t.Fatal(err)
		}
		l.Info("app.start", nil)
		if err := l.Close(); err != nil {
			t.Fatal(err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "app.start"); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
}

func TestDiscardLoggerAndNilSafety(t *testing.T) {
	l, err := NewJSONLogger("")
	if err != nil {
		t.Fatal(err)
	}
	l.Info("x", map[string]any{"a": 1})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	var nilLogger *JSONLogger
	nilLogger.Info("x", nil)
	nilLogger.Error("x", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatal(err)
	}
}
