package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteEmitsFlatJSON(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("fmla.test", map[string]any{
		"err":   errors.New("boom"),
		"pages": 3,
		"level": "ignored",
	})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("reserved level key must not be overridden, got %v", payload["level"])
	}
	if payload["msg"] != "fmla.test" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", payload["err"])
	}
	if payload["pages"] != float64(3) {
		t.Fatalf("unexpected pages: %v", payload["pages"])
	}
}

func TestWriteOneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("a", nil)
	Error("b", map[string]any{"x": "y"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}
