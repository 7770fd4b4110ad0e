package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	l.Error("chat_request_failed", map[string]any{"status": 502, "err": errors.New("boom")})

	line := strings.TrimSpace(buf.String())
	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("line is not json: %q: %v", line, err)
	}
	if got["level"] != "ERROR" || got["msg"] != "chat_request_failed" {
		t.Fatalf("unexpected header fields: %v", got)
	}
	if got["err"] != "boom" || got["status"] != float64(502) {
		t.Fatalf("unexpected fields: %v", got)
	}
	if got["ts"] != "2026-03-01T09:00:00Z" {
		t.Fatalf("unexpected ts: %v", got["ts"])
	}
}

func TestReservedFieldsWin(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Info("started", map[string]any{"msg": "shadow", "level": "DEBUG"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["msg"] != "started" || got["level"] != "INFO" {
		t.Fatalf("reserved fields overwritten: %v", got)
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	l.Info("ignored", nil)
	l.Warn("ignored", nil)
}

func TestUnencodableFieldStillLogs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Warn("odd", map[string]any{"ch": make(chan int)})
	if !strings.Contains(buf.String(), `"log_error"`) {
		t.Fatalf("expected log_error fallback, got %q", buf.String())
	}
}
