package jsonlog

import (
	"encoding/json"
	"io"
	"log"
	"time"
)

// Logger writes one JSON object per line. A nil *Logger discards.
type Logger struct {
	base *log.Logger
	now  func() time.Time
}

func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{base: log.New(w, "", 0), now: time.Now}
}

func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit("INFO", msg, fields)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.emit("WARN", msg, fields)
}

func (l *Logger) Error(msg string, fields map[string]any) {
	l.emit("ERROR", msg, fields)
}

func (l *Logger) emit(level, msg string, fields map[string]any) {
	if l == nil {
		return
	}
	m := make(map[string]any, 3+len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		m[k] = v
	}
	m["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	m["level"] = level
	m["msg"] = msg
	b, err := json.Marshal(m)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"ts": m["ts"], "level": level, "msg": msg, "log_error": err.Error()})
	}
	l.base.Print(string(b))
}
