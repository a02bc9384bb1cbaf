package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestTextFormatFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&buf, "warn", "text"))
	defer SetDefault(nil)

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json")
	l.nowFn = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	SetDefault(l)
	defer SetDefault(nil)

	Error("fetch sales failed: %s", "boom")

	var line jsonLine
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line.Level != "error" {
		t.Errorf("expected level error, got %s", line.Level)
	}
	if line.Msg != "fetch sales failed: boom" {
		t.Errorf("unexpected msg %q", line.Msg)
	}
	if line.Time != "2025-01-02T03:04:05Z" {
		t.Errorf("unexpected time %q", line.Time)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	SetDefault(nil)
	Info("no logger configured")
}
