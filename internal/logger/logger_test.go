package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitWriter_FiltersBelowLevel(t *testing.T) {
	t.Setenv("DEBUG", "")
	prev := Logger
	defer func() { Logger = prev; slog.SetDefault(prev) }()

	var buf bytes.Buffer
	InitWriter(&buf, "warn")

	Info("hidden")
	Warn("shown", "articles", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "articles=3") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestWith_AddsAttributes(t *testing.T) {
	t.Setenv("DEBUG", "")
	prev := Logger
	defer func() { Logger = prev; slog.SetDefault(prev) }()

	var buf bytes.Buffer
	InitWriter(&buf, "info")

	With("run_id", "abc").Info("done")

	if !strings.Contains(buf.String(), "run_id=abc") {
		t.Errorf("run_id attribute missing: %q", buf.String())
	}
}
