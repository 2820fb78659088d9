package logging

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var b strings.Builder
	l := New(LevelWarn)
	l.SetOutput(&b)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn")
	l.Error("shown error")

	out := b.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low-level messages leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown warn") || !strings.Contains(out, "[ERROR] shown error") {
		t.Errorf("missing expected lines: %q", out)
	}
}

func TestLogger_Formatting(t *testing.T) {
	var b strings.Builder
	l := New(LevelDebug)
	l.SetOutput(&b)

	l.Info("aircraft refresh: %d in range", 7)

	if !strings.Contains(b.String(), "aircraft refresh: 7 in range") {
		t.Errorf("format args not applied: %q", b.String())
	}
}

func TestDiscard(t *testing.T) {
	var b strings.Builder
	l := Discard()
	l.SetOutput(&b)

	l.Error("should not appear")

	if b.Len() != 0 {
		t.Errorf("discard logger wrote %q", b.String())
	}
}
