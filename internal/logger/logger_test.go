package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"fatal", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromCore(core).With(String("session", "abc"))

	log.Warn("turn failed", Error(errors.New("boom")), Int("attempt", 2))
	log.Debugf("plain %s", "text")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["session"] != "abc" || ctx["error"] != "boom" || ctx["attempt"] != int64(2) {
		t.Errorf("context = %v", ctx)
	}
	if entries[1].Message != "plain text" {
		t.Errorf("message = %q", entries[1].Message)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Info("ignored", Bool("ok", true))
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
}
