package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-hello/framework/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"INFO", zap.InfoLevel},
		{"debug", zap.DebugLevel},
		{"  warn  ", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"verbose", zap.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in).Level(); got != tt.expect {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.expect)
		}
	}
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "CONSOLE"} {
		logger, err := New(config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("New(format=%q) error = %v", format, err)
		}
		if logger.Core().Enabled(zap.InfoLevel) {
			t.Errorf("format %q: info should be disabled at warn level", format)
		}
		_ = logger.Sync() // best-effort; can fail on /dev/stderr in test env
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(config.LogConfig{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
