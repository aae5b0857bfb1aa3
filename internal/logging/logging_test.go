package logging

import (
	"log/slog"
	"testing"

	"github.com/park285/armourmail-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewLoggerRejectsInvalidFileConfig(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{
		Level:  "info",
		LogDir: t.TempDir(),
	})
	if err == nil {
		t.Fatalf("expected error for zero rotation settings")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{
		Level:      "debug",
		LogDir:     t.TempDir(),
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger == nil {
		t.Fatalf("logger is nil")
	}
}
