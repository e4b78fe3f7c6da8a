package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"padded value", "  error ", slog.LevelError},
		{"invalid level", "LOUD", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	original, had := os.LookupEnv(LevelEnvVar)
	defer func() {
		if had {
			os.Setenv(LevelEnvVar, original)
		} else {
			os.Unsetenv(LevelEnvVar)
		}
	}()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(LevelEnvVar, tt.envValue)
			if level := getLogLevelFromEnv(); level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestRunID(t *testing.T) {
	t.Run("generated IDs are unique hex", func(t *testing.T) {
		id1 := GenerateRunID()
		id2 := GenerateRunID()
		if id1 == id2 {
			t.Error("GenerateRunID() returned duplicate IDs")
		}
		if len(id1) != 16 {
			t.Errorf("GenerateRunID() length = %d, want 16", len(id1))
		}
	})

	t.Run("explicit ID round trips", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-42")
		if got := GetRunID(ctx); got != "run-42" {
			t.Errorf("GetRunID() = %q, want %q", got, "run-42")
		}
	})

	t.Run("empty ID is generated", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "")
		if got := GetRunID(ctx); len(got) != 16 {
			t.Errorf("generated run ID %q has length %d, want 16", got, len(got))
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		if got := GetRunID(context.Background()); got != "" {
			t.Errorf("GetRunID() = %q, want empty", got)
		}
	})
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		expected string
	}{
		{"token in asset url", slog.String("asset_token", "abc"), "[REDACTED]"},
		{"authorization header", slog.String("Authorization", "Bearer x"), "[REDACTED]"},
		{"texture path", slog.String("path", "img/earth.jpg"), "img/earth.jpg"},
		{"body name", slog.String("body", "saturn"), "saturn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeAttributes(nil, tt.attr)
			if result.Value.String() != tt.expected {
				t.Errorf("sanitizeAttributes() = %q, want %q", result.Value.String(), tt.expected)
			}
		})
	}
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log JSON %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithRunID(context.Background(), "run-123")

	t.Run("info carries run id", func(t *testing.T) {
		buf.Reset()
		logger.Info(ctx, "scene assembled", "bodies", 9)

		entry := decodeEntry(t, &buf)
		if entry["msg"] != "scene assembled" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["level"] != "INFO" {
			t.Errorf("level = %v, want INFO", entry["level"])
		}
		if entry["run_id"] != "run-123" {
			t.Errorf("run_id = %v, want run-123", entry["run_id"])
		}
		if entry["bodies"] != float64(9) {
			t.Errorf("bodies = %v, want 9", entry["bodies"])
		}
	})

	t.Run("error records the error", func(t *testing.T) {
		buf.Reset()
		logger.Error(ctx, "texture decode failed", errors.New("bad header"), "path", "img/mars.jpg")

		entry := decodeEntry(t, &buf)
		if entry["level"] != "ERROR" {
			t.Errorf("level = %v, want ERROR", entry["level"])
		}
		if entry["error"] != "bad header" {
			t.Errorf("error = %v, want bad header", entry["error"])
		}
	})

	t.Run("warn and debug levels", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "w")
		if entry := decodeEntry(t, &buf); entry["level"] != "WARN" {
			t.Errorf("level = %v, want WARN", entry["level"])
		}
		buf.Reset()
		logger.Debug(ctx, "d")
		if entry := decodeEntry(t, &buf); entry["level"] != "DEBUG" {
			t.Errorf("level = %v, want DEBUG", entry["level"])
		}
	})

	t.Run("component tag", func(t *testing.T) {
		buf.Reset()
		logger.WithComponent("asset").Info(ctx, "queued")
		if entry := decodeEntry(t, &buf); entry["component"] != "asset" {
			t.Errorf("component = %v, want asset", entry["component"])
		}
	})
}

func TestLogWithoutRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo)

	logger.Info(context.Background(), "frame")
	if strings.Contains(buf.String(), "run_id") {
		t.Error("log should not contain run_id when none is set")
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	logger := Discard()
	// Must not panic and has nowhere to write.
	logger.Error(context.Background(), "ignored", errors.New("x"))
}

func TestWrapError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if err := WrapError(nil, "context"); err != nil {
			t.Errorf("WrapError(nil) = %v, want nil", err)
		}
	})

	t.Run("formatted context keeps the cause", func(t *testing.T) {
		cause := errors.New("no such file")
		wrapped := WrapError(cause, "load texture %q", "earth.jpg")

		if wrapped.Error() != `load texture "earth.jpg": no such file` {
			t.Errorf("WrapError() = %q", wrapped.Error())
		}
		if !errors.Is(wrapped, cause) {
			t.Error("WrapError() should preserve the cause")
		}
	})
}
