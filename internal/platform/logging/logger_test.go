package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%s want=%s", raw, got, want)
		}
	}
}

func TestLogger_FieldsAndErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("scoring").With("fixture_id", "GW1-ARS-CHE")

	logger.WarnContext(context.Background(), "skip unscorable prediction", "prediction_id", "u1_GW1-ARS-CHE_GW1", "error", errors.New("invalid goal count"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got=%d want=1", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "scoring" {
		t.Fatalf("unexpected logger name %q", entry.LoggerName)
	}
	fields := entry.ContextMap()
	if fields["fixture_id"] != "GW1-ARS-CHE" || fields["prediction_id"] != "u1_GW1-ARS-CHE_GW1" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["error"] != "invalid goal count" {
		t.Fatalf("expected error field, got %+v", fields["error"])
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("no panic")
	if logger.Enabled(LevelError) {
		t.Fatalf("nil logger must report disabled")
	}
}

func TestLogger_MixedArgs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Info("batch committed", zap.Int("awards", 3), "fixture_id", "GW2-LIV-MCI", 42, "odd", "dangling")
	logger.Debug("filtered out")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["awards"] != int64(3) || fields["fixture_id"] != "GW2-LIV-MCI" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if fields["arg"] != "odd" {
		t.Fatalf("non-string key should log as arg, got %+v", fields)
	}
	if v, ok := fields["dangling"]; !ok || v != nil {
		t.Fatalf("dangling key should log nil, got %+v", fields)
	}
}
