package logging

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestLogger_InfoContextAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "onboarding step submitted", "session_id", "s-1", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
	if fields["session_id"] != "s-1" || fields["error"] != "boom" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestLogger_WithAndOddArgs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("component", "attendance")

	logger.Warn("dangling", "orphan")
	logger.Debug("filtered")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected debug entry to be filtered, got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "attendance" {
		t.Fatalf("expected inherited field, got %+v", fields)
	}
	if _, ok := fields["orphan"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %+v", fields)
	}
}

func TestLogger_NilReceiverUsesDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if Default() == nil {
		t.Fatalf("expected default logger")
	}
}

func TestLogger_MasksPersonalData(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Info("employee created",
		"work_email", "usman@corp.example.com",
		"phone", "+14155550100",
		"access_token", "secret-token",
		"username", "usman.ali",
	)

	fields := logs.All()[0].ContextMap()
	want := map[string]string{
		"work_email":   "u***@corp.example.com",
		"phone":        "***0100",
		"access_token": "[redacted]",
		"username":     "usman.ali",
	}
	for key, value := range want {
		if fields[key] != value {
			t.Fatalf("%s: got %v, want %q", key, fields[key], value)
		}
	}
}

func TestMaskValue_ShortValues(t *testing.T) {
	cases := []struct{ key, in, want string }{
		{"email", "not-an-email", "***"},
		{"phone", "123", "***"},
		{"token", "", ""},
		{"session_id", "s-1", "s-1"},
	}
	for _, tc := range cases {
		if got := maskValue(tc.key, tc.in); got != tc.want {
			t.Fatalf("maskValue(%q, %q)=%q, want %q", tc.key, tc.in, got, tc.want)
		}
	}
}
