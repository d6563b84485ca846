package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func setAttendanceEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ATTENDANCE_SHIFT_START", "09:00")
	t.Setenv("ATTENDANCE_SHIFT_END", "17:00")
	t.Setenv("ATTENDANCE_GRACE_PERIOD", "10m")
	t.Setenv("ATTENDANCE_BREAK_DURATION", "30m")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RepositoryBackend != BackendMemory || cfg.SessionStore != BackendMemory || cfg.StorageBackend != BackendLocal {
		t.Fatalf("unexpected backends: repo=%s session=%s storage=%s", cfg.RepositoryBackend, cfg.SessionStore, cfg.StorageBackend)
	}
	if cfg.UploadMaxBytes != 4194304 {
		t.Fatalf("unexpected UploadMaxBytes: %d", cfg.UploadMaxBytes)
	}
	if cfg.OnboardingSessionTTL != 24*time.Hour {
		t.Fatalf("unexpected OnboardingSessionTTL: %s", cfg.OnboardingSessionTTL)
	}
	if !cfg.DBDisablePreparedBinary {
		t.Fatalf("expected DBDisablePreparedBinary=true by default")
	}
	if !cfg.AnubisCircuit.Enabled || cfg.AnubisCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected anubis circuit config: %+v", cfg.AnubisCircuit)
	}
	if cfg.AttendanceLocation == nil || cfg.AttendanceLocation.String() != "UTC" {
		t.Fatalf("unexpected attendance location: %v", cfg.AttendanceLocation)
	}
}

func TestLoad_AttendancePolicyIsRequired(t *testing.T) {
	keys := []string{
		"ATTENDANCE_SHIFT_START",
		"ATTENDANCE_SHIFT_END",
		"ATTENDANCE_GRACE_PERIOD",
		"ATTENDANCE_BREAK_DURATION",
	}
	for _, missing := range keys {
		t.Run(missing, func(t *testing.T) {
			setAttendanceEnv(t)
			t.Setenv(missing, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error when %s is empty", missing)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Fatalf("expected error to name %s, got %v", missing, err)
			}
		})
	}
}

func TestLoad_AttendancePolicyParsing(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("ATTENDANCE_SHIFT_START", "08:30")
	t.Setenv("ATTENDANCE_GRACE_PERIOD", "0s")
	t.Setenv("ATTENDANCE_TIMEZONE", "Asia/Jakarta")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AttendancePolicy.ShiftStart != 8*time.Hour+30*time.Minute {
		t.Fatalf("unexpected ShiftStart: %s", cfg.AttendancePolicy.ShiftStart)
	}
	if cfg.AttendancePolicy.GracePeriod != 0 {
		t.Fatalf("expected explicit zero grace period, got %s", cfg.AttendancePolicy.GracePeriod)
	}
	if cfg.AttendancePolicy.BreakDuration != 30*time.Minute {
		t.Fatalf("unexpected BreakDuration: %s", cfg.AttendancePolicy.BreakDuration)
	}
	if cfg.AttendanceLocation.String() != "Asia/Jakarta" {
		t.Fatalf("unexpected location: %s", cfg.AttendanceLocation)
	}
}

func TestLoad_AttendanceShiftMustNotCrossMidnight(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("ATTENDANCE_SHIFT_START", "22:00")
	t.Setenv("ATTENDANCE_SHIFT_END", "06:00")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for shift crossing midnight")
	}
}

func TestLoad_BackendChoices(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("REPOSITORY_BACKEND", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown REPOSITORY_BACKEND")
	}
}

func TestLoad_HTTPStorageRequiresBaseURL(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("STORAGE_BACKEND", "http")
	t.Setenv("STORAGE_HTTP_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_BACKEND=http without STORAGE_HTTP_BASE_URL")
	}
}

func TestLoad_AuditWebhookRequiresURLWhenEnabled(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("AUDIT_WEBHOOK_ENABLED", "true")
	t.Setenv("AUDIT_WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when AUDIT_WEBHOOK_ENABLED=true without AUDIT_WEBHOOK_URL")
	}
}

func TestLoad_CircuitValidation(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("AUDIT_WEBHOOK_CIRCUIT_FAILURE_COUNT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for AUDIT_WEBHOOK_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_UploadMIMETypesNormalized(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("UPLOAD_ALLOWED_MIME_TYPES", "image/PNG, image/jpg")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.UploadAllowedMIMETypes) != 2 || cfg.UploadAllowedMIMETypes[0] != "image/png" || cfg.UploadAllowedMIMETypes[1] != "image/jpeg" {
		t.Fatalf("unexpected mime types: %v", cfg.UploadAllowedMIMETypes)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setAttendanceEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`x-foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)
	if got != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", got)
	}
}
