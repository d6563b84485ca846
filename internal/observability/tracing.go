package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/hr-admin/internal/config"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

// startTracing installs the global OpenTelemetry providers exporting to
// Uptrace. It reports whether tracing is active.
func startTracing(cfg config.Config, logger *logging.Logger) bool {
	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return false
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Warn("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return false
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(false),
	)
	logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	return true
}

func flushTracing(ctx context.Context) error {
	return uptrace.Shutdown(ctx)
}
