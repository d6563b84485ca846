package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/hr-admin/internal/config"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

// Telemetry holds the process-wide tracing and profiling hooks started for
// the API. Each hook is optional and controlled by config.
type Telemetry struct {
	logger   *logging.Logger
	tracing  bool
	profiler *pyroscope.Profiler
	pprof    *http.Server
}

// Start brings up tracing, the profiler and the pprof server in that order.
// Hooks already started are stopped on error.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	t.tracing = startTracing(cfg, logger)

	profiler, err := startProfiler(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	t.profiler = profiler

	t.pprof = startPprofServer(cfg, logger)
	return t, nil
}

// Shutdown stops the debug server and profiler, then flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if t.pprof != nil {
		if err := t.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pprof server shutdown: %w", err))
		}
		t.pprof = nil
	}
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
		t.profiler = nil
	}
	if t.tracing {
		if err := flushTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
		t.tracing = false
	}

	if len(errs) == 0 {
		t.logger.Info("telemetry stopped")
	}
	return errors.Join(errs...)
}
