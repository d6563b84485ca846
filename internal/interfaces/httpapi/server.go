package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

// RouterOptions carries the router settings that do not come from Handler.
type RouterOptions struct {
	CORSAllowedOrigins []string
	// FilesDir is served under /files/ when set, for the local disk storage backend.
	FilesDir string
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	opts RouterOptions,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.FilesDir)
	registerAuthorizedRoutes(mux, handler, verifier)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func filesHandler(dir string) http.Handler {
	return http.StripPrefix("/files/", http.FileServer(http.Dir(strings.TrimSpace(dir))))
}
