package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/role"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

// multipartOverhead is the body allowance on top of the image limit for
// multipart boundaries and headers.
const multipartOverhead int64 = 64 << 10

type HandlerOptions struct {
	UploadMaxBytes int64
	// AttendanceLocation is the zone used to read calendar dates in requests.
	AttendanceLocation *time.Location
}

type Handler struct {
	onboardingService *usecase.OnboardingService
	attendanceService *usecase.AttendanceService
	menuResolver      *role.MenuResolver
	uploadMaxBytes    int64
	location          *time.Location
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	onboardingService *usecase.OnboardingService,
	attendanceService *usecase.AttendanceService,
	menuResolver *role.MenuResolver,
	opts HandlerOptions,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if menuResolver == nil {
		menuResolver = role.NewMenuResolver(nil)
	}
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = asset.DefaultMaxBytes
	}
	if opts.AttendanceLocation == nil {
		opts.AttendanceLocation = time.UTC
	}

	return &Handler{
		onboardingService: onboardingService,
		attendanceService: attendanceService,
		menuResolver:      menuResolver,
		uploadMaxBytes:    opts.UploadMaxBytes,
		location:          opts.AttendanceLocation,
		logger:            logger,
		validator:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMenu")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	resolved, items, err := h.menuResolver.Resolve(string(principal.Role))
	if err != nil {
		h.logger.WarnContext(ctx, "resolve menu failed", "user_id", principal.UserID, "role", principal.Role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, menuDTO{
		Role:  string(resolved),
		Items: items,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) requirePrincipal(ctx context.Context, w http.ResponseWriter) (string, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok || principal.UserID == "" {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return "", false
	}
	return principal.UserID, true
}
