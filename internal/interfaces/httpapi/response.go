package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	"github.com/riskibarqy/hr-admin/internal/domain/role"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "hr-admin"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain   string `json:"domain"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(payload); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Reason)
	}
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  errorItems(mapped, err),
		},
	})
}

// errorItems lists one item per rejected field when err carries field
// errors, otherwise a single item for the whole request.
func errorItems(mapped mappedError, err error) []googleErrorItem {
	var validationErr *onboarding.ValidationFailedError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		items := make([]googleErrorItem, 0, len(validationErr.Fields))
		for _, field := range validationErr.Fields {
			items = append(items, googleErrorItem{
				Domain:   errorDomain,
				Reason:   mapped.Reason,
				Message:  field.Message,
				Location: field.Field,
			})
		}
		return items
	}

	return []googleErrorItem{
		{
			Domain:  errorDomain,
			Reason:  mapped.Reason,
			Message: err.Error(),
		},
	}
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// errorMappings is checked in order; the first entry whose target matches
// wins, so field-carrying errors sit before the generic ones.
var errorMappings = []struct {
	targets []error
	mapped  mappedError
}{
	{[]error{onboarding.ErrValidationFailed}, mappedError{http.StatusBadRequest, "validationFailed", "INVALID_ARGUMENT"}},
	{[]error{asset.ErrAssetRejected}, mappedError{http.StatusBadRequest, "assetRejected", "INVALID_ARGUMENT"}},
	{[]error{attendance.ErrInvalidRecord}, mappedError{http.StatusBadRequest, "invalidRecord", "INVALID_ARGUMENT"}},
	{[]error{usecase.ErrInvalidInput, onboarding.ErrUnknownStep}, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{[]error{onboarding.ErrStepOutOfOrder}, mappedError{http.StatusConflict, "stepOutOfOrder", "FAILED_PRECONDITION"}},
	{[]error{onboarding.ErrAlreadySubmitted}, mappedError{http.StatusConflict, "alreadySubmitted", "FAILED_PRECONDITION"}},
	{[]error{usecase.ErrConflict}, mappedError{http.StatusConflict, "conflict", "ALREADY_EXISTS"}},
	{[]error{usecase.ErrNotFound}, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{[]error{usecase.ErrUnauthorized}, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{[]error{role.ErrUnknownRole}, mappedError{http.StatusForbidden, "unknownRole", "PERMISSION_DENIED"}},
	{[]error{asset.ErrStorageUnavailable, usecase.ErrDependencyUnavailable}, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				return m.mapped
			}
		}
	}
	return mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}
}
