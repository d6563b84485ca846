package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

const imageFormField = "file"

func (h *Handler) StartOnboardingSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartOnboardingSession")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	session, err := h.onboardingService.StartSession(ctx, ownerID)
	if err != nil {
		h.logger.WarnContext(ctx, "start onboarding session failed", "user_id", ownerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, onboardingSessionToDTO(session))
}

func (h *Handler) GetOnboardingSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOnboardingSession")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.onboardingService.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingSessionToDTO(session))
}

func (h *Handler) SubmitOnboardingStep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitOnboardingStep")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	rawStep := r.PathValue("step")
	step, err := onboarding.ParseStep(rawStep)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fields, err := decodeStepFields(r.Body, step)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.onboardingService.SubmitStep(ctx, usecase.SubmitStepInput{
		OwnerID:   ownerID,
		SessionID: sessionID,
		Step:      rawStep,
		Fields:    fields,
	})
	if err != nil {
		h.logger.InfoContext(ctx, "submit onboarding step rejected", "session_id", sessionID, "step", step, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingSessionToDTO(session))
}

// decodeStepFields reads the field set for steps that collect data. Review
// and submitted take no body; the machine rejects them on its own.
func decodeStepFields(body io.Reader, step onboarding.Step) (onboarding.StepFields, error) {
	decode := func(target any) error {
		decoder := sonic.ConfigDefault.NewDecoder(body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(target); err != nil {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
		return nil
	}

	switch step {
	case onboarding.StepPersonal:
		var req onboarding.PersonalInfo
		if err := decode(&req); err != nil {
			return nil, err
		}
		return req, nil
	case onboarding.StepProfessional:
		var req onboarding.ProfessionalInfo
		if err := decode(&req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, nil
	}
}

func (h *Handler) AttachOnboardingImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AttachOnboardingImage")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.uploadMaxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: request body exceeds %d bytes", usecase.ErrInvalidInput, tooLarge.Limit))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: form field %q is required", usecase.ErrInvalidInput, imageFormField))
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the pipeline to reject it.
	data, err := io.ReadAll(io.LimitReader(file, h.uploadMaxBytes+1))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read uploaded file: %v", usecase.ErrInvalidInput, err))
		return
	}

	session, uploaded, err := h.onboardingService.AttachImage(ctx, usecase.AttachImageInput{
		OwnerID:   ownerID,
		SessionID: sessionID,
		Data:      data,
		MIMEType:  header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "attach onboarding image failed", "session_id", sessionID, "filename", header.Filename, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, attachImageDTO{
		Session: onboardingSessionToDTO(session),
		Image:   uploaded,
	})
}

func (h *Handler) GoBackOnboardingStep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GoBackOnboardingStep")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.onboardingService.GoBack(ctx, ownerID, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingSessionToDTO(session))
}

func (h *Handler) FinalizeOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeOnboarding")
	defer span.End()

	ownerID, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	created, session, err := h.onboardingService.Finalize(ctx, ownerID, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize onboarding failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, finalizeOnboardingDTO{
		Employee: employeeToDTO(created),
		Session:  onboardingSessionToDTO(session),
	})
}
