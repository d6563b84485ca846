package httpapi

import (
	"net/http"
	"strings"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, filesDir string) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if strings.TrimSpace(filesDir) == "" {
		return
	}

	mux.Handle("GET /files/", filesHandler(filesDir))
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedOnboardingRoutes(mux, handler, verifier)
	registerAuthorizedAttendanceRoutes(mux, handler, verifier)
	registerAuthorizedMenuRoutes(mux, handler, verifier)
}

func registerAuthorizedOnboardingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/onboarding/sessions", RequireAuth(verifier, http.HandlerFunc(handler.StartOnboardingSession)))
	mux.Handle("GET /v1/onboarding/sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.GetOnboardingSession)))
	mux.Handle("PUT /v1/onboarding/sessions/{sessionID}/steps/{step}", RequireAuth(verifier, http.HandlerFunc(handler.SubmitOnboardingStep)))
	mux.Handle("POST /v1/onboarding/sessions/{sessionID}/image", RequireAuth(verifier, http.HandlerFunc(handler.AttachOnboardingImage)))
	mux.Handle("POST /v1/onboarding/sessions/{sessionID}/back", RequireAuth(verifier, http.HandlerFunc(handler.GoBackOnboardingStep)))
	mux.Handle("POST /v1/onboarding/sessions/{sessionID}/finalize", RequireAuth(verifier, http.HandlerFunc(handler.FinalizeOnboarding)))
}

func registerAuthorizedAttendanceRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/employees/{employeeID}/attendance", RequireAuth(verifier, http.HandlerFunc(handler.ListEmployeeAttendance)))
	mux.Handle("POST /v1/attendance/classify", RequireAuth(verifier, http.HandlerFunc(handler.ClassifyAttendance)))
}

func registerAuthorizedMenuRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/menu", RequireAuth(verifier, http.HandlerFunc(handler.GetMenu)))
}
