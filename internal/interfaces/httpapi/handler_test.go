package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	"github.com/riskibarqy/hr-admin/internal/domain/role"
	"github.com/riskibarqy/hr-admin/internal/domain/user"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hr-admin/internal/infrastructure/session/memorystore"
	idgen "github.com/riskibarqy/hr-admin/internal/platform/id"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type echoUploader struct{}

func (echoUploader) Upload(_ context.Context, data []byte, declaredMIME string) (asset.UploadedAsset, error) {
	if declaredMIME != "image/png" {
		return asset.UploadedAsset{}, fmt.Errorf("%w: content type %q is not allowed", asset.ErrAssetRejected, declaredMIME)
	}
	return asset.UploadedAsset{
		URL:       "https://files.example.com/profile-images/obj-1.png",
		SizeBytes: int64(len(data)),
		MIMEType:  declaredMIME,
	}, nil
}

type testEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       map[string]any   `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithOptions(t, RouterOptions{})
}

func newTestRouterWithOptions(t *testing.T, opts RouterOptions) http.Handler {
	t.Helper()

	validator := onboarding.NewStepValidator(onboarding.Rules{
		Genders:  onboarding.DefaultGenders(),
		JobTypes: []string{"Full-time", "Part-time"},
	})
	onboardingService := usecase.NewOnboardingService(
		memorystore.NewSessionStore(time.Hour),
		validator,
		echoUploader{},
		memory.NewEmployeeRepository(nil),
		nil,
		idgen.NewSequence("id"),
		time.Hour,
		logging.NewNop(),
	)

	classifier, err := attendance.NewClassifier(attendance.Policy{
		ShiftStart:    9 * time.Hour,
		ShiftEnd:      17 * time.Hour,
		GracePeriod:   10 * time.Minute,
		BreakDuration: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	attendanceService := usecase.NewAttendanceService(
		memory.NewAttendanceRepository(memory.SeedAttendance(time.UTC)),
		classifier,
		2,
		logging.NewNop(),
	)

	handler := NewHandler(onboardingService, attendanceService, role.NewMenuResolver(nil), HandlerOptions{}, logging.NewNop())
	verifier := staticVerifier{
		"token-hr":      {UserID: "user-hr", Role: role.RoleHR},
		"token-other":   {UserID: "user-other", Role: role.RoleEmployee},
		"token-unknown": {UserID: "user-x", Role: role.Role("intern")},
	}
	return NewRouter(handler, verifier, logging.NewNop(), opts)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body []byte, contentType string) (int, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope testEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal %s %s response: %v (body=%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, envelope
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) (int, testEnvelope) {
	t.Helper()

	var body []byte
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = encoded
	}
	return doRequest(t, router, method, path, token, body, "application/json")
}

func imageForm(t *testing.T, contentType string, data []byte) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="avatar.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf.Bytes(), writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	status, body := doRequest(t, router, http.MethodGet, "/healthz", "", nil, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body.Data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %+v", body.Data)
	}
}

func TestOnboardingRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/v1/onboarding/sessions", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if body.Error == nil || body.Error.Status != "UNAUTHENTICATED" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}

	status, _ = doJSON(t, router, http.MethodPost, "/v1/onboarding/sessions", "bogus", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", status)
	}
}

func TestOnboardingFlow(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/v1/onboarding/sessions", "token-hr", nil)
	if status != http.StatusCreated {
		t.Fatalf("start session: expected 201, got %d (%+v)", status, body.Error)
	}
	sessionID, _ := body.Data["id"].(string)
	if sessionID == "" || body.Data["currentStep"] != "personal" {
		t.Fatalf("unexpected session payload: %+v", body.Data)
	}
	base := "/v1/onboarding/sessions/" + sessionID

	professional := map[string]string{"username": "usman.ali", "workEmail": "usman@corp.example.com", "jobType": "Full-time"}
	status, body = doJSON(t, router, http.MethodPut, base+"/steps/professional", "token-hr", professional)
	if status != http.StatusConflict {
		t.Fatalf("professional before personal: expected 409, got %d", status)
	}

	invalid := map[string]string{"firstName": "Usman", "lastName": "Ali", "phone": "03001234567", "email": "not-an-email", "gender": "Male"}
	status, body = doJSON(t, router, http.MethodPut, base+"/steps/personal", "token-hr", invalid)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid personal: expected 400, got %d", status)
	}
	if body.Error == nil || len(body.Error.Errors) != 1 || body.Error.Errors[0].Location != "email" {
		t.Fatalf("expected one field error located at email, got %+v", body.Error)
	}

	personal := map[string]string{"firstName": "Usman", "lastName": "Ali", "phone": "03001234567", "email": "usman@example.com", "gender": "Male"}
	status, body = doJSON(t, router, http.MethodPut, base+"/steps/personal", "token-hr", personal)
	if status != http.StatusOK || body.Data["currentStep"] != "professional" {
		t.Fatalf("valid personal: expected 200 at professional, got %d %+v", status, body.Data)
	}

	form, contentType := imageForm(t, "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
	status, body = doRequest(t, router, http.MethodPost, base+"/image", "token-hr", form, contentType)
	if status != http.StatusOK {
		t.Fatalf("attach image: expected 200, got %d (%+v)", status, body.Error)
	}
	image, _ := body.Data["image"].(map[string]any)
	if image["mimeType"] != "image/png" {
		t.Fatalf("unexpected image payload: %+v", body.Data)
	}

	status, body = doJSON(t, router, http.MethodPut, base+"/steps/professional", "token-hr", professional)
	if status != http.StatusOK || body.Data["currentStep"] != "review" {
		t.Fatalf("valid professional: expected 200 at review, got %d %+v", status, body.Data)
	}

	status, _ = doJSON(t, router, http.MethodGet, base, "token-other", nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign owner: expected 404, got %d", status)
	}

	status, body = doJSON(t, router, http.MethodPost, base+"/finalize", "token-hr", nil)
	if status != http.StatusCreated {
		t.Fatalf("finalize: expected 201, got %d (%+v)", status, body.Error)
	}
	created, _ := body.Data["employee"].(map[string]any)
	if created["username"] != "usman.ali" || created["fullName"] != "Usman Ali" {
		t.Fatalf("unexpected employee payload: %+v", created)
	}
	if _, ok := created["profileImage"].(map[string]any); !ok {
		t.Fatalf("expected profile image on employee: %+v", created)
	}

	status, _ = doJSON(t, router, http.MethodPost, base+"/finalize", "token-hr", nil)
	if status != http.StatusConflict {
		t.Fatalf("second finalize: expected 409, got %d", status)
	}
}

func TestOnboardingRoutes_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	_, body := doJSON(t, router, http.MethodPost, "/v1/onboarding/sessions", "token-hr", nil)
	base := "/v1/onboarding/sessions/" + body.Data["id"].(string)

	status, _ := doJSON(t, router, http.MethodPut, base+"/steps/payroll", "token-hr", map[string]string{})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown step: expected 400, got %d", status)
	}

	status, _ = doRequest(t, router, http.MethodPut, base+"/steps/personal", "token-hr", []byte(`{"firstName":`), "application/json")
	if status != http.StatusBadRequest {
		t.Fatalf("malformed JSON: expected 400, got %d", status)
	}

	status, _ = doRequest(t, router, http.MethodPut, base+"/steps/personal", "token-hr", []byte(`{"nickname":"x"}`), "application/json")
	if status != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", status)
	}

	form, contentType := imageForm(t, "application/pdf", []byte("%PDF-1.4"))
	status, body = doRequest(t, router, http.MethodPost, base+"/image", "token-hr", form, contentType)
	if status != http.StatusBadRequest || body.Error.Errors[0].Reason != "assetRejected" {
		t.Fatalf("rejected asset: expected 400 assetRejected, got %d %+v", status, body.Error)
	}

	status, _ = doRequest(t, router, http.MethodPost, base+"/image", "token-hr", []byte("plain"), "text/plain")
	if status != http.StatusBadRequest {
		t.Fatalf("non-multipart upload: expected 400, got %d", status)
	}

	status, _ = doJSON(t, router, http.MethodPost, base+"/back", "token-hr", nil)
	if status != http.StatusConflict {
		t.Fatalf("back from first step: expected 409, got %d", status)
	}

	status, _ = doJSON(t, router, http.MethodGet, "/v1/onboarding/sessions/missing", "token-hr", nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing session: expected 404, got %d", status)
	}
}

func TestListEmployeeAttendance(t *testing.T) {
	router := newTestRouter(t)

	path := "/v1/employees/" + memory.EmployeeIDDemo + "/attendance?from=2024-05-06&to=2024-05-10"
	status, body := doJSON(t, router, http.MethodGet, path, "token-hr", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, body.Error)
	}

	records, _ := body.Data["records"].([]any)
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	wantStatus := []string{"OnTime", "Late", "OnTime", "Absent", "OnTime"}
	for i, raw := range records {
		item, _ := raw.(map[string]any)
		if item["status"] != wantStatus[i] {
			t.Fatalf("record %d: expected status %s, got %v", i, wantStatus[i], item["status"])
		}
	}
	if first, _ := records[0].(map[string]any); first["date"] != "2024-05-06" || first["checkIn"] != "08:55" {
		t.Fatalf("unexpected first record: %+v", first)
	}
}

func TestListEmployeeAttendance_InvalidRange(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing from", query: "?to=2024-05-10"},
		{name: "bad date", query: "?from=06/05/2024&to=2024-05-10"},
		{name: "reversed", query: "?from=2024-05-10&to=2024-05-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, router, http.MethodGet, "/v1/employees/"+memory.EmployeeIDDemo+"/attendance"+tt.query, "token-hr", nil)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
		})
	}
}

func TestClassifyAttendance(t *testing.T) {
	router := newTestRouter(t)

	checkIn := time.Date(2024, 5, 7, 9, 11, 0, 0, time.UTC)
	checkOut := time.Date(2024, 5, 7, 17, 41, 0, 0, time.UTC)
	payload := map[string]any{
		"records": []map[string]any{
			{"employeeId": "emp-1", "date": "2024-05-07", "checkIn": checkIn, "checkOut": checkOut},
			{"employeeId": "emp-1", "date": "2024-05-08"},
		},
	}

	status, body := doJSON(t, router, http.MethodPost, "/v1/attendance/classify", "token-hr", payload)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, body.Error)
	}
	records, _ := body.Data["records"].([]any)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first, _ := records[0].(map[string]any)
	if first["status"] != string(attendance.StatusLate) || first["workingHours"] != "8h0m" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	second, _ := records[1].(map[string]any)
	if second["status"] != string(attendance.StatusAbsent) || second["checkIn"] != attendance.Missing {
		t.Fatalf("unexpected second record: %+v", second)
	}
}

func TestClassifyAttendance_Rejects(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doJSON(t, router, http.MethodPost, "/v1/attendance/classify", "token-hr", map[string]any{"records": []any{}})
	if status != http.StatusBadRequest {
		t.Fatalf("empty batch: expected 400, got %d", status)
	}

	otherDay := time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC)
	payload := map[string]any{
		"records": []map[string]any{{"date": "2024-05-07", "checkIn": otherDay}},
	}
	status, body := doJSON(t, router, http.MethodPost, "/v1/attendance/classify", "token-hr", payload)
	if status != http.StatusBadRequest || body.Error.Errors[0].Reason != "invalidRecord" {
		t.Fatalf("check-in on another day: expected 400 invalidRecord, got %d %+v", status, body.Error)
	}
}

func TestGetMenu(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/v1/menu", "token-hr", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", status, body.Error)
	}
	if body.Data["role"] != "hr" {
		t.Fatalf("unexpected role: %v", body.Data["role"])
	}
	items, _ := body.Data["items"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected menu items for hr")
	}

	status, body = doJSON(t, router, http.MethodGet, "/v1/menu", "token-unknown", nil)
	if status != http.StatusForbidden {
		t.Fatalf("unknown role: expected 403, got %d", status)
	}
	if !strings.Contains(body.Error.Message, "intern") {
		t.Fatalf("expected error to name the role, got %q", body.Error.Message)
	}
}
