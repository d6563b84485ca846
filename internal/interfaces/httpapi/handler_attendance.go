package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/usecase"
)

func (h *Handler) ListEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEmployeeAttendance")
	defer span.End()

	employeeID := strings.TrimSpace(r.PathValue("employeeID"))
	query := r.URL.Query()
	from, err := h.parseDate("from", query.Get("from"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := h.parseDate("to", query.Get("to"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.attendanceService.ListFormatted(ctx, employeeID, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list attendance failed", "employee_id", employeeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, attendanceListDTO{
		EmployeeID: employeeID,
		From:       from.Format(attendance.DateLayout),
		To:         to.Format(attendance.DateLayout),
		Records:    records,
	})
}

func (h *Handler) ClassifyAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClassifyAttendance")
	defer span.End()

	var req classifyAttendanceRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	raws := make([]attendance.RawRecord, 0, len(req.Records))
	for i, item := range req.Records {
		date, err := h.parseDate(fmt.Sprintf("records[%d].date", i), item.Date)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		raws = append(raws, attendance.RawRecord{
			EmployeeID: strings.TrimSpace(item.EmployeeID),
			Date:       date,
			CheckIn:    item.CheckIn,
			CheckOut:   item.CheckOut,
		})
	}

	records, err := h.attendanceService.ClassifyBatch(ctx, raws)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, classifyAttendanceDTO{Records: records})
}

func (h *Handler) parseDate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, name)
	}
	parsed, err := time.ParseInLocation(attendance.DateLayout, raw, h.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be formatted as YYYY-MM-DD", usecase.ErrInvalidInput, name)
	}
	return parsed, nil
}
