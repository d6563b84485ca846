package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	qb "github.com/riskibarqy/hr-admin/internal/platform/querybuilder"
)

// AttendanceRepository reads clock events. Work dates are interpreted in loc.
type AttendanceRepository struct {
	db  *sqlx.DB
	loc *time.Location
}

func NewAttendanceRepository(db *sqlx.DB, loc *time.Location) *AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceRepository{db: db, loc: loc}
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.RawRecord, error) {
	query, args, err := qb.SelectModel(attendanceRow{}).
		From("attendance_records").
		Where(
			qb.Eq("employee_public_id", employeeID),
			qb.Between("work_date", from.Format(attendance.DateLayout), to.Format(attendance.DateLayout)),
		).
		OrderBy("work_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select attendance records query: %w", err)
	}

	var rows []attendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select attendance records employee=%s: %w", employeeID, err)
	}

	out := make([]attendance.RawRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, attendance.RawRecord{
			EmployeeID: row.EmployeePublicID,
			Date:       time.Date(row.WorkDate.Year(), row.WorkDate.Month(), row.WorkDate.Day(), 0, 0, 0, 0, r.loc),
			CheckIn:    nullTimePtr(row.CheckInAt),
			CheckOut:   nullTimePtr(row.CheckOutAt),
		})
	}

	return out, nil
}
