package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
)

type AttendanceRepository struct {
	mu         sync.RWMutex
	byEmployee map[string][]attendance.RawRecord
}

func NewAttendanceRepository(records []attendance.RawRecord) *AttendanceRepository {
	r := &AttendanceRepository{byEmployee: make(map[string][]attendance.RawRecord)}
	for _, rec := range records {
		r.byEmployee[rec.EmployeeID] = append(r.byEmployee[rec.EmployeeID], rec)
	}
	for id := range r.byEmployee {
		items := r.byEmployee[id]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	}
	return r
}

func (r *AttendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.RawRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.RawRecord, 0)
	for _, rec := range r.byEmployee[employeeID] {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
