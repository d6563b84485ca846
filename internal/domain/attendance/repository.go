package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// ListByEmployee returns raw records with from <= Date <= to ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]RawRecord, error)
}
