package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

const (
	defaultAttendanceWorkers = 4
	maxAttendanceRange       = 366 * 24 * time.Hour
	poolReleaseTimeout       = 5 * time.Second
)

type AttendanceService struct {
	repo       attendance.Repository
	classifier *attendance.Classifier
	workers    int
	logger     *logging.Logger
}

func NewAttendanceService(
	repo attendance.Repository,
	classifier *attendance.Classifier,
	workers int,
	logger *logging.Logger,
) *AttendanceService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = defaultAttendanceWorkers
	}

	return &AttendanceService{
		repo:       repo,
		classifier: classifier,
		workers:    workers,
		logger:     logger,
	}
}

// ListFormatted classifies an employee's records between from and to
// (inclusive), keeping the repository order.
func (s *AttendanceService) ListFormatted(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.FormattedRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.ListFormatted", attribute.String("employee.id", employeeID))
	defer span.End()

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}
	if to.Sub(from) > maxAttendanceRange {
		return nil, fmt.Errorf("%w: range must not exceed 366 days", ErrInvalidInput)
	}

	raws, err := s.repo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("%w: list attendance: %w", ErrDependencyUnavailable, err)
	}

	out, err := s.classifyAll(ctx, raws)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return out, nil
}

// ClassifyBatch classifies records that were not read from storage.
func (s *AttendanceService) ClassifyBatch(ctx context.Context, raws []attendance.RawRecord) ([]attendance.FormattedRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.ClassifyBatch", attribute.Int("attendance.records", len(raws)))
	defer span.End()

	out, err := s.classifyAll(ctx, raws)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return out, nil
}

func (s *AttendanceService) classifyAll(ctx context.Context, raws []attendance.RawRecord) ([]attendance.FormattedRecord, error) {
	out := make([]attendance.FormattedRecord, len(raws))
	if len(raws) == 0 {
		return out, nil
	}

	workerCount := min(s.workers, len(raws))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer func() {
		if err := pool.ReleaseTimeout(poolReleaseTimeout); err != nil {
			s.logger.WarnContext(ctx, "release attendance worker pool", "error", err)
		}
	}()

	errs := make([]error, len(raws))
	var workers sync.WaitGroup
	for i, raw := range raws {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[i], errs[i] = s.classifier.Classify(raw)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, raws[i].Date.Format(attendance.DateLayout), err)
		}
	}
	return out, nil
}
