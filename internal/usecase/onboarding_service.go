package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	idgen "github.com/riskibarqy/hr-admin/internal/platform/id"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
	"github.com/riskibarqy/hr-admin/internal/platform/resilience"
)

const defaultSessionTTL = 24 * time.Hour

type SubmitStepInput struct {
	OwnerID   string
	SessionID string
	Step      string
	Fields    onboarding.StepFields
}

type AttachImageInput struct {
	OwnerID   string
	SessionID string
	Data      []byte
	MIMEType  string
}

// OnboardingService keeps onboarding machines between requests. Calls for
// the same session are serialized; different sessions share nothing.
type OnboardingService struct {
	sessions  onboarding.SessionStore
	validator *onboarding.StepValidator
	uploader  onboarding.ImageUploader
	employees employee.Repository
	publisher employee.EventPublisher
	idGen     idgen.Generator
	locks     resilience.KeyedMutex
	ttl       time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

func NewOnboardingService(
	sessions onboarding.SessionStore,
	validator *onboarding.StepValidator,
	uploader onboarding.ImageUploader,
	employees employee.Repository,
	publisher employee.EventPublisher,
	idGen idgen.Generator,
	ttl time.Duration,
	logger *logging.Logger,
) *OnboardingService {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}

	return &OnboardingService{
		sessions:  sessions,
		validator: validator,
		uploader:  uploader,
		employees: employees,
		publisher: publisher,
		idGen:     idGen,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *OnboardingService) StartSession(ctx context.Context, ownerID string) (onboarding.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.StartSession")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return onboarding.Session{}, fmt.Errorf("%w: owner is required", ErrUnauthorized)
	}

	sessionID, err := s.idGen.NewID()
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now().UTC()
	session := onboarding.Session{
		ID:        sessionID,
		OwnerID:   ownerID,
		State:     onboarding.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, fmt.Errorf("%w: save onboarding session: %w", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "onboarding session started", "session_id", sessionID, "owner_id", ownerID)
	return session, nil
}

func (s *OnboardingService) GetSession(ctx context.Context, ownerID, sessionID string) (onboarding.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.GetSession", attribute.String("onboarding.session_id", sessionID))
	defer span.End()

	session, err := s.loadSession(ctx, ownerID, sessionID)
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, err
	}
	return session, nil
}

func (s *OnboardingService) SubmitStep(ctx context.Context, input SubmitStepInput) (onboarding.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.SubmitStep",
		attribute.String("onboarding.session_id", input.SessionID),
		attribute.String("onboarding.step", input.Step),
	)
	defer span.End()

	step, err := onboarding.ParseStep(input.Step)
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	session, err := s.mutate(ctx, input.OwnerID, input.SessionID, func(m *onboarding.Machine) error {
		return m.SubmitStep(step, input.Fields)
	})
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, err
	}
	return session, nil
}

func (s *OnboardingService) AttachImage(ctx context.Context, input AttachImageInput) (onboarding.Session, asset.UploadedAsset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.AttachImage", attribute.String("onboarding.session_id", input.SessionID))
	defer span.End()

	var uploaded asset.UploadedAsset
	session, err := s.mutate(ctx, input.OwnerID, input.SessionID, func(m *onboarding.Machine) error {
		var err error
		uploaded, err = m.AttachImage(ctx, input.Data, input.MIMEType)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, asset.UploadedAsset{}, err
	}
	return session, uploaded, nil
}

func (s *OnboardingService) GoBack(ctx context.Context, ownerID, sessionID string) (onboarding.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.GoBack", attribute.String("onboarding.session_id", sessionID))
	defer span.End()

	session, err := s.mutate(ctx, ownerID, sessionID, func(m *onboarding.Machine) error {
		return m.GoBack()
	})
	if err != nil {
		recordSpanError(span, err)
		return onboarding.Session{}, err
	}
	return session, nil
}

// Finalize closes the session and persists the employee. When persistence
// fails the session stays in review so the caller can retry. The employee id
// is reserved on the session before the first create, so a retry after a
// failed session save finds the employee it already wrote.
func (s *OnboardingService) Finalize(ctx context.Context, ownerID, sessionID string) (employee.Employee, onboarding.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.Finalize", attribute.String("onboarding.session_id", sessionID))
	defer span.End()

	var created employee.Employee
	session, err := s.mutateSession(ctx, ownerID, sessionID, func(session *onboarding.Session, m *onboarding.Machine) error {
		record, err := m.Finalize()
		if err != nil {
			return err
		}
		if err := s.reserveEmployeeID(ctx, session); err != nil {
			return err
		}

		item := employee.FromRecord(session.EmployeeID, record, s.now())
		if err := s.employees.Create(ctx, item); err != nil {
			if !errors.Is(err, employee.ErrDuplicate) {
				return fmt.Errorf("%w: create employee: %w", ErrDependencyUnavailable, err)
			}
			existing, found, getErr := s.employees.GetByID(ctx, item.ID)
			if getErr != nil || !found {
				return fmt.Errorf("%w: %w", ErrConflict, err)
			}
			s.logger.InfoContext(ctx, "onboarding employee already persisted", "session_id", session.ID, "employee_id", existing.ID)
			item = existing
		}
		created = item
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return employee.Employee{}, onboarding.Session{}, err
	}

	s.logger.InfoContext(ctx, "onboarding finalized",
		"session_id", session.ID,
		"employee_id", created.ID,
		"username", created.Username,
		"work_email", created.WorkEmail,
	)
	s.publishOnboarded(ctx, created)
	return created, session, nil
}

// reserveEmployeeID stores a fresh employee id on the session while its
// state is still in review.
func (s *OnboardingService) reserveEmployeeID(ctx context.Context, session *onboarding.Session) error {
	if session.EmployeeID != "" {
		return nil
	}
	employeeID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate employee id: %w", err)
	}

	reserved := *session
	reserved.EmployeeID = employeeID
	reserved.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, reserved); err != nil {
		return fmt.Errorf("%w: save onboarding session: %w", ErrDependencyUnavailable, err)
	}
	*session = reserved
	return nil
}

func (s *OnboardingService) publishOnboarded(ctx context.Context, item employee.Employee) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOnboarded(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "publish employee onboarded event failed", "employee_id", item.ID, "error", err)
	}
}

// mutate loads the session under its lock, applies fn to a restored
// machine, and saves the new state only when fn succeeds.
func (s *OnboardingService) mutate(ctx context.Context, ownerID, sessionID string, fn func(*onboarding.Machine) error) (onboarding.Session, error) {
	return s.mutateSession(ctx, ownerID, sessionID, func(_ *onboarding.Session, m *onboarding.Machine) error {
		return fn(m)
	})
}

func (s *OnboardingService) mutateSession(ctx context.Context, ownerID, sessionID string, fn func(*onboarding.Session, *onboarding.Machine) error) (onboarding.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return onboarding.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, ownerID, sessionID)
	if err != nil {
		return onboarding.Session{}, err
	}

	machine, err := onboarding.RestoreMachine(session.State, s.validator, s.uploader)
	if err != nil {
		return onboarding.Session{}, fmt.Errorf("restore onboarding session %s: %w", sessionID, err)
	}
	if err := fn(&session, machine); err != nil {
		return onboarding.Session{}, err
	}

	session.State = machine.State()
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return onboarding.Session{}, fmt.Errorf("%w: save onboarding session: %w", ErrDependencyUnavailable, err)
	}
	return session, nil
}

func (s *OnboardingService) loadSession(ctx context.Context, ownerID, sessionID string) (onboarding.Session, error) {
	ownerID = strings.TrimSpace(ownerID)
	sessionID = strings.TrimSpace(sessionID)
	if ownerID == "" {
		return onboarding.Session{}, fmt.Errorf("%w: owner is required", ErrUnauthorized)
	}
	if sessionID == "" {
		return onboarding.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	session, exists, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return onboarding.Session{}, fmt.Errorf("%w: get onboarding session: %w", ErrDependencyUnavailable, err)
	}
	// Sessions owned by someone else are reported as missing.
	if !exists || session.OwnerID != ownerID {
		return onboarding.Session{}, fmt.Errorf("%w: onboarding session %s", ErrNotFound, sessionID)
	}
	if s.now().Sub(session.UpdatedAt) > s.ttl {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "delete expired onboarding session failed", "session_id", sessionID, "error", err)
		}
		return onboarding.Session{}, fmt.Errorf("%w: onboarding session %s expired", ErrNotFound, sessionID)
	}
	return session, nil
}
