package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
)

// ImageUploader stores a profile image and returns its reference once the
// transfer has completed.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, declaredMIME string) (asset.UploadedAsset, error)
}

// Machine drives one onboarding session through its fixed step order.
// It is not safe for concurrent use; callers serialize access per session.
type Machine struct {
	validator *StepValidator
	uploader  ImageUploader
	current   Step
	completed map[Step]struct{}
	record    Record
}

func NewMachine(validator *StepValidator, uploader ImageUploader) *Machine {
	return &Machine{
		validator: validator,
		uploader:  uploader,
		current:   StepPersonal,
		completed: make(map[Step]struct{}),
	}
}

// RestoreMachine rebuilds a machine from a previously saved state.
func RestoreMachine(state State, validator *StepValidator, uploader ImageUploader) (*Machine, error) {
	current := state.CurrentStep
	if current == "" {
		current = StepPersonal
	}
	if current.index() < 0 {
		return nil, fmt.Errorf("%w: unknown current step %q", ErrInvalidState, state.CurrentStep)
	}

	completed := make(map[Step]struct{}, len(state.Completed))
	for _, step := range state.Completed {
		if step.index() < 0 {
			return nil, fmt.Errorf("%w: unknown completed step %q", ErrInvalidState, step)
		}
		completed[step] = struct{}{}
	}
	for _, step := range stepOrder[:current.index()] {
		if _, ok := completed[step]; !ok {
			return nil, fmt.Errorf("%w: step %s entered before %s was completed", ErrInvalidState, current, step)
		}
	}

	return &Machine{
		validator: validator,
		uploader:  uploader,
		current:   current,
		completed: completed,
		record:    state.Record.clone(),
	}, nil
}

func (m *Machine) CurrentStep() Step {
	return m.current
}

func (m *Machine) IsCompleted(step Step) bool {
	_, ok := m.completed[step]
	return ok
}

// Completed lists completed steps in step order.
func (m *Machine) Completed() []Step {
	out := make([]Step, 0, len(m.completed))
	for _, step := range stepOrder {
		if m.IsCompleted(step) {
			out = append(out, step)
		}
	}
	return out
}

func (m *Machine) Record() Record {
	return m.record.clone()
}

func (m *Machine) State() State {
	return State{
		CurrentStep: m.current,
		Completed:   m.Completed(),
		Record:      m.record.clone(),
	}
}

// SubmitStep validates fields for the current step and, when valid, merges
// them into the record and advances one step.
func (m *Machine) SubmitStep(step Step, fields StepFields) error {
	if m.current == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if step != m.current {
		return fmt.Errorf("%w: got %s, current step is %s", ErrStepOutOfOrder, step, m.current)
	}
	if step == StepReview {
		return fmt.Errorf("%w: review is confirmed with finalize", ErrStepOutOfOrder)
	}

	if fields != nil && !isNilPointer(fields) {
		fields = fields.normalized()
	}
	if errs := m.validator.ValidateStep(step, fields); len(errs) > 0 {
		return &ValidationFailedError{Step: step, Fields: errs}
	}

	switch f := fields.(type) {
	case PersonalInfo:
		m.record.Personal.PersonalInfo = f
	case ProfessionalInfo:
		m.record.Professional = f
	}

	m.completed[step] = struct{}{}
	next, _ := step.next()
	m.current = next
	return nil
}

// AttachImage uploads the image and points the profile at it. A failed
// upload leaves the record untouched.
func (m *Machine) AttachImage(ctx context.Context, data []byte, declaredMIME string) (asset.UploadedAsset, error) {
	if m.current == StepSubmitted {
		return asset.UploadedAsset{}, ErrAlreadySubmitted
	}
	if m.uploader == nil {
		return asset.UploadedAsset{}, errors.New("image uploader is not configured")
	}

	uploaded, err := m.uploader.Upload(ctx, data, declaredMIME)
	if err != nil {
		return asset.UploadedAsset{}, err
	}

	ref := uploaded
	m.record.Personal.ProfileImage = &ref
	return uploaded, nil
}

// GoBack moves one step back without discarding collected data.
func (m *Machine) GoBack() error {
	switch m.current {
	case StepProfessional, StepReview:
		prev, _ := m.current.previous()
		m.current = prev
		return nil
	case StepSubmitted:
		return ErrAlreadySubmitted
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrStepOutOfOrder, m.current)
	}
}

// Finalize closes the session and returns a copy of the record for hand-off.
func (m *Machine) Finalize() (Record, error) {
	if m.current == StepSubmitted {
		return Record{}, ErrAlreadySubmitted
	}
	if m.current != StepReview {
		return Record{}, fmt.Errorf("%w: finalize requires step %s, current step is %s", ErrStepOutOfOrder, StepReview, m.current)
	}
	for _, required := range []Step{StepPersonal, StepProfessional} {
		if !m.IsCompleted(required) {
			return Record{}, fmt.Errorf("%w: step %s is not completed", ErrStepOutOfOrder, required)
		}
	}

	m.completed[StepReview] = struct{}{}
	m.current = StepSubmitted
	return m.record.clone(), nil
}

func isNilPointer(fields StepFields) bool {
	switch f := fields.(type) {
	case *PersonalInfo:
		return f == nil
	case *ProfessionalInfo:
		return f == nil
	}
	return false
}
