package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrStepOutOfOrder   = errors.New("step out of order")
	ErrAlreadySubmitted = errors.New("onboarding already submitted")
	ErrUnknownStep      = errors.New("unknown onboarding step")
	ErrInvalidState     = errors.New("invalid onboarding state")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailedError carries every field error found for one step.
type ValidationFailedError struct {
	Step   Step
	Fields []FieldError
}

func (e *ValidationFailedError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: step %s: %s", ErrValidationFailed, e.Step, strings.Join(parts, "; "))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}
