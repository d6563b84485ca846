package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxNameLength = 50

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
)

// Rules holds the enumerations supplied by configuration.
type Rules struct {
	Genders  []string
	JobTypes []string
}

func DefaultGenders() []string {
	return []string{"Male", "Female", "Other"}
}

// StepValidator checks one step's field set. It has no side effects.
type StepValidator struct {
	validate *validator.Validate
	rules    Rules
}

func NewStepValidator(rules Rules) *StepValidator {
	rules = Rules{
		Genders:  append([]string(nil), rules.Genders...),
		JobTypes: append([]string(nil), rules.JobTypes...),
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= maxNameLength
	})
	mustRegister(v, "phone_number", matchesPattern(phonePattern))
	mustRegister(v, "login_name", matchesPattern(usernamePattern))
	mustRegister(v, "gender", memberOf(rules.Genders))
	mustRegister(v, "job_type", memberOf(rules.JobTypes))

	return &StepValidator{validate: v, rules: rules}
}

// ValidateStep returns every field error for the step; an empty result means valid.
func (v *StepValidator) ValidateStep(step Step, fields StepFields) []FieldError {
	if fields == nil || reflect.ValueOf(fields).Kind() == reflect.Pointer {
		return []FieldError{{Field: "step", Message: fmt.Sprintf("no field set submitted for step %s", step)}}
	}
	if fields.Step() != step {
		return []FieldError{{Field: "step", Message: fmt.Sprintf("fields for step %s cannot be submitted as %s", fields.Step(), step)}}
	}

	err := v.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldError{{Field: "step", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: v.message(fe)})
	}
	return out
}

func (v *StepValidator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "person_name":
		return fmt.Sprintf("must be at most %d characters", maxNameLength)
	case "phone_number":
		return "must be 10 to 15 digits with an optional leading +"
	case "email":
		return "must be a valid email address"
	case "login_name":
		return "must be 3 to 30 letters, digits, '_' or '.'"
	case "gender":
		return "must be one of: " + strings.Join(v.rules.Genders, ", ")
	case "job_type":
		return "must be one of: " + strings.Join(v.rules.JobTypes, ", ")
	default:
		return "is invalid"
	}
}

func matchesPattern(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func memberOf(allowed []string) validator.Func {
	set := make(map[string]struct{}, len(allowed))
	for _, item := range allowed {
		set[strings.TrimSpace(item)] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}
