package onboarding

import (
	"strings"
	"testing"
)

func testRules() Rules {
	return Rules{
		Genders:  DefaultGenders(),
		JobTypes: []string{"Full-time", "Part-time", "Contract"},
	}
}

func validPersonal() PersonalInfo {
	return PersonalInfo{
		FirstName: "Usman",
		LastName:  "Ali",
		Phone:     "+923001234567",
		Email:     "usman@example.com",
		Gender:    "Male",
	}
}

func validProfessional() ProfessionalInfo {
	return ProfessionalInfo{
		Username:  "usman.ali",
		WorkEmail: "usman.ali@corp.example.com",
		JobType:   "Full-time",
	}
}

func fieldNames(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestStepValidator_ValidateStep(t *testing.T) {
	validator := NewStepValidator(testRules())

	tests := []struct {
		name       string
		step       Step
		fields     StepFields
		wantFields []string
	}{
		{
			name:   "valid personal",
			step:   StepPersonal,
			fields: validPersonal(),
		},
		{
			name:   "valid professional",
			step:   StepProfessional,
			fields: validProfessional(),
		},
		{
			name:       "empty personal reports every field",
			step:       StepPersonal,
			fields:     PersonalInfo{},
			wantFields: []string{"firstName", "lastName", "phone", "email", "gender"},
		},
		{
			name: "name too long",
			step: StepPersonal,
			fields: func() PersonalInfo {
				p := validPersonal()
				p.FirstName = strings.Repeat("a", 51)
				return p
			}(),
			wantFields: []string{"firstName"},
		},
		{
			name: "phone too short",
			step: StepPersonal,
			fields: func() PersonalInfo {
				p := validPersonal()
				p.Phone = "12345"
				return p
			}(),
			wantFields: []string{"phone"},
		},
		{
			name: "gender outside configured set",
			step: StepPersonal,
			fields: func() PersonalInfo {
				p := validPersonal()
				p.Gender = "Unknown"
				return p
			}(),
			wantFields: []string{"gender"},
		},
		{
			name: "username with spaces and bad job type",
			step: StepProfessional,
			fields: ProfessionalInfo{
				Username:  "usman ali",
				WorkEmail: "usman@corp.example.com",
				JobType:   "Intern",
			},
			wantFields: []string{"username", "jobType"},
		},
		{
			name:       "field set for another step",
			step:       StepPersonal,
			fields:     validProfessional(),
			wantFields: []string{"step"},
		},
		{
			name:       "nil field set",
			step:       StepPersonal,
			fields:     nil,
			wantFields: []string{"step"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fieldNames(validator.ValidateStep(tc.step, tc.fields))
			if strings.Join(got, ",") != strings.Join(tc.wantFields, ",") {
				t.Fatalf("unexpected field errors: got=%v want=%v", got, tc.wantFields)
			}
		})
	}
}

func TestStepValidator_MessageListsAllowedValues(t *testing.T) {
	validator := NewStepValidator(testRules())

	p := validPersonal()
	p.Gender = "Unknown"
	errs := validator.ValidateStep(StepPersonal, p)
	if len(errs) != 1 {
		t.Fatalf("expected one field error, got %d", len(errs))
	}
	if !strings.Contains(errs[0].Message, "Male, Female, Other") {
		t.Fatalf("expected message to list allowed genders, got %q", errs[0].Message)
	}
}

func TestNewStepValidator_CopiesRules(t *testing.T) {
	rules := testRules()
	validator := NewStepValidator(rules)
	rules.JobTypes[0] = "Intern"

	if errs := validator.ValidateStep(StepProfessional, validProfessional()); len(errs) != 0 {
		t.Fatalf("expected validator to keep its own copy of rules, got %v", errs)
	}
}
