package onboarding

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
)

type Step string

const (
	StepPersonal     Step = "personal"
	StepProfessional Step = "professional"
	StepReview       Step = "review"
	StepSubmitted    Step = "submitted"
)

var stepOrder = []Step{StepPersonal, StepProfessional, StepReview, StepSubmitted}

func ParseStep(raw string) (Step, error) {
	candidate := Step(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, raw)
	}
	return candidate, nil
}

func (s Step) String() string {
	return string(s)
}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

func (s Step) next() (Step, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(stepOrder) {
		return "", false
	}
	return stepOrder[i+1], true
}

func (s Step) previous() (Step, bool) {
	i := s.index()
	if i <= 0 {
		return "", false
	}
	return stepOrder[i-1], true
}

// StepFields is the field set collected by one step. The set of
// implementations is closed: PersonalInfo and ProfessionalInfo.
type StepFields interface {
	Step() Step
	normalized() StepFields
}

type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required,person_name"`
	LastName  string `json:"lastName" validate:"required,person_name"`
	Phone     string `json:"phone" validate:"required,phone_number"`
	Email     string `json:"email" validate:"required,email"`
	Gender    string `json:"gender" validate:"required,gender"`
}

func (PersonalInfo) Step() Step { return StepPersonal }

func (p PersonalInfo) normalized() StepFields {
	return PersonalInfo{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Phone:     strings.TrimSpace(p.Phone),
		Email:     strings.TrimSpace(p.Email),
		Gender:    strings.TrimSpace(p.Gender),
	}
}

type ProfessionalInfo struct {
	Username  string `json:"username" validate:"required,login_name"`
	WorkEmail string `json:"workEmail" validate:"required,email"`
	JobType   string `json:"jobType" validate:"required,job_type"`
}

func (ProfessionalInfo) Step() Step { return StepProfessional }

func (p ProfessionalInfo) normalized() StepFields {
	return ProfessionalInfo{
		Username:  strings.TrimSpace(p.Username),
		WorkEmail: strings.TrimSpace(p.WorkEmail),
		JobType:   strings.TrimSpace(p.JobType),
	}
}

type Personal struct {
	PersonalInfo
	ProfileImage *asset.UploadedAsset `json:"profileImage,omitempty"`
}

// Record accumulates everything collected during one onboarding session.
type Record struct {
	Personal     Personal         `json:"personal"`
	Professional ProfessionalInfo `json:"professional"`
}

func (r Record) clone() Record {
	out := r
	if r.Personal.ProfileImage != nil {
		img := *r.Personal.ProfileImage
		out.Personal.ProfileImage = &img
	}
	return out
}
