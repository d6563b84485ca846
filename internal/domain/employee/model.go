package employee

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
)

var ErrDuplicate = errors.New("employee already exists")

// Employee is the persisted result of a finished onboarding session.
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Gender       string
	ProfileImage *asset.UploadedAsset
	Username     string
	WorkEmail    string
	JobType      string
	CreatedAt    time.Time
}

// FromRecord builds an employee from a finalized onboarding record.
func FromRecord(id string, record onboarding.Record, createdAt time.Time) Employee {
	out := Employee{
		ID:        id,
		FirstName: record.Personal.FirstName,
		LastName:  record.Personal.LastName,
		Phone:     record.Personal.Phone,
		Email:     record.Personal.Email,
		Gender:    record.Personal.Gender,
		Username:  record.Professional.Username,
		WorkEmail: record.Professional.WorkEmail,
		JobType:   record.Professional.JobType,
		CreatedAt: createdAt.UTC(),
	}
	if record.Personal.ProfileImage != nil {
		img := *record.Personal.ProfileImage
		out.ProfileImage = &img
	}
	return out
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("employee id is required")
	}
	if strings.TrimSpace(e.Username) == "" {
		return fmt.Errorf("employee username is required")
	}
	if strings.TrimSpace(e.WorkEmail) == "" {
		return fmt.Errorf("employee work email is required")
	}
	return nil
}
