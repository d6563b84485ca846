package httpapi

import (
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/attendance"
	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	"github.com/riskibarqy/hr-admin/internal/domain/role"
)

type classifyAttendanceRequest struct {
	Records []classifyAttendanceItem `json:"records" validate:"required,min=1,max=1000,dive"`
}

type classifyAttendanceItem struct {
	EmployeeID string     `json:"employeeId" validate:"omitempty,max=64"`
	Date       string     `json:"date" validate:"required"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
}

type onboardingSessionDTO struct {
	ID          string            `json:"id"`
	CurrentStep string            `json:"currentStep"`
	Completed   []string          `json:"completed"`
	Record      onboarding.Record `json:"record"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type attachImageDTO struct {
	Session onboardingSessionDTO `json:"session"`
	Image   asset.UploadedAsset  `json:"image"`
}

type employeeDTO struct {
	ID           string               `json:"id"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	FullName     string               `json:"fullName"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	Gender       string               `json:"gender"`
	ProfileImage *asset.UploadedAsset `json:"profileImage,omitempty"`
	Username     string               `json:"username"`
	WorkEmail    string               `json:"workEmail"`
	JobType      string               `json:"jobType"`
	CreatedAt    time.Time            `json:"createdAt"`
}

type finalizeOnboardingDTO struct {
	Employee employeeDTO          `json:"employee"`
	Session  onboardingSessionDTO `json:"session"`
}

type attendanceListDTO struct {
	EmployeeID string                       `json:"employeeId"`
	From       string                       `json:"from"`
	To         string                       `json:"to"`
	Records    []attendance.FormattedRecord `json:"records"`
}

type classifyAttendanceDTO struct {
	Records []attendance.FormattedRecord `json:"records"`
}

type menuDTO struct {
	Role  string          `json:"role"`
	Items []role.MenuItem `json:"items"`
}

func onboardingSessionToDTO(session onboarding.Session) onboardingSessionDTO {
	completed := make([]string, 0, len(session.State.Completed))
	for _, step := range session.State.Completed {
		completed = append(completed, step.String())
	}

	return onboardingSessionDTO{
		ID:          session.ID,
		CurrentStep: session.State.CurrentStep.String(),
		Completed:   completed,
		Record:      session.State.Record,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

func employeeToDTO(item employee.Employee) employeeDTO {
	return employeeDTO{
		ID:           item.ID,
		FirstName:    item.FirstName,
		LastName:     item.LastName,
		FullName:     item.FullName(),
		Phone:        item.Phone,
		Email:        item.Email,
		Gender:       item.Gender,
		ProfileImage: item.ProfileImage,
		Username:     item.Username,
		WorkEmail:    item.WorkEmail,
		JobType:      item.JobType,
		CreatedAt:    item.CreatedAt,
	}
}
