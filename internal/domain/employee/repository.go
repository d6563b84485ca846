package employee

import "context"

// Repository describes employee persistence needs from use cases.
// Create returns ErrDuplicate when the username or work email is taken.
type Repository interface {
	Create(ctx context.Context, item Employee) error
	GetByID(ctx context.Context, employeeID string) (Employee, bool, error)
}

// EventPublisher announces employees created by onboarding.
type EventPublisher interface {
	PublishOnboarded(ctx context.Context, item Employee) error
}
