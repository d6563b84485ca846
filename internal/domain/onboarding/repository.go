package onboarding

import "context"

type SessionStore interface {
	Get(ctx context.Context, sessionID string) (Session, bool, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, sessionID string) error
}
