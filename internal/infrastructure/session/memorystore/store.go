package memorystore

import (
	"context"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
	basecache "github.com/riskibarqy/hr-admin/internal/platform/cache"
)

const keyPrefix = "onboarding:session:"

// SessionStore keeps onboarding sessions in process memory. Entries expire
// after the configured ttl.
type SessionStore struct {
	cache *basecache.Store[onboarding.Session]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: basecache.NewStore[onboarding.Session](ttl)}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (onboarding.Session, bool, error) {
	session, ok := s.cache.Get(keyPrefix + sessionID)
	if !ok {
		return onboarding.Session{}, false, nil
	}
	return session.Clone(), true, nil
}

func (s *SessionStore) Save(ctx context.Context, session onboarding.Session) error {
	s.cache.Set(keyPrefix+session.ID, session.Clone())
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(keyPrefix + sessionID)
	return nil
}
