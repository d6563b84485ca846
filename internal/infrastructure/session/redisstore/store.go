package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
)

const keyPrefix = "hr-admin:onboarding:session:"

type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionStore keeps onboarding sessions in Redis as JSON with a sliding ttl.
type SessionStore struct {
	rdb client
	ttl time.Duration
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

func NewSessionStore(rdb client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (onboarding.Session, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return onboarding.Session{}, false, nil
	}
	if err != nil {
		return onboarding.Session{}, false, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}

	var session onboarding.Session
	if err := sonic.Unmarshal(raw, &session); err != nil {
		return onboarding.Session{}, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return session, true, nil
}

func (s *SessionStore) Save(ctx context.Context, session onboarding.Session) error {
	raw, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+session.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del session %s: %w", sessionID, err)
	}
	return nil
}
