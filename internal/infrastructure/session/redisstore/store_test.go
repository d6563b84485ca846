package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
)

type fakeRedis struct {
	values  map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	store := NewSessionStore(rdb, 30*time.Minute)

	session := onboarding.Session{
		ID:      "s-1",
		OwnerID: "u-1",
		State: onboarding.State{
			CurrentStep: onboarding.StepProfessional,
			Completed:   []onboarding.Step{onboarding.StepPersonal},
			Record: onboarding.Record{
				Personal: onboarding.Personal{
					PersonalInfo: onboarding.PersonalInfo{FirstName: "Usman", LastName: "Ali"},
					ProfileImage: &asset.UploadedAsset{URL: "https://cdn.example.com/a.png", SizeBytes: 12, MIMEType: "image/png"},
				},
			},
		},
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC),
	}

	if err := store.Save(t.Context(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if got := rdb.ttls[keyPrefix+"s-1"]; got != 30*time.Minute {
		t.Fatalf("unexpected ttl: %s", got)
	}

	got, ok, err := store.Get(t.Context(), "s-1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(session, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}

	if err := store.Delete(t.Context(), "s-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, err := store.Get(t.Context(), "s-1"); ok || err != nil {
		t.Fatalf("expected missing session, ok=%v err=%v", ok, err)
	}
}

func TestSessionStore_PropagatesErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.failErr = errors.New("connection refused")
	store := NewSessionStore(rdb, time.Minute)

	if _, _, err := store.Get(t.Context(), "s-1"); !errors.Is(err, rdb.failErr) {
		t.Fatalf("expected redis error, got %v", err)
	}
	if err := store.Save(t.Context(), onboarding.Session{ID: "s-1"}); !errors.Is(err, rdb.failErr) {
		t.Fatalf("expected redis error, got %v", err)
	}
}
