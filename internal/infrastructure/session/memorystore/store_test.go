package memorystore

import (
	"testing"
	"time"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/domain/onboarding"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := NewSessionStore(time.Minute)
	session := onboarding.Session{ID: "s-1", OwnerID: "u-1", State: onboarding.NewState()}
	session.State.Record.Personal.ProfileImage = &asset.UploadedAsset{URL: "https://cdn.example.com/a.png"}

	if err := store.Save(t.Context(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	session.State.Record.Personal.ProfileImage.URL = "mutated"

	got, ok, err := store.Get(t.Context(), "s-1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got.State.Record.Personal.ProfileImage.URL != "https://cdn.example.com/a.png" {
		t.Fatalf("store shares memory with caller: %s", got.State.Record.Personal.ProfileImage.URL)
	}

	if err := store.Delete(t.Context(), "s-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(t.Context(), "s-1"); ok {
		t.Fatalf("expected session to be deleted")
	}
}
