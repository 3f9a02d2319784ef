package repository

import (
	"context"
	"testing"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/revocation/domain"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository()

	first := &domain.Record{Fingerprint: "fp-1", Token: "a", RevokedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	dup := &domain.Record{Fingerprint: "fp-1", Token: "b", RevokedAt: now.Add(time.Minute), ExpiresAt: now.Add(2 * time.Hour)}
	if err := repo.Insert(ctx, dup); err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}
	got, err := repo.GetByFingerprint(ctx, "fp-1")
	if err != nil || got == nil {
		t.Fatalf("GetByFingerprint: %v, %v", got, err)
	}
	if got.Token != "a" {
		t.Errorf("Token = %q, want first insert to win", got.Token)
	}
	missing, err := repo.GetByFingerprint(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetByFingerprint(missing) = %v, %v; want nil, nil", missing, err)
	}

	if err := repo.Insert(ctx, &domain.Record{Fingerprint: "fp-2", ExpiresAt: now}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 || repo.Len() != 1 {
		t.Errorf("DeleteExpired removed %d, %d left; want 1, 1", n, repo.Len())
	}
}
