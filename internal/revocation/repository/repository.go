package repository

import (
	"context"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/revocation/domain"
)

// Repository defines persistence for revoked tokens.
type Repository interface {
	// Insert stores r. Inserting a fingerprint that already exists is a no-op, not an error.
	Insert(ctx context.Context, r *domain.Record) error
	// GetByFingerprint returns the record for fingerprint, or nil if the token was never revoked.
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Record, error)
	// DeleteExpired removes records whose ExpiresAt is at or before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Cache is an optional fast path in front of Repository. It only ever holds positive entries.
type Cache interface {
	MarkRevoked(ctx context.Context, fingerprint string, ttl time.Duration) error
	IsRevoked(ctx context.Context, fingerprint string) (bool, error)
}
