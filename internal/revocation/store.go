// Package revocation keeps the deny-list of logged-out session tokens.
// Tokens stay stateless; only revoked ones are stored, keyed by fingerprint.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/revocation/domain"
	"github.com/MohamedAliSmk/pos-app/internal/revocation/repository"
	"github.com/MohamedAliSmk/pos-app/internal/security"
)

var (
	// ErrRevokedToken is returned by Check when the token has been revoked.
	ErrRevokedToken = errors.New("token is revoked")
	// ErrEmptyToken is returned by Revoke when there is no token to revoke.
	ErrEmptyToken = errors.New("empty token")
)

// ClaimsPeeker reads token claims without verifying them. *security.TokenCodec satisfies it.
type ClaimsPeeker interface {
	Peek(token string) (*security.Claims, bool)
}

// Store records and looks up revoked tokens. Postgres is authoritative; the cache is optional.
type Store struct {
	repo     repository.Repository
	cache    repository.Cache
	peeker   ClaimsPeeker
	fallback time.Duration
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCache puts cache in front of the repository for lookups.
func WithCache(cache repository.Cache) Option {
	return func(s *Store) { s.cache = cache }
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a Store persisting to repo. peeker supplies a token's exp so records can be swept once
// the token is dead anyway; tokens it cannot read are kept for fallbackTTL.
func NewStore(repo repository.Repository, peeker ClaimsPeeker, fallbackTTL time.Duration, opts ...Option) *Store {
	if fallbackTTL <= 0 {
		fallbackTTL = security.DefaultTokenTTL
	}
	s := &Store{repo: repo, peeker: peeker, fallback: fallbackTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revoke adds token to the deny-list. Revoking the same token again is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	now := s.now().UTC()
	rec := &domain.Record{
		Fingerprint: security.Fingerprint(token),
		Token:       token,
		RevokedAt:   now,
		ExpiresAt:   s.expiry(token, now),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.cacheRevoked(ctx, rec.Fingerprint, rec.ExpiresAt.Sub(now))
	return nil
}

// IsRevoked reports whether token is on the deny-list. The cache is consulted first; a cache miss or
// cache failure falls through to the repository, whose answer is authoritative.
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	fp := security.Fingerprint(token)
	if s.cache != nil {
		hit, err := s.cache.IsRevoked(ctx, fp)
		if err != nil {
			log.Printf("revocation: cache lookup failed, using database: %v", err)
		} else if hit {
			return true, nil
		}
	}
	rec, err := s.repo.GetByFingerprint(ctx, fp)
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	if rec == nil {
		return false, nil
	}
	s.cacheRevoked(ctx, fp, rec.ExpiresAt.Sub(s.now()))
	return true, nil
}

// Check returns ErrRevokedToken when token is revoked and a wrapped error when the lookup fails.
func (s *Store) Check(ctx context.Context, token string) error {
	revoked, err := s.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return ErrRevokedToken
	}
	return nil
}

// Sweep deletes records whose token expired at or before now. A record for an expired token
// can never matter again because the codec already rejects the token.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep revocations: %w", err)
	}
	return n, nil
}

func (s *Store) expiry(token string, now time.Time) time.Time {
	if s.peeker != nil {
		if claims, ok := s.peeker.Peek(token); ok && claims.ExpiresAt != nil {
			return claims.ExpiresAt.Time.UTC()
		}
	}
	return now.Add(s.fallback)
}

func (s *Store) cacheRevoked(ctx context.Context, fingerprint string, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.MarkRevoked(ctx, fingerprint, ttl); err != nil {
		log.Printf("revocation: cache write failed: %v", err)
	}
}
