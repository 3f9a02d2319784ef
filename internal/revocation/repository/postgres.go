package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/revocation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a revocation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists r. Concurrent or repeated revocations of the same token collapse on the fingerprint primary key.
func (r *PostgresRepository) Insert(ctx context.Context, rec *domain.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (fingerprint, token, revoked_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fingerprint) DO NOTHING`,
		rec.Fingerprint, rec.Token, rec.RevokedAt, rec.ExpiresAt,
	)
	return err
}

// GetByFingerprint returns the record for fingerprint, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Record, error) {
	var rec domain.Record
	err := r.db.QueryRowContext(ctx, `
		SELECT fingerprint, token, revoked_at, expires_at
		FROM revoked_tokens
		WHERE fingerprint = $1`,
		fingerprint,
	).Scan(&rec.Fingerprint, &rec.Token, &rec.RevokedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// DeleteExpired removes records whose token expired at or before now.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
