package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/session/domain"
)

const selectSession = `SELECT id, user_id, ip_address, created_at, expires_at, revoked_at FROM sessions`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, selectSession+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, ip_address, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, sql.NullString{String: s.IPAddress, Valid: s.IPAddress != ""},
		s.CreatedAt, s.ExpiresAt, timeToNullTime(s.RevokedAt),
	)
	return err
}

// Revoke marks the session with the given id as revoked. The first revocation time is kept.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`, id, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s       domain.Session
		ip      sql.NullString
		revoked sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.UserID, &ip, &s.CreatedAt, &s.ExpiresAt, &revoked); err != nil {
		return nil, err
	}
	s.IPAddress = ip.String
	s.RevokedAt = nullTimeToPtr(revoked)
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
