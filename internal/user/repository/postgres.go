package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MohamedAliSmk/pos-app/internal/user/domain"
)

const selectUser = `SELECT id, email, full_name, user_image, password_hash, enabled, created_at, updated_at FROM users`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found. Roles are not loaded; use ListRoles.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

// GetByLogin returns the user whose id or email equals login, or nil if not found.
// An exact id match wins over an email match.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		selectUser+` WHERE id = $1 OR lower(email) = lower($1) ORDER BY (id = $1) DESC LIMIT 1`, login))
}

// ListRoles returns the role names granted to userID.
func (r *PostgresRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, user_image, password_hash, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.FullName, sql.NullString{String: u.UserImage, Valid: u.UserImage != ""},
		u.PasswordHash, u.Enabled, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// AddRole grants role to userID.
func (r *PostgresRepository) AddRole(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, role)
	return err
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u     domain.User
		image sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &image, &u.PasswordHash, &u.Enabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.UserImage = image.String
	return &u, nil
}
