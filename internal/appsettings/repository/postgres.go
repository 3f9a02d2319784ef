package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/MohamedAliSmk/pos-app/internal/appsettings/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an app settings repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns app settings from the DB, with empty values for missing keys.
func (r *PostgresRepository) Get(ctx context.Context) (*domain.Settings, error) {
	out := &domain.Settings{}
	logo, err := r.get(ctx, domain.KeyPOSLogo)
	if err != nil {
		return nil, err
	}
	out.POSLogo = logo
	return out, nil
}

// Set upserts key to value.
func (r *PostgresRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	return err
}

func (r *PostgresRepository) get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(v), nil
}
