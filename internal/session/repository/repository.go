package repository

import (
	"context"

	"github.com/MohamedAliSmk/pos-app/internal/session/domain"
)

// Repository defines persistence for login sessions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Revoke marks the session revoked. Revoking an unknown or already revoked session is a no-op.
	Revoke(ctx context.Context, id string) error
}
