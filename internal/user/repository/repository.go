package repository

import (
	"context"

	"github.com/MohamedAliSmk/pos-app/internal/user/domain"
)

// Repository defines persistence for users and their roles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByLogin returns the user whose id or email equals login.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	// ListRoles returns the user's role names in alphabetical order.
	ListRoles(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, u *domain.User) error
	// AddRole grants role to the user. Granting an existing role is a no-op.
	AddRole(ctx context.Context, userID, role string) error
}
