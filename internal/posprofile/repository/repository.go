package repository

import (
	"context"

	"github.com/MohamedAliSmk/pos-app/internal/posprofile/domain"
)

// Repository defines persistence for POS profiles.
type Repository interface {
	// GetByUser returns the profile the user is assigned to, or nil if none.
	// A user assigned to several profiles gets the first by name.
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	AssignUser(ctx context.Context, profileName, userID string) error
}
