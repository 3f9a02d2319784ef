package repository

import (
	"context"

	"github.com/MohamedAliSmk/pos-app/internal/appsettings/domain"
)

// Repository defines access to the POS app settings.
type Repository interface {
	// Get returns the settings. Missing keys leave their fields empty.
	Get(ctx context.Context) (*domain.Settings, error)
	// Set upserts one setting.
	Set(ctx context.Context, key, value string) error
}
