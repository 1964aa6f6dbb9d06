package repository

import (
	"context"

	authdomain "dairytale/internal/auth/domain"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	Create(ctx context.Context, profile *authdomain.Profile) error
	// FindByID returns nil, nil when the profile does not exist.
	FindByID(ctx context.Context, id string) (*authdomain.Profile, error)
}
