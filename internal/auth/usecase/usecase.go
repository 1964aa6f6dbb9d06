package usecase

import (
	"context"
	"errors"

	authdomain "dairytale/internal/auth/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownProfile = errors.New("profile not found")
)

// ProfileUsecase issues and validates profile tokens
type ProfileUsecase interface {
	Issue(ctx context.Context) (*authdomain.IssuedProfile, error)
	Validate(ctx context.Context, token string) (*authdomain.Profile, error)
}
