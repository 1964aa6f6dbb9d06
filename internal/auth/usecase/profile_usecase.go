package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "dairytale/internal/auth/domain"
	"dairytale/internal/auth/repository"
	"dairytale/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// profileUsecase implements ProfileUsecase interface
type profileUsecase struct {
	profileRepo repository.ProfileRepository
	config      *config.Config
	now         func() time.Time
}

// NewProfileUsecase creates a new instance of profileUsecase
func NewProfileUsecase(profileRepo repository.ProfileRepository, cfg *config.Config) ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		config:      cfg,
		now:         time.Now,
	}
}

func (u *profileUsecase) Issue(ctx context.Context) (*authdomain.IssuedProfile, error) {
	profile := &authdomain.Profile{}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	expiresAt := u.now().Add(u.config.ProfileTTL)
	claims := jwt.MapClaims{
		"profile_id": profile.ID,
		"exp":        expiresAt.Unix(),
		"iat":        u.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.config.ProfileSecret))
	if err != nil {
		return nil, err
	}

	return &authdomain.IssuedProfile{Profile: profile, Token: token, ExpiresAt: expiresAt}, nil
}

func (u *profileUsecase) Validate(ctx context.Context, tokenString string) (*authdomain.Profile, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.ProfileSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(u.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	profileID, ok := claims["profile_id"].(string)
	if !ok || profileID == "" {
		return nil, ErrInvalidToken
	}

	profile, err := u.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUnknownProfile
	}
	return profile, nil
}
