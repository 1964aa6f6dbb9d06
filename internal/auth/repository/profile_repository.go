package repository

import (
	"context"
	"errors"
	"time"

	authdomain "dairytale/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// profileRepository implements ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of profileRepository
func NewProfileRepository(db *gorm.DB) (ProfileRepository, error) {
	if err := db.AutoMigrate(&authdomain.Profile{}); err != nil {
		return nil, err
	}
	return &profileRepository{db: db}, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *authdomain.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	profile.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*authdomain.Profile, error) {
	var profile authdomain.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
