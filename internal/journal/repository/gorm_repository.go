package repository

import (
	"context"
	"errors"
	"time"

	"dairytale/internal/journal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStorageRepository implements StorageRepository using GORM
type gormStorageRepository struct {
	db *gorm.DB
}

// NewGormStorageRepository creates a new GORM-based StorageRepository
func NewGormStorageRepository(db *gorm.DB) (StorageRepository, error) {
	if err := db.AutoMigrate(&domain.StorageEntry{}); err != nil {
		return nil, err
	}
	return &gormStorageRepository{db: db}, nil
}

func (r *gormStorageRepository) Load(ctx context.Context, profileID, key string) ([]byte, error) {
	var entry domain.StorageEntry
	err := r.db.WithContext(ctx).Where("profile_id = ? AND storage_key = ?", profileID, key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (r *gormStorageRepository) Save(ctx context.Context, profileID, key string, value []byte) error {
	entry := domain.StorageEntry{
		ProfileID: profileID,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *gormStorageRepository) Delete(ctx context.Context, profileID, key string) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND storage_key = ?", profileID, key).
		Delete(&domain.StorageEntry{}).Error
}
