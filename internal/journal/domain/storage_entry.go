package domain

import "time"

// StorageEntry is one persisted key-value pair of a profile's local storage
type StorageEntry struct {
	ProfileID string    `json:"profile_id" gorm:"primaryKey;size:64"`
	Key       string    `json:"key" gorm:"column:storage_key;primaryKey;size:128"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (StorageEntry) TableName() string {
	return "local_storage_entries"
}
