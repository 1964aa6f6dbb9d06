package repository

import "context"

// StorageRepository persists opaque values per profile and key
type StorageRepository interface {
	// Load returns the stored value, or nil when nothing was saved yet
	Load(ctx context.Context, profileID, key string) ([]byte, error)

	// Save creates or overwrites the value
	Save(ctx context.Context, profileID, key string, value []byte) error

	// Delete removes the value; deleting a missing key is not an error
	Delete(ctx context.Context, profileID, key string) error
}
