package repository

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dairytale"

// redisStorageRepository implements StorageRepository on plain Redis string keys
type redisStorageRepository struct {
	rdb *goredis.Client
}

// NewRedisStorageRepository creates a Redis-backed StorageRepository
func NewRedisStorageRepository(rdb *goredis.Client) StorageRepository {
	return &redisStorageRepository{rdb: rdb}
}

func redisKey(profileID, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, profileID, key)
}

func (r *redisStorageRepository) Load(ctx context.Context, profileID, key string) ([]byte, error) {
	raw, err := r.rdb.Get(ctx, redisKey(profileID, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return raw, nil
}

func (r *redisStorageRepository) Save(ctx context.Context, profileID, key string, value []byte) error {
	if err := r.rdb.Set(ctx, redisKey(profileID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *redisStorageRepository) Delete(ctx context.Context, profileID, key string) error {
	if err := r.rdb.Del(ctx, redisKey(profileID, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
