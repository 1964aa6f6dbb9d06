package database

import (
	"context"
	"testing"

	"dairytale/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSQLite(t *testing.T) {
	db, err := NewConnection(&config.Config{DBDriver: "sqlite", DatabaseURL: "file::memory:"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewConnection(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestNewRedisClientFailsFast(t *testing.T) {
	// nothing listens on port 1
	_, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "redis ping")
}
