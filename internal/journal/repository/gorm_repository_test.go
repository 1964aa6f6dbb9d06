package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) StorageRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	repo, err := NewGormStorageRepository(db)
	require.NoError(t, err)
	return repo
}

func TestGormStorageRepositoryLoadMissing(t *testing.T) {
	repo := newTestRepo(t)

	value, err := repo.Load(context.Background(), "profile-1", "story-storage")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestGormStorageRepositorySaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "profile-1", "story-storage", []byte(`{"v":1}`)))
	require.NoError(t, repo.Save(ctx, "profile-1", "story-storage", []byte(`{"v":2}`)))

	value, err := repo.Load(ctx, "profile-1", "story-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(value))
}

func TestGormStorageRepositoryIsolatesProfiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "profile-1", "story-storage", []byte("one")))
	require.NoError(t, repo.Save(ctx, "profile-2", "story-storage", []byte("two")))

	one, err := repo.Load(ctx, "profile-1", "story-storage")
	require.NoError(t, err)
	two, err := repo.Load(ctx, "profile-2", "story-storage")
	require.NoError(t, err)

	assert.Equal(t, "one", string(one))
	assert.Equal(t, "two", string(two))
}

func TestGormStorageRepositoryDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "profile-1", "story-storage", []byte("x")))
	require.NoError(t, repo.Delete(ctx, "profile-1", "story-storage"))
	require.NoError(t, repo.Delete(ctx, "profile-1", "story-storage"))

	value, err := repo.Load(ctx, "profile-1", "story-storage")
	require.NoError(t, err)
	assert.Nil(t, value)
}
