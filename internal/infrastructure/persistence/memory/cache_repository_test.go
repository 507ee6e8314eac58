package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepository_SetGet(t *testing.T) {
	repo := NewCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k1", []byte("v1"), time.Minute))

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestCacheRepository_GetMissing(t *testing.T) {
	repo := NewCacheRepository()
	_, err := repo.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestCacheRepository_Expiry(t *testing.T) {
	repo := NewCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k1", []byte("v1"), -time.Second))

	_, err := repo.Get(ctx, "k1")
	assert.Error(t, err)

	exists, err := repo.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepository_Delete(t *testing.T) {
	repo := NewCacheRepository()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, repo.Delete(ctx, "k1"))

	exists, err := repo.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepository_Exists(t *testing.T) {
	repo := NewCacheRepository()
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Set(ctx, "k1", []byte("v1"), time.Minute))

	exists, err = repo.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, exists)
}
