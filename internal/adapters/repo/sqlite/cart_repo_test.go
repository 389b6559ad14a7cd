package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/konamall/storefront/internal/domain"
)

func newTestRepo(t *testing.T) *CartRepo {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "cart.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.CartLine{}))
	return NewCartRepo(db)
}

func TestCartRepoRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	vid := int64(3)
	lines := []domain.CartLine{
		{LocalID: uuid.NewString(), ProductID: 1, Quantity: 2, PriceKRW: 1000, Name: "A", Position: 0},
		{LocalID: uuid.NewString(), ProductID: 2, VariantID: &vid, Quantity: 1, PriceKRW: 500, Name: "B", Position: 1},
	}
	require.NoError(t, repo.Replace(ctx, lines))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ProductID)
	assert.Nil(t, got[0].VariantID)
	require.NotNil(t, got[1].VariantID)
	assert.Equal(t, int64(3), *got[1].VariantID)
}

func TestCartRepoReplaceOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, []domain.CartLine{
		{LocalID: uuid.NewString(), ProductID: 1, Quantity: 1, Position: 0},
		{LocalID: uuid.NewString(), ProductID: 2, Quantity: 1, Position: 1},
	}))
	require.NoError(t, repo.Replace(ctx, []domain.CartLine{
		{LocalID: uuid.NewString(), ProductID: 9, Quantity: 4, Position: 0},
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ProductID)

	t.Run("replace with nothing empties the table", func(t *testing.T) {
		require.NoError(t, repo.Replace(ctx, nil))
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCartRepoLoadOrdersByPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, []domain.CartLine{
		{LocalID: uuid.NewString(), ProductID: 30, Quantity: 1, Position: 2},
		{LocalID: uuid.NewString(), ProductID: 10, Quantity: 1, Position: 0},
		{LocalID: uuid.NewString(), ProductID: 20, Quantity: 1, Position: 1},
	}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(10), got[0].ProductID)
	assert.Equal(t, int64(20), got[1].ProductID)
	assert.Equal(t, int64(30), got[2].ProductID)
}
