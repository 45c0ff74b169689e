package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookdiary/internal/models"
	"bookdiary/internal/storage/stubs"
)

func TestSeedItems(t *testing.T) {
	items, err := SeedItems()
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Sorted by ID, every entry fully populated
	for i, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.Authors)
		if i > 0 {
			assert.Less(t, items[i-1].ID, item.ID)
		}
	}
}

func TestSeedItems_FreshSlice(t *testing.T) {
	first, err := SeedItems()
	require.NoError(t, err)

	// Mutating one copy must not leak into subsequent calls
	first[0].Title = "mutated"

	second, err := SeedItems()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Title)
}

func TestStoreProvider_FallsBackToSeed(t *testing.T) {
	db := stubs.NewMockDB()
	provider := NewStoreProvider(db, zap.NewNop())

	items, err := provider.LoadPool(context.Background())
	require.NoError(t, err)

	seed, err := SeedItems()
	require.NoError(t, err)
	assert.Equal(t, seed, items)
}

func TestStoreProvider_ServesStoredBooks(t *testing.T) {
	db := stubs.NewMockDB()
	ctx := context.Background()

	require.NoError(t, db.UpsertBook(ctx, models.CatalogItem{ID: "z9", Title: "Last"}))
	require.NoError(t, db.UpsertBook(ctx, models.CatalogItem{ID: "a1", Title: "First"}))

	provider := NewStoreProvider(db, zap.NewNop())
	items, err := provider.LoadPool(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "z9", items[1].ID)
}

func TestStoreProvider_StoreFailure(t *testing.T) {
	db := stubs.NewMockDB()
	db.SetUnavailable(true)

	provider := NewStoreProvider(db, zap.NewNop())
	_, err := provider.LoadPool(context.Background())
	assert.Error(t, err)
}
