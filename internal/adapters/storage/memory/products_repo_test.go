package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"pet-shop-platform/internal/domain/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsRepo_UpsertMergesQuantities(t *testing.T) {
	repo := NewProductsRepo()
	ctx := context.Background()
	now := time.Now()

	first, inserted, err := repo.UpsertCartItem(ctx, products.CartItem{UserID: 7, ProductID: 3, Quantity: 2, CreatedAt: now})
	require.NoError(t, err)
	assert.True(t, inserted)

	second, inserted, err := repo.UpsertCartItem(ctx, products.CartItem{UserID: 7, ProductID: 3, Quantity: 5, CreatedAt: now})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 7, second.Quantity)

	lines, err := repo.ListCart(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestProductsRepo_ConcurrentUpsertKeepsOneRow(t *testing.T) {
	repo := NewProductsRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = repo.UpsertCartItem(ctx, products.CartItem{UserID: 1, ProductID: 1, Quantity: 1})
		}()
	}
	wg.Wait()

	lines, err := repo.ListCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
}

func TestProductsRepo_ToggleWishlistXOR(t *testing.T) {
	repo := NewProductsRepo()
	ctx := context.Background()
	p := repo.SeedProduct(products.Product{Name: "Collar"})

	for i := 1; i <= 5; i++ {
		added, err := repo.ToggleWishlist(ctx, 9, p.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, added, "toggle #%d", i)

		items, err := repo.ListWishlist(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, len(items) == 1, "toggle #%d", i)
	}
}

func TestProductsRepo_DeleteCartItemFreesKey(t *testing.T) {
	repo := NewProductsRepo()
	ctx := context.Background()

	line, _, err := repo.UpsertCartItem(ctx, products.CartItem{UserID: 1, ProductID: 2, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCartItem(ctx, line.ID))
	assert.ErrorIs(t, repo.DeleteCartItem(ctx, line.ID), products.ErrNotFound)

	_, inserted, err := repo.UpsertCartItem(ctx, products.CartItem{UserID: 1, ProductID: 2, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, inserted)
}
