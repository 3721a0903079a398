package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-shop-platform/internal/domain/products"
)

func newMock(t *testing.T) (*ProductsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewProductsRepo(db), mock
}

func TestProductsRepo_UpsertCartItem_Merge(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (id_user, id_product)`)).
		WithArgs(int64(1), int64(5), 2, at).
		WillReturnRows(sqlmock.NewRows([]string{"id_cart", "id_user", "id_product", "quantity", "created_at", "inserted"}).
			AddRow(int64(9), int64(1), int64(5), 5, at, false))

	line, inserted, err := repo.UpsertCartItem(context.Background(), products.CartItem{
		UserID: 1, ProductID: 5, Quantity: 2, CreatedAt: at,
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, int64(9), line.ID)
	assert.Equal(t, 5, line.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepo_UpsertCartItem_Error(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cart`)).
		WillReturnError(errors.New("boom"))

	_, _, err := repo.UpsertCartItem(context.Background(), products.CartItem{UserID: 1, ProductID: 5, Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert cart")
}

func TestProductsRepo_ToggleWishlist(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WITH removed AS`)).
		WithArgs(int64(1), int64(5), at).
		WillReturnRows(sqlmock.NewRows([]string{"added"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`WITH removed AS`)).
		WithArgs(int64(1), int64(5), at).
		WillReturnRows(sqlmock.NewRows([]string{"added"}).AddRow(false))

	added, err := repo.ToggleWishlist(context.Background(), 1, 5, at)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.ToggleWishlist(context.Background(), 1, 5, at)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepo_UpdateCartQuantity_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart SET quantity`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCartQuantity(context.Background(), 77, 3, time.Now())
	assert.ErrorIs(t, err, products.ErrNotFound)
}

func TestProductsRepo_GetProductDetails(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products p`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id_product", "product_name", "description", "id_category", "category",
			"price", "original_price", "discount_percentage", "stock", "image", "created_at", "avg",
		}).AddRow(int64(3), "Croquetas", "Bolsa 10kg", int64(1), "Alimento",
			"499.90", nil, nil, 12, "croquetas.png", now, "4.5"))

	d, err := repo.GetProductDetails(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Croquetas", d.Name)
	assert.True(t, d.Price.Equal(decimal.RequireFromString("499.90")))
	assert.False(t, d.OriginalPrice.Valid)
	assert.Equal(t, "4.5", d.AverageRating.String())
}

func TestProductsRepo_GetProductDetails_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products p`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id_product"}))

	_, err := repo.GetProductDetails(context.Background(), 404)
	assert.ErrorIs(t, err, products.ErrNotFound)
}

func TestProductsRepo_CreateProduct_RollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO category`)).
		WithArgs("Juguetes").
		WillReturnRows(sqlmock.NewRows([]string{"id_category"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	_, err := repo.CreateProduct(context.Background(), products.Product{
		Name:         "Pelota",
		CategoryName: "Juguetes",
		Price:        decimal.NewFromInt(50),
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
