package products

import (
	"context"
	"time"
)

type Catalog interface {
	// categoryID == 0 => todas las categorías
	ListProducts(ctx context.Context, categoryID int64) ([]Product, error)
	GetProductDetails(ctx context.Context, id int64) (ProductDetails, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateProduct resuelve la categoría por nombre y la crea si no existe.
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r Review) (Review, error)
	// ListReviews devuelve las reseñas más nuevas primero, con UserName si el usuario existe.
	ListReviews(ctx context.Context, productID int64) ([]Review, error)
}

type CartStore interface {
	// UpsertCartItem suma item.Quantity a la línea existente o la crea.
	// inserted indica si la línea es nueva.
	UpsertCartItem(ctx context.Context, item CartItem) (line CartItem, inserted bool, err error)
	CartCount(ctx context.Context, userID int64) (int, error)
	ListCart(ctx context.Context, userID int64) ([]CartLine, error)
	UpdateCartQuantity(ctx context.Context, cartID int64, quantity int, at time.Time) error
	DeleteCartItem(ctx context.Context, cartID int64) error
	ClearCart(ctx context.Context, userID int64) (int64, error)
}

type WishlistStore interface {
	ListWishlist(ctx context.Context, userID int64) ([]WishlistItem, error)
	// ToggleWishlist quita el par si existe o lo agrega si no; added indica el estado final.
	ToggleWishlist(ctx context.Context, userID, productID int64, at time.Time) (added bool, err error)
}

type Repository interface {
	Catalog
	ReviewStore
	CartStore
	WishlistStore
}
