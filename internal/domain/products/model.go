package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un artículo del catálogo.
type Product struct {
	ID           int64
	Name         string
	Description  string
	CategoryID   int64
	CategoryName string

	Price              decimal.Decimal
	OriginalPrice      decimal.NullDecimal // precio antes del descuento, si aplica
	DiscountPercentage decimal.NullDecimal

	Stock int
	Image string // nombre de archivo dentro de /images/products

	CreatedAt time.Time
}

// ProductDetails agrega el rating promedio de las reseñas (0 si no hay).
type ProductDetails struct {
	Product
	AverageRating decimal.Decimal
}

type Category struct {
	ID          int64
	Name        string
	Description string
}

// Review es append-only. UserName se resuelve al leer (join contra users).
type Review struct {
	ID        int64
	UserID    int64
	ProductID int64
	Comment   string
	Rating    int
	CreatedAt time.Time

	UserName string
}

// CartItem es una línea de carrito; hay a lo sumo una por (UserID, ProductID).
type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	CreatedAt time.Time
}

// CartLine es la línea de carrito con el producto resuelto.
type CartLine struct {
	CartItem
	Product Product
}

type WishlistItem struct {
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
	Image       string
	AddedAt     time.Time
}
