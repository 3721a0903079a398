package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidPrice    = errors.New("price must be a positive number")
	ErrNotFound        = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ---------- Catálogo ----------

func (s *Service) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	if categoryID < 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListProducts(ctx, categoryID)
}

func (s *Service) ProductDetails(ctx context.Context, id int64) (ProductDetails, error) {
	if id <= 0 {
		return ProductDetails{}, ErrNotFound
	}
	return s.repo.GetProductDetails(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

type ProductInput struct {
	Name         string
	Description  string
	CategoryID   int64  // usado al actualizar
	CategoryName string // usado al crear (se resuelve o se crea)
	Price        decimal.Decimal
	Stock        int
	Image        string
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	if err := validateProductInput(in); err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(in.CategoryName) == "" {
		return Product{}, ErrInvalidInput
	}

	return s.repo.CreateProduct(ctx, Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		CategoryName: strings.TrimSpace(in.CategoryName),
		Price:        in.Price,
		Stock:        in.Stock,
		Image:        strings.TrimSpace(in.Image),
		CreatedAt:    s.now(),
	})
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	if err := validateProductInput(in); err != nil {
		return err
	}
	if in.CategoryID <= 0 {
		return ErrInvalidInput
	}

	return s.repo.UpdateProduct(ctx, Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       strings.TrimSpace(in.Image),
	})
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.DeleteProduct(ctx, id)
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Image) == "" ||
		in.Stock <= 0 {
		return ErrInvalidInput
	}
	if !in.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// ---------- Reseñas ----------

type ReviewInput struct {
	UserID    int64
	ProductID int64
	Comment   string
	Rating    int
}

func (s *Service) AddReview(ctx context.Context, in ReviewInput) (Review, error) {
	if in.UserID <= 0 || in.ProductID <= 0 || strings.TrimSpace(in.Comment) == "" || in.Rating == 0 {
		return Review{}, ErrInvalidInput
	}
	if in.Rating < 1 || in.Rating > 5 {
		return Review{}, ErrInvalidRating
	}

	return s.repo.CreateReview(ctx, Review{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Comment:   strings.TrimSpace(in.Comment),
		Rating:    in.Rating,
		CreatedAt: s.now(),
	})
}

// Reviews devuelve ErrNotFound si el producto no tiene reseñas.
func (s *Service) Reviews(ctx context.Context, productID int64) ([]Review, error) {
	items, err := s.repo.ListReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	for i := range items {
		if strings.TrimSpace(items[i].UserName) == "" {
			items[i].UserName = fmt.Sprintf("User %d", items[i].UserID)
		}
	}
	return items, nil
}

// ---------- Carrito ----------

type CartInput struct {
	UserID    int64
	ProductID int64
	Quantity  int
}

// AddToCart crea la línea o suma la cantidad a la existente en una sola operación atómica.
func (s *Service) AddToCart(ctx context.Context, in CartInput) (CartItem, bool, error) {
	if in.UserID <= 0 || in.ProductID <= 0 || in.Quantity == 0 {
		return CartItem{}, false, ErrInvalidInput
	}
	if in.Quantity < 0 {
		return CartItem{}, false, ErrInvalidQuantity
	}

	return s.repo.UpsertCartItem(ctx, CartItem{
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CreatedAt: s.now(),
	})
}

func (s *Service) CartCount(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.CartCount(ctx, userID)
}

func (s *Service) Cart(ctx context.Context, userID int64) ([]CartLine, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListCart(ctx, userID)
}

// UpdateCartItem reemplaza la cantidad. quantity nil => ErrInvalidInput; <= 0 => ErrInvalidQuantity
// y la línea no se toca.
func (s *Service) UpdateCartItem(ctx context.Context, cartID int64, quantity *int) error {
	if cartID <= 0 || quantity == nil {
		return ErrInvalidInput
	}
	if *quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.repo.UpdateCartQuantity(ctx, cartID, *quantity, s.now())
}

func (s *Service) RemoveCartItem(ctx context.Context, cartID int64) error {
	if cartID <= 0 {
		return ErrInvalidInput
	}
	return s.repo.DeleteCartItem(ctx, cartID)
}

// ClearCart vacía el carrito; ErrNotFound si no había líneas.
func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	n, err := s.repo.ClearCart(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- Wishlist ----------

func (s *Service) Wishlist(ctx context.Context, userID int64) ([]WishlistItem, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListWishlist(ctx, userID)
}

func (s *Service) ToggleWishlist(ctx context.Context, userID, productID int64) (bool, error) {
	if userID <= 0 || productID <= 0 {
		return false, ErrInvalidInput
	}
	return s.repo.ToggleWishlist(ctx, userID, productID, s.now())
}
