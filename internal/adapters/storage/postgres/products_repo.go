package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-shop-platform/internal/domain/products"
)

type ProductsRepo struct {
	db *sql.DB
}

func NewProductsRepo(db *sql.DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

const productColumns = `
	p.id_product, p.product_name, p.description,
	COALESCE(p.id_category, 0), COALESCE(c.category, ''),
	p.price, p.original_price, p.discount_percentage,
	p.stock, p.image, p.created_at`

func scanProduct(s rowScanner, p *products.Product) error {
	return s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CategoryID,
		&p.CategoryName,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercentage,
		&p.Stock,
		&p.Image,
		&p.CreatedAt,
	)
}

// ---------- Catálogo ----------

func (r *ProductsRepo) ListProducts(ctx context.Context, categoryID int64) ([]products.Product, error) {
	q := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN category c ON c.id_category = p.id_category`
	args := []any{}
	if categoryID > 0 {
		q += ` WHERE p.id_category = $1`
		args = append(args, categoryID)
	}
	q += ` ORDER BY p.id_product ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		var p products.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductsRepo) GetProductDetails(ctx context.Context, id int64) (products.ProductDetails, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`,
			COALESCE((SELECT AVG(rv.rating) FROM reviews rv WHERE rv.id_product = p.id_product), 0)
		FROM products p
		LEFT JOIN category c ON c.id_category = p.id_category
		WHERE p.id_product = $1
	`, id)

	var d products.ProductDetails
	p := &d.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.CategoryID,
		&p.CategoryName,
		&p.Price,
		&p.OriginalPrice,
		&p.DiscountPercentage,
		&p.Stock,
		&p.Image,
		&p.CreatedAt,
		&d.AverageRating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.ProductDetails{}, products.ErrNotFound
		}
		return products.ProductDetails{}, fmt.Errorf("product details: %w", err)
	}
	return d, nil
}

func (r *ProductsRepo) ListCategories(ctx context.Context) ([]products.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_category, category, description
		FROM category
		ORDER BY id_category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]products.Category, 0)
	for rows.Next() {
		var c products.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateProduct resuelve (o crea) la categoría y el producto en la misma transacción.
func (r *ProductsRepo) CreateProduct(ctx context.Context, p products.Product) (products.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return products.Product{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// ON CONFLICT DO UPDATE para que RETURNING traiga el id también cuando ya existe
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO category (category, description)
		VALUES ($1, '')
		ON CONFLICT (category) DO UPDATE SET category = EXCLUDED.category
		RETURNING id_category
	`, p.CategoryName).Scan(&p.CategoryID); err != nil {
		return products.Product{}, fmt.Errorf("resolve category: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO products (
			product_name, description, id_category,
			price, original_price, discount_percentage,
			stock, image, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id_product
	`,
		p.Name,
		p.Description,
		p.CategoryID,
		p.Price,
		p.OriginalPrice,
		p.DiscountPercentage,
		p.Stock,
		p.Image,
		p.CreatedAt,
	).Scan(&p.ID); err != nil {
		return products.Product{}, fmt.Errorf("insert product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return products.Product{}, err
	}
	return p, nil
}

func (r *ProductsRepo) UpdateProduct(ctx context.Context, p products.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET
			product_name = $2,
			description = $3,
			id_category = $4,
			price = $5,
			stock = $6,
			image = $7
		WHERE id_product = $1
	`,
		p.ID,
		p.Name,
		p.Description,
		p.CategoryID,
		p.Price,
		p.Stock,
		p.Image,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return affectedOrNotFound(res, products.ErrNotFound)
}

func (r *ProductsRepo) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id_product = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return affectedOrNotFound(res, products.ErrNotFound)
}

// ---------- Reseñas ----------

func (r *ProductsRepo) CreateReview(ctx context.Context, rv products.Review) (products.Review, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (id_user, id_product, review, rating, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id_review
	`, rv.UserID, rv.ProductID, rv.Comment, rv.Rating, rv.CreatedAt).Scan(&rv.ID)
	if err != nil {
		return products.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return rv, nil
}

// ListReviews resuelve UserName con un LEFT JOIN en el mismo store (sin llamadas al servicio de usuarios).
func (r *ProductsRepo) ListReviews(ctx context.Context, productID int64) ([]products.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rv.id_review, rv.id_user, rv.id_product, rv.review, rv.rating, rv.created_at,
			COALESCE(u.user_name, '')
		FROM reviews rv
		LEFT JOIN users u ON u.id_user = rv.id_user
		WHERE rv.id_product = $1
		ORDER BY rv.created_at DESC, rv.id_review DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]products.Review, 0)
	for rows.Next() {
		var rv products.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.ProductID,
			&rv.Comment,
			&rv.Rating,
			&rv.CreatedAt,
			&rv.UserName,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ---------- Carrito ----------

// UpsertCartItem es una sola sentencia sobre UNIQUE (id_user, id_product): dos altas
// concurrentes del mismo par terminan en una fila con la suma de cantidades.
// xmax = 0 solo para filas recién insertadas.
func (r *ProductsRepo) UpsertCartItem(ctx context.Context, item products.CartItem) (products.CartItem, bool, error) {
	var (
		line     products.CartItem
		inserted bool
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart (id_user, id_product, quantity, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id_user, id_product)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, created_at = EXCLUDED.created_at
		RETURNING id_cart, id_user, id_product, quantity, created_at, (xmax = 0) AS inserted
	`, item.UserID, item.ProductID, item.Quantity, item.CreatedAt).Scan(
		&line.ID,
		&line.UserID,
		&line.ProductID,
		&line.Quantity,
		&line.CreatedAt,
		&inserted,
	)
	if err != nil {
		return products.CartItem{}, false, fmt.Errorf("upsert cart: %w", err)
	}
	return line, inserted, nil
}

func (r *ProductsRepo) CartCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM cart WHERE id_user = $1
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("cart count: %w", err)
	}
	return n, nil
}

func (r *ProductsRepo) ListCart(ctx context.Context, userID int64) ([]products.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ct.id_cart, ct.id_user, ct.id_product, ct.quantity, ct.created_at,
			COALESCE(p.product_name, ''), COALESCE(p.description, ''),
			COALESCE(p.price, 0), COALESCE(p.image, '')
		FROM cart ct
		LEFT JOIN products p ON p.id_product = ct.id_product
		WHERE ct.id_user = $1
		ORDER BY ct.id_cart ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	out := make([]products.CartLine, 0)
	for rows.Next() {
		var l products.CartLine
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.ProductID,
			&l.Quantity,
			&l.CreatedAt,
			&l.Product.Name,
			&l.Product.Description,
			&l.Product.Price,
			&l.Product.Image,
		); err != nil {
			return nil, err
		}
		l.Product.ID = l.ProductID
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ProductsRepo) UpdateCartQuantity(ctx context.Context, cartID int64, quantity int, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart SET quantity = $2, created_at = $3 WHERE id_cart = $1
	`, cartID, quantity, at)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return affectedOrNotFound(res, products.ErrNotFound)
}

func (r *ProductsRepo) DeleteCartItem(ctx context.Context, cartID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE id_cart = $1`, cartID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return affectedOrNotFound(res, products.ErrNotFound)
}

func (r *ProductsRepo) ClearCart(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE id_user = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}

// ---------- Wishlist ----------

func (r *ProductsRepo) ListWishlist(ctx context.Context, userID int64) ([]products.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id_product, p.product_name, p.price, p.image, w.created_at
		FROM wishlist w
		JOIN products p ON p.id_product = w.id_product
		WHERE w.id_user = $1
		ORDER BY w.created_at DESC, p.id_product DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	out := make([]products.WishlistItem, 0)
	for rows.Next() {
		var w products.WishlistItem
		if err := rows.Scan(&w.ProductID, &w.ProductName, &w.Price, &w.Image, &w.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ToggleWishlist borra el par si existe o lo inserta si no, en una sola sentencia.
// Dos toggles concurrentes del mismo par nunca dejan filas duplicadas (PK).
func (r *ProductsRepo) ToggleWishlist(ctx context.Context, userID, productID int64, at time.Time) (bool, error) {
	var added bool
	err := r.db.QueryRowContext(ctx, `
		WITH removed AS (
			DELETE FROM wishlist WHERE id_user = $1 AND id_product = $2
			RETURNING id_product
		), inserted AS (
			INSERT INTO wishlist (id_user, id_product, created_at)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM removed)
			ON CONFLICT (id_user, id_product) DO NOTHING
			RETURNING id_product
		)
		SELECT NOT EXISTS (SELECT 1 FROM removed)
	`, userID, productID, at).Scan(&added)
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	return added, nil
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
