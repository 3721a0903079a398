package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-shop-platform/internal/domain/products"

	"github.com/shopspring/decimal"
)

type cartKey struct {
	userID    int64
	productID int64
}

// ProductsRepo implementa products.Repository en memoria (dev/tests).
// Un único mutex cubre catálogo, carrito y wishlist, así upsert y toggle son atómicos.
type ProductsRepo struct {
	mu sync.RWMutex

	seq int64

	products   map[int64]products.Product
	categories map[int64]products.Category
	reviews    []products.Review
	userNames  map[int64]string

	cart      map[int64]products.CartItem
	cartByKey map[cartKey]int64

	wishlist map[cartKey]time.Time
}

func NewProductsRepo() *ProductsRepo {
	return &ProductsRepo{
		products:   make(map[int64]products.Product),
		categories: make(map[int64]products.Category),
		userNames:  make(map[int64]string),
		cart:       make(map[int64]products.CartItem),
		cartByKey:  make(map[cartKey]int64),
		wishlist:   make(map[cartKey]time.Time),
	}
}

func (r *ProductsRepo) nextID() int64 {
	r.seq++
	return r.seq
}

// SeedCategory agrega una categoría (datos de dev/tests).
func (r *ProductsRepo) SeedCategory(c products.Category) products.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		c.ID = r.nextID()
	}
	r.categories[c.ID] = c
	return c
}

// SeedProduct agrega un producto (datos de dev/tests).
func (r *ProductsRepo) SeedProduct(p products.Product) products.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID()
	}
	if c, ok := r.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	r.products[p.ID] = p
	return p
}

// SeedUserName simula la tabla users para el join de reseñas.
func (r *ProductsRepo) SeedUserName(userID int64, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userNames[userID] = userName
}

// ---------- Catálogo ----------

func (r *ProductsRepo) ListProducts(ctx context.Context, categoryID int64) ([]products.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.Product, 0, len(r.products))
	for _, p := range r.products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductsRepo) GetProductDetails(ctx context.Context, id int64) (products.ProductDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return products.ProductDetails{}, products.ErrNotFound
	}

	sum, n := decimal.Zero, int64(0)
	for _, rv := range r.reviews {
		if rv.ProductID == id {
			sum = sum.Add(decimal.NewFromInt(int64(rv.Rating)))
			n++
		}
	}
	avg := decimal.Zero
	if n > 0 {
		avg = sum.Div(decimal.NewFromInt(n))
	}
	return products.ProductDetails{Product: p, AverageRating: avg}, nil
}

func (r *ProductsRepo) ListCategories(ctx context.Context) ([]products.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductsRepo) CreateProduct(ctx context.Context, p products.Product) (products.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var catID int64
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, p.CategoryName) {
			catID = c.ID
			break
		}
	}
	if catID == 0 {
		catID = r.nextID()
		r.categories[catID] = products.Category{ID: catID, Name: p.CategoryName}
	}

	p.ID = r.nextID()
	p.CategoryID = catID
	r.products[p.ID] = p
	return p, nil
}

func (r *ProductsRepo) UpdateProduct(ctx context.Context, p products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.products[p.ID]
	if !ok {
		return products.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.OriginalPrice = cur.OriginalPrice
	p.DiscountPercentage = cur.DiscountPercentage
	if c, ok := r.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	r.products[p.ID] = p
	return nil
}

func (r *ProductsRepo) DeleteProduct(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return products.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// ---------- Reseñas ----------

func (r *ProductsRepo) CreateReview(ctx context.Context, rv products.Review) (products.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv.ID = r.nextID()
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *ProductsRepo) ListReviews(ctx context.Context, productID int64) ([]products.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.Review, 0)
	for _, rv := range r.reviews {
		if rv.ProductID != productID {
			continue
		}
		rv.UserName = r.userNames[rv.UserID]
		out = append(out, rv)
	}

	// más nuevas primero; a igual fecha, el id más alto primero
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ---------- Carrito ----------

func (r *ProductsRepo) UpsertCartItem(ctx context.Context, item products.CartItem) (products.CartItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{userID: item.UserID, productID: item.ProductID}
	if id, ok := r.cartByKey[key]; ok {
		cur := r.cart[id]
		cur.Quantity += item.Quantity
		cur.CreatedAt = item.CreatedAt
		r.cart[id] = cur
		return cur, false, nil
	}

	item.ID = r.nextID()
	r.cart[item.ID] = item
	r.cartByKey[key] = item.ID
	return item, true, nil
}

func (r *ProductsRepo) CartCount(ctx context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, it := range r.cart {
		if it.UserID == userID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *ProductsRepo) ListCart(ctx context.Context, userID int64) ([]products.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.CartLine, 0)
	for _, it := range r.cart {
		if it.UserID != userID {
			continue
		}
		// LEFT JOIN: producto borrado => datos vacíos
		p := r.products[it.ProductID]
		out = append(out, products.CartLine{CartItem: it, Product: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductsRepo) UpdateCartQuantity(ctx context.Context, cartID int64, quantity int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.cart[cartID]
	if !ok {
		return products.ErrNotFound
	}
	cur.Quantity = quantity
	cur.CreatedAt = at
	r.cart[cartID] = cur
	return nil
}

func (r *ProductsRepo) DeleteCartItem(ctx context.Context, cartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.cart[cartID]
	if !ok {
		return products.ErrNotFound
	}
	delete(r.cart, cartID)
	delete(r.cartByKey, cartKey{userID: cur.UserID, productID: cur.ProductID})
	return nil
}

func (r *ProductsRepo) ClearCart(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, it := range r.cart {
		if it.UserID != userID {
			continue
		}
		delete(r.cart, id)
		delete(r.cartByKey, cartKey{userID: it.UserID, productID: it.ProductID})
		n++
	}
	return n, nil
}

// ---------- Wishlist ----------

func (r *ProductsRepo) ListWishlist(ctx context.Context, userID int64) ([]products.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]products.WishlistItem, 0)
	for k, at := range r.wishlist {
		if k.userID != userID {
			continue
		}
		// JOIN: si el producto ya no existe, no aparece
		p, ok := r.products[k.productID]
		if !ok {
			continue
		}
		out = append(out, products.WishlistItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Price:       p.Price,
			Image:       p.Image,
			AddedAt:     at,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ProductID > out[j].ProductID
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (r *ProductsRepo) ToggleWishlist(ctx context.Context, userID, productID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{userID: userID, productID: productID}
	if _, ok := r.wishlist[key]; ok {
		delete(r.wishlist, key)
		return false, nil
	}
	r.wishlist[key] = at
	return true, nil
}
