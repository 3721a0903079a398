package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-shop-platform/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// HandlerOptions agrupa lo que los handlers necesitan además del Service.
type HandlerOptions struct {
	// URL pública del gateway; las imágenes se sirven en <ImageBaseURL>/images/products/<archivo>.
	ImageBaseURL string
	Log          logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	img := imageURLs(strings.TrimRight(opts.ImageBaseURL, "/") + "/images/products/")
	log := opts.Log

	r.Route("/api/products", func(pr chi.Router) {
		// Catálogo
		pr.Get("/", listProductsHandler(svc, img, log))
		pr.Get("/getCategories", listCategoriesHandler(svc, log))
		pr.Get("/details/{id}", productDetailsHandler(svc, img, log))

		// Administración de productos
		pr.Post("/insertProduct", createProductHandler(svc, log))
		pr.Put("/updateProduct/{id}", updateProductHandler(svc, log))
		pr.Delete("/deleteProduct/{id}", deleteProductHandler(svc, log))

		// Reseñas
		pr.Post("/sendReview", sendReviewHandler(svc, log))
		pr.Get("/getReviews/{id}", listReviewsHandler(svc, log))

		// Carrito
		pr.Post("/addCart", addCartHandler(svc, log))
		pr.Get("/cartCount/{IdUser}", cartCountHandler(svc, log))
		pr.Get("/getCart/{IdUser}", getCartHandler(svc, img, log))
		pr.Patch("/updateCartItem/{IdCart}", updateCartItemHandler(svc, log))
		pr.Delete("/deleteCartItem/{IdCart}", deleteCartItemHandler(svc, log))
		pr.Delete("/deleteCart", deleteCartHandler(svc, log))

		// Wishlist
		pr.Get("/getWishlist/{userId}", getWishlistHandler(svc, img, log))
		pr.Post("/toggleWishlist", toggleWishlistHandler(svc, log))
	})
}

// imageURLs arma la URL pública de una imagen de producto.
type imageURLs string

func (base imageURLs) For(file string) *string {
	file = strings.TrimSpace(file)
	if file == "" {
		return nil
	}
	u := string(base) + file
	return &u
}

// ---------- DTOs ----------

type productResponse struct {
	IdProduct          int64    `json:"IdProduct"`
	ProductName        string   `json:"ProductName"`
	Description        string   `json:"Description"`
	Category           string   `json:"Category"`
	Price              float64  `json:"Price"`
	Image              *string  `json:"Image"`
	Stock              int      `json:"Stock"`
	OriginalPrice      *float64 `json:"originalPrice"`
	DiscountPercentage *float64 `json:"discountPercentage"`
}

type productDetailsResponse struct {
	IdProduct          int64            `json:"IdProduct"`
	ProductName        string           `json:"ProductName"`
	Description        string           `json:"Description"`
	Price              decimal.Decimal  `json:"Price"`
	Stock              int              `json:"Stock"`
	Image              *string          `json:"Image"`
	Category           string           `json:"Category"`
	AverageRating      float64          `json:"averageRating"`
	OriginalPrice      *decimal.Decimal `json:"OriginalPrice"`
	DiscountPercentage *decimal.Decimal `json:"DiscountPercentage"`
	CreatedAt          time.Time        `json:"CreatedAt"`
}

type categoryResponse struct {
	IdCategory  int64  `json:"IdCategory"`
	Category    string `json:"Category"`
	Description string `json:"Description"`
}

type productRequest struct {
	ProductName string          `json:"ProductName"`
	Description string          `json:"Description"`
	Category    string          `json:"Category"`
	IdCategory  int64           `json:"IdCategory"`
	Price       decimal.Decimal `json:"Price"`
	Stock       int             `json:"Stock"`
	Image       string          `json:"Image"`
}

type reviewRequest struct {
	IdUser    int64  `json:"IdUser"`
	IdProduct int64  `json:"IdProduct"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
}

type reviewResponse struct {
	IdReview  int64     `json:"IdReview"`
	IdUser    int64     `json:"IdUser"`
	IdProduct int64     `json:"IdProduct"`
	Review    string    `json:"Review"`
	Rating    int       `json:"Rating"`
	CreatedAt time.Time `json:"CreatedAt"`
	Username  string    `json:"username,omitempty"`
}

type addCartRequest struct {
	IdUser    int64 `json:"IdUser"`
	IdProduct int64 `json:"IdProduct"`
	Quantity  int   `json:"Quantity"`
}

type cartLineResponse struct {
	IdCart    int64      `json:"IdCart"`
	IdUser    int64      `json:"IdUser"`
	IdProduct int64      `json:"IdProduct"`
	Quantity  int        `json:"Quantity"`
	CreatedAt *time.Time `json:"CreatedAt,omitempty"`
	UpdatedAt *time.Time `json:"UpdatedAt,omitempty"`
}

type addCartResponse struct {
	Message string           `json:"message"`
	Cart    cartLineResponse `json:"cart"`
}

type cartProductResponse struct {
	IdProduct   int64           `json:"IdProduct"`
	ProductName string          `json:"ProductName"`
	Description string          `json:"Description"`
	Price       decimal.Decimal `json:"Price"`
	Image       *string         `json:"Image"`
}

type cartItemResponse struct {
	IdCart   int64               `json:"IdCart"`
	IdUser   int64               `json:"IdUser"`
	Producto cartProductResponse `json:"producto"`
	Quantity int                 `json:"Quantity"`
}

type cartCountResponse struct {
	IdUser    int64 `json:"IdUser"`
	CartCount int   `json:"cartCount"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"Quantity"`
}

type deleteCartRequest struct {
	UserID int64 `json:"userId"`
}

type wishlistItemResponse struct {
	IdProduct   int64           `json:"IdProduct"`
	ProductName string          `json:"ProductName"`
	Price       decimal.Decimal `json:"Price"`
	Image       *string         `json:"Image"`
}

type toggleWishlistRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---------- Catálogo ----------

// listProductsHandler lista productos, opcionalmente filtrados por categoría.
// @Summary Listar productos
// @Tags products
// @Produce json
// @Param categoryId query string false "Id de categoría o 'all'"
// @Success 200 {array} productResponse
// @Failure 500 {object} errorResponse
// @Router /api/products [get]
func listProductsHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var categoryID int64
		if raw := strings.TrimSpace(r.URL.Query().Get("categoryId")); raw != "" && raw != "all" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "categoryId inválido"})
				return
			}
			categoryID = id
		}

		items, err := svc.ListProducts(r.Context(), categoryID)
		if err != nil {
			log.Error("list products", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error al obtener productos"})
			return
		}

		out := make([]productResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProductResponse(p, img))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listCategoriesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Categories(r.Context())
		if err != nil {
			log.Error("list categories", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error al obtener categorías"})
			return
		}

		out := make([]categoryResponse, 0, len(items))
		for _, c := range items {
			out = append(out, categoryResponse{IdCategory: c.ID, Category: c.Name, Description: c.Description})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func productDetailsHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found."})
			return
		}

		d, err := svc.ProductDetails(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Product not found."})
				return
			}
			log.Error("product details", map[string]any{"err": err, "product_id": id})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error retrieving product details."})
			return
		}

		writeJSON(w, http.StatusOK, productDetailsResponse{
			IdProduct:          d.ID,
			ProductName:        d.Name,
			Description:        d.Description,
			Price:              d.Price,
			Stock:              d.Stock,
			Image:              img.For(d.Image),
			Category:           d.CategoryName,
			AverageRating:      d.AverageRating.InexactFloat64(),
			OriginalPrice:      nullDecimalPtr(d.OriginalPrice),
			DiscountPercentage: nullDecimalPtr(d.DiscountPercentage),
			CreatedAt:          d.CreatedAt,
		})
	}
}

func createProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
			return
		}

		p, err := svc.CreateProduct(r.Context(), ProductInput{
			Name:         req.ProductName,
			Description:  req.Description,
			CategoryName: req.Category,
			Price:        req.Price,
			Stock:        req.Stock,
			Image:        req.Image,
		})
		if err != nil {
			writeProductWriteError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":   "Producto insertado correctamente",
			"IdProduct": p.ID,
		})
	}
}

func updateProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El id del producto es obligatorio"})
			return
		}

		var req productRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
			return
		}

		err := svc.UpdateProduct(r.Context(), id, ProductInput{
			Name:        req.ProductName,
			Description: req.Description,
			CategoryID:  req.IdCategory,
			Price:       req.Price,
			Stock:       req.Stock,
			Image:       req.Image,
		})
		if err != nil {
			writeProductWriteError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Producto actualizado correctamente"})
	}
}

func deleteProductHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El id del producto es obligatorio"})
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			writeProductWriteError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Producto eliminado correctamente"})
	}
}

func writeProductWriteError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidPrice):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El precio debe ser un número válido"})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Todos los campos son obligatorios"})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Producto no encontrado"})
	default:
		log.Error("product write", map[string]any{"err": err})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
	}
}

// ---------- Reseñas ----------

// sendReviewHandler registra una reseña.
// @Summary Enviar reseña
// @Tags reviews
// @Accept json
// @Produce json
// @Param body body reviewRequest true "Reseña"
// @Success 201 {object} reviewResponse
// @Failure 400 {object} messageResponse
// @Router /api/products/sendReview [post]
func sendReviewHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			return
		}

		rv, err := svc.AddReview(r.Context(), ReviewInput{
			UserID:    req.IdUser,
			ProductID: req.IdProduct,
			Comment:   req.Comment,
			Rating:    req.Rating,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			case errors.Is(err, ErrInvalidRating):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Rating must be between 1 and 5."})
			default:
				log.Error("send review", map[string]any{"err": err})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error sending review."})
			}
			return
		}

		writeJSON(w, http.StatusCreated, toReviewResponse(rv, false))
	}
}

func listReviewsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "No reviews found for this product."})
			return
		}

		items, err := svc.Reviews(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "No reviews found for this product."})
				return
			}
			log.Error("list reviews", map[string]any{"err": err, "product_id": id})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error fetching reviews."})
			return
		}

		out := make([]reviewResponse, 0, len(items))
		for _, rv := range items {
			out = append(out, toReviewResponse(rv, true))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ---------- Carrito ----------

// addCartHandler agrega un producto al carrito o suma la cantidad si ya estaba.
// @Summary Agregar al carrito
// @Tags cart
// @Accept json
// @Produce json
// @Param body body addCartRequest true "Línea de carrito"
// @Success 200 {object} addCartResponse "cantidad actualizada"
// @Success 201 {object} addCartResponse "línea creada"
// @Failure 400 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /api/products/addCart [post]
func addCartHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addCartRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			return
		}

		line, inserted, err := svc.AddToCart(r.Context(), CartInput{
			UserID:    req.IdUser,
			ProductID: req.IdProduct,
			Quantity:  req.Quantity,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			case errors.Is(err, ErrInvalidQuantity):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "La cantidad debe ser mayor que cero"})
			default:
				log.Error("add cart", map[string]any{"err": err, "user_id": req.IdUser, "product_id": req.IdProduct})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error adding to cart."})
			}
			return
		}

		resp := cartLineResponse{
			IdCart:    line.ID,
			IdUser:    line.UserID,
			IdProduct: line.ProductID,
			Quantity:  line.Quantity,
		}
		ts := line.CreatedAt
		if inserted {
			resp.CreatedAt = &ts
			writeJSON(w, http.StatusCreated, addCartResponse{Message: "Product added to cart.", Cart: resp})
			return
		}
		resp.UpdatedAt = &ts
		writeJSON(w, http.StatusOK, addCartResponse{Message: "Cart updated successfully.", Cart: resp})
	}
}

func cartCountHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := idParam(r, "IdUser")
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing IdUser parameter."})
			return
		}

		n, err := svc.CartCount(r.Context(), userID)
		if err != nil {
			log.Error("cart count", map[string]any{"err": err, "user_id": userID})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error fetching cart count."})
			return
		}
		writeJSON(w, http.StatusOK, cartCountResponse{IdUser: userID, CartCount: n})
	}
}

func getCartHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := idParam(r, "IdUser")
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required IdUser parameter."})
			return
		}

		lines, err := svc.Cart(r.Context(), userID)
		if err != nil {
			log.Error("get cart", map[string]any{"err": err, "user_id": userID})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error fetching cart items."})
			return
		}

		out := make([]cartItemResponse, 0, len(lines))
		for _, l := range lines {
			out = append(out, cartItemResponse{
				IdCart: l.ID,
				IdUser: l.UserID,
				Producto: cartProductResponse{
					IdProduct:   l.ProductID,
					ProductName: l.Product.Name,
					Description: l.Product.Description,
					Price:       l.Product.Price,
					Image:       img.For(l.Product.Image),
				},
				Quantity: l.Quantity,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateCartItemHandler reemplaza la cantidad de una línea.
// @Summary Actualizar cantidad
// @Tags cart
// @Accept json
// @Produce json
// @Param IdCart path int true "Id de la línea"
// @Param body body updateCartItemRequest true "Nueva cantidad"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} messageResponse
// @Router /api/products/updateCartItem/{IdCart} [patch]
func updateCartItemHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := idParam(r, "IdCart")
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			return
		}

		var req updateCartItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			return
		}

		err := svc.UpdateCartItem(r.Context(), cartID, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
			case errors.Is(err, ErrInvalidQuantity):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "La cantidad debe ser mayor que cero"})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "Cart item not found."})
			default:
				log.Error("update cart item", map[string]any{"err": err, "cart_id": cartID})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error updating cart item."})
			}
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Cart item updated successfully."})
	}
}

func deleteCartItemHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, ok := idParam(r, "IdCart")
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required IdCart parameter."})
			return
		}

		if err := svc.RemoveCartItem(r.Context(), cartID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "Cart item not found."})
				return
			}
			log.Error("delete cart item", map[string]any{"err": err, "cart_id": cartID})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error deleting cart item."})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Cart item deleted successfully."})
	}
}

// deleteCartHandler vacía el carrito del usuario indicado en el body.
// @Summary Vaciar carrito
// @Tags cart
// @Accept json
// @Produce json
// @Param body body deleteCartRequest true "Usuario"
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Router /api/products/deleteCart [delete]
func deleteCartHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteCartRequest
		if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Falta userId en body."})
			return
		}

		if err := svc.ClearCart(r.Context(), req.UserID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "No se encontraron items para ese usuario."})
				return
			}
			log.Error("clear cart", map[string]any{"err": err, "user_id": req.UserID})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error al vaciar el carrito."})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Carrito vaciado exitosamente."})
	}
}

// ---------- Wishlist ----------

func getWishlistHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := idParam(r, "userId")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId inválido"})
			return
		}

		items, err := svc.Wishlist(r.Context(), userID)
		if err != nil {
			log.Error("get wishlist", map[string]any{"err": err, "user_id": userID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error retrieving wishlist."})
			return
		}

		out := make([]wishlistItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, wishlistItemResponse{
				IdProduct:   it.ProductID,
				ProductName: it.ProductName,
				Price:       it.Price,
				Image:       img.For(it.Image),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// toggleWishlistHandler agrega o quita un producto de la wishlist.
// @Summary Alternar wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param body body toggleWishlistRequest true "Par usuario/producto"
// @Success 200 {object} messageResponse "quitado"
// @Success 201 {object} messageResponse "agregado"
// @Failure 500 {object} errorResponse
// @Router /api/products/toggleWishlist [post]
func toggleWishlistHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleWishlistRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
			return
		}

		added, err := svc.ToggleWishlist(r.Context(), req.UserID, req.ProductID)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Missing required fields."})
				return
			}
			log.Error("toggle wishlist", map[string]any{"err": err, "user_id": req.UserID, "product_id": req.ProductID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error updating wishlist."})
			return
		}

		if added {
			writeJSON(w, http.StatusCreated, messageResponse{Message: "Added to wishlist."})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Removed from wishlist."})
	}
}

// ---------- helpers ----------

func toProductResponse(p Product, img imageURLs) productResponse {
	return productResponse{
		IdProduct:          p.ID,
		ProductName:        p.Name,
		Description:        p.Description,
		Category:           p.CategoryName,
		Price:              p.Price.InexactFloat64(),
		Image:              img.For(p.Image),
		Stock:              p.Stock,
		OriginalPrice:      nullFloatPtr(p.OriginalPrice),
		DiscountPercentage: nullFloatPtr(p.DiscountPercentage),
	}
}

func toReviewResponse(rv Review, withUser bool) reviewResponse {
	out := reviewResponse{
		IdReview:  rv.ID,
		IdUser:    rv.UserID,
		IdProduct: rv.ProductID,
		Review:    rv.Comment,
		Rating:    rv.Rating,
		CreatedAt: rv.CreatedAt,
	}
	if withUser {
		out.Username = rv.UserName
	}
	return out
}

func nullFloatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
