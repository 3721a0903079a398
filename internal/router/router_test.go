package router_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strconv"
	"testing"

	"pet-shop-platform/internal/adapters/imagestore"
	mem "pet-shop-platform/internal/adapters/storage/memory"
	"pet-shop-platform/internal/domain/pets"
	"pet-shop-platform/internal/domain/products"
	"pet-shop-platform/internal/domain/users"
	"pet-shop-platform/internal/router"

	"github.com/shopspring/decimal"
)

// platform levanta users, products, pets y el gateway sobre repos en memoria.
type platform struct {
	gateway  *httptest.Server
	users    *httptest.Server
	pets     *httptest.Server
	products *httptest.Server

	petsRepo   *mem.PetsRepo
	uploadsDir string
}

func newPlatform(t *testing.T) *platform {
	t.Helper()
	p := &platform{}

	usersRepo := mem.NewUsersRepo()
	usersRepo.SeedRole(users.Role{ID: 2, Name: "Cliente"})
	p.users = httptest.NewServer(router.NewUsers(router.UsersOptions{
		Repo:       usersRepo,
		JWTSecret:  "test-secret",
		BcryptCost: 4,
	}))
	t.Cleanup(p.users.Close)

	productsRepo := mem.NewProductsRepo()
	cat := productsRepo.SeedCategory(products.Category{Name: "Juguetes"})
	productsRepo.SeedProduct(products.Product{
		ID:         10,
		Name:       "Hueso",
		CategoryID: cat.ID,
		Price:      decimal.RequireFromString("99.50"),
		Stock:      5,
		Image:      "bone.jpg",
	})
	p.products = httptest.NewServer(router.NewProducts(router.ProductsOptions{Repo: productsRepo}))
	t.Cleanup(p.products.Close)

	p.petsRepo = mem.NewPetsRepo()
	p.petsRepo.SeedSpecies(pets.Species{ID: 1, Name: "Perro"})
	p.petsRepo.SeedStatus(pets.Status{ID: 1, Name: "En adopción"})
	p.petsRepo.SeedStatus(pets.Status{ID: 2, Name: "Adoptado"})

	p.uploadsDir = t.TempDir()
	store, err := imagestore.NewLocal(p.uploadsDir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	petsHandler, err := router.NewPets(router.PetsOptions{
		Repo:            p.petsRepo,
		UsersServiceURL: p.users.URL + "/api/users",
		Images:          store,
		ImageBaseURL:    "http://gateway.test",
	})
	if err != nil {
		t.Fatalf("pets router: %v", err)
	}
	p.pets = httptest.NewServer(petsHandler)
	t.Cleanup(p.pets.Close)

	gw, err := router.NewGateway(router.GatewayOptions{
		ProductsURL: p.products.URL + "/api/products",
		UsersURL:    p.users.URL + "/api/users",
		PetsURL:     p.pets.URL + "/api/pets",
		UploadsURL:  p.pets.URL + "/uploads",
	})
	if err != nil {
		t.Fatalf("gateway router: %v", err)
	}
	p.gateway = httptest.NewServer(gw)
	t.Cleanup(p.gateway.Close)

	return p
}

func TestHTTP_Cart_UpsertThroughGateway(t *testing.T) {
	p := newPlatform(t)
	base := p.gateway.URL

	st, body := doReq(t, base, "POST", "/api/products/addCart", map[string]any{"IdUser": 1, "IdProduct": 10, "Quantity": 2})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 first add, got %d body=%s", st, string(body))
	}
	st, body = doReq(t, base, "POST", "/api/products/addCart", map[string]any{"IdUser": 1, "IdProduct": 10, "Quantity": 3})
	if st != http.StatusOK {
		t.Fatalf("expected 200 second add, got %d body=%s", st, string(body))
	}

	var cart []struct {
		IdCart   int64 `json:"IdCart"`
		Quantity int   `json:"Quantity"`
	}
	st, body = doReq(t, base, "GET", "/api/products/getCart/1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get cart, got %d body=%s", st, string(body))
	}
	_ = json.Unmarshal(body, &cart)
	if len(cart) != 1 || cart[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %s", string(body))
	}

	// cantidad 0 no borra la línea
	st, _ = doReq(t, base, "PATCH", "/api/products/updateCartItem/"+strconv.FormatInt(cart[0].IdCart, 10), map[string]any{"Quantity": 0})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for quantity 0, got %d", st)
	}

	st, _ = doReq(t, base, "POST", "/api/products/addCart", map[string]any{"IdUser": 1, "IdProduct": 10, "Quantity": -1})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", st)
	}
}

func TestHTTP_Wishlist_Toggle(t *testing.T) {
	p := newPlatform(t)
	base := p.gateway.URL
	pair := map[string]any{"userId": 4, "productId": 10}

	want := []int{http.StatusCreated, http.StatusOK, http.StatusCreated}
	for i, code := range want {
		st, body := doReq(t, base, "POST", "/api/products/toggleWishlist", pair)
		if st != code {
			t.Fatalf("toggle %d: expected %d, got %d body=%s", i+1, code, st, string(body))
		}
	}

	st, body := doReq(t, base, "GET", "/api/products/getWishlist/4", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 wishlist, got %d", st)
	}
	var items []map[string]any
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected product present after odd toggles, got %s", string(body))
	}
}

func TestHTTP_RegisterPet_EndToEnd(t *testing.T) {
	p := newPlatform(t)
	base := p.gateway.URL

	ownerID := registerAndLogin(t, base, "ana", "Ana")

	st, body := doMultipart(t, base, "POST", "/api/pets/register", map[string]string{
		"PetName":     "Firulais",
		"IdSpecies":   "1",
		"Breed":       "Mestizo",
		"Age":         "3",
		"IdUser":      strconv.FormatInt(ownerID, 10),
		"IdPetStatus": "2",
		"Weight":      "12",
	}, "Imagen", "foto.PNG", "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	var reg struct {
		IdPet int64 `json:"IdPet"`
	}
	_ = json.Unmarshal(body, &reg)
	if reg.IdPet == 0 {
		t.Fatalf("register: missing IdPet body=%s", string(body))
	}
	petID := strconv.FormatInt(reg.IdPet, 10)

	// historial: un único peso inicial
	{
		st, body := doReq(t, base, "GET", "/api/pets/details/"+petID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 details, got %d body=%s", st, string(body))
		}
		var d struct {
			WeightControl []struct {
				Weight string `json:"Weight"`
				Notes  string `json:"Notes"`
			} `json:"WeightControl"`
			Records []any `json:"records"`
		}
		_ = json.Unmarshal(body, &d)
		if len(d.WeightControl) != 1 || d.WeightControl[0].Weight != "12" || d.WeightControl[0].Notes != pets.InitialWeightNotes {
			t.Fatalf("unexpected weight history: %s", string(body))
		}
		if d.Records == nil {
			t.Fatalf("expected empty records array, got %s", string(body))
		}
	}

	// por dueño: nombre resuelto por lote y último peso
	var image string
	{
		st, body := doReq(t, base, "GET", "/api/pets/getPetsByUser/"+strconv.FormatInt(ownerID, 10), nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pets by user, got %d body=%s", st, string(body))
		}
		var list []struct {
			Owner      string  `json:"Owner"`
			LastWeight any     `json:"LastWeight"`
			Image      *string `json:"Image"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 || list[0].Owner != "Ana" || list[0].LastWeight != "12" {
			t.Fatalf("unexpected pets by user: %s", string(body))
		}
		if list[0].Image == nil {
			t.Fatalf("expected image url, got %s", string(body))
		}
		image = *list[0].Image
	}

	// la imagen se sirve por el gateway
	{
		const prefix = "http://gateway.test"
		st, body := doReq(t, base, "GET", image[len(prefix):], nil)
		if st != http.StatusOK || !bytes.HasPrefix(body, []byte("\x89PNG")) {
			t.Fatalf("expected image bytes through gateway, got %d", st)
		}
	}

	st, body = doReq(t, base, "GET", "/uploads/pets/pet_missing.png", nil)
	if st != http.StatusNotFound || string(body) != "Imagen no encontrada en el microservicio Pets" {
		t.Fatalf("expected gateway 404 message, got %d body=%s", st, string(body))
	}
}

func TestHTTP_RegisterPet_RollbackLeavesNothing(t *testing.T) {
	p := newPlatform(t)
	p.petsRepo.SetWeightInsertHook(func(int64, pets.WeightEntry) error {
		return errors.New("weight insert failed")
	})

	st, body := doMultipart(t, p.pets.URL, "POST", "/api/pets/register", map[string]string{
		"PetName": "Michi", "IdSpecies": "1", "Breed": "Siames", "Age": "2",
		"IdUser": "1", "IdPetStatus": "1", "Weight": "4.2",
	}, "image", "michi.jpg", "image/jpeg", []byte("jpeg"))
	if st != http.StatusInternalServerError {
		t.Fatalf("expected 500 on rollback, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, p.pets.URL, "GET", "/api/pets/getPets", nil)
	if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("expected no pets after rollback, got %d body=%s", st, string(body))
	}

	entries, err := os.ReadDir(p.uploadsDir)
	if err != nil {
		t.Fatalf("read uploads: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected stored image removed, found %d files", len(entries))
	}
}

func TestHTTP_RegisterPet_RejectsNonImage(t *testing.T) {
	p := newPlatform(t)

	st, _ := doMultipart(t, p.pets.URL, "POST", "/api/pets/register", map[string]string{
		"PetName": "Michi", "IdSpecies": "1", "Breed": "Siames", "Age": "2",
		"IdUser": "1", "IdPetStatus": "1", "Weight": "4",
	}, "image", "notes.txt", "text/plain", []byte("hola"))
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image, got %d", st)
	}
}

func TestHTTP_PetsByUser_UnknownOwnerDegrades(t *testing.T) {
	p := newPlatform(t)
	if _, err := p.petsRepo.CreateWithInitialWeight(t.Context(), pets.Pet{
		Name: "Rocky", SpeciesID: 1, Breed: "Boxer", Age: 4, OwnerID: 99, StatusID: 1,
	}, pets.WeightEntry{Weight: decimal.NewFromInt(20), Notes: pets.InitialWeightNotes}); err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	check := func(label string) {
		t.Helper()
		st, body := doReq(t, p.pets.URL, "GET", "/api/pets/getPetsByUser/99", nil)
		if st != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d body=%s", label, st, string(body))
		}
		var list []struct {
			Owner string `json:"Owner"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 || list[0].Owner != pets.UnknownOwner {
			t.Fatalf("%s: expected unknown owner, got %s", label, string(body))
		}
	}

	check("missing user")

	p.users.Close()
	check("users service down")
}

func TestHTTP_Adoption_FiltersByStatusName(t *testing.T) {
	p := newPlatform(t)
	seed := func(name string, status int64) {
		if _, err := p.petsRepo.CreateWithInitialWeight(t.Context(), pets.Pet{
			Name: name, SpeciesID: 1, Breed: "x", Age: 1, OwnerID: 1, StatusID: status,
		}, pets.WeightEntry{Weight: decimal.NewFromInt(5)}); err != nil {
			t.Fatalf("seed pet: %v", err)
		}
	}
	seed("Luna", 1)
	seed("Max", 2)

	st, body := doReq(t, p.gateway.URL, "GET", "/api/pets/adoption", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 adoption, got %d", st)
	}
	var list []struct {
		PetName string `json:"PetName"`
	}
	_ = json.Unmarshal(body, &list)
	if len(list) != 1 || list[0].PetName != "Luna" {
		t.Fatalf("expected only Luna, got %s", string(body))
	}
}

func TestHTTP_Gateway_RootAndHealth(t *testing.T) {
	p := newPlatform(t)

	st, body := doReq(t, p.gateway.URL, "GET", "/", nil)
	if st != http.StatusOK || string(body) != "API Gateway Se esta ejecutando" {
		t.Fatalf("unexpected root: %d %s", st, string(body))
	}
	for _, srv := range []*httptest.Server{p.gateway, p.users, p.pets, p.products} {
		st, _ := doReq(t, srv.URL, "GET", "/health", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 health at %s, got %d", srv.URL, st)
		}
	}
}

func TestNewPets_RequiresImageStore(t *testing.T) {
	_, err := router.NewPets(router.PetsOptions{UsersServiceURL: "http://localhost:4001/api/users"})
	if !errors.Is(err, router.ErrNoImageStore) {
		t.Fatalf("expected ErrNoImageStore, got %v", err)
	}
}

func registerAndLogin(t *testing.T, baseURL, userName, name string) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/users/registerUsers", map[string]any{
		"Role":            "2",
		"Name":            name,
		"LastName":        "Pérez",
		"UserName":        userName,
		"Email":           userName + "@mail.test",
		"Password":        "s3cret",
		"ConfirmPassword": "s3cret",
		"PhoneNumber":     "9610000000",
		"Address":         "Centro",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register user, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, baseURL, "POST", "/api/users/loginUsers", map[string]any{
		"UserName": userName,
		"Password": "s3cret",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var resp struct {
		Token  string `json:"token"`
		IdUser int64  `json:"IdUser"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" || resp.IdUser == 0 {
		t.Fatalf("login: missing token or id body=%s", string(body))
	}
	return resp.IdUser
}

func doMultipart(t *testing.T, baseURL, method, path string, fields map[string]string, fileField, fileName, contentType string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func TestHTTP_ProductDetails_NoReviewsAverageZero(t *testing.T) {
	p := newPlatform(t)

	st, body := doReq(t, p.gateway.URL, "GET", "/api/products/details/10", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 details, got %d body=%s", st, string(body))
	}
	var d map[string]any
	_ = json.Unmarshal(body, &d)
	if v, ok := d["averageRating"]; !ok || v != float64(0) {
		t.Fatalf("expected averageRating 0 without reviews, got %s", string(body))
	}
}
