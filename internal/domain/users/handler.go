package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-shop-platform/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	r.Route("/api/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc, log))
		ur.Get("/getUserById/{id}", getUserHandler(svc, log))
		ur.Get("/getRoles", listRolesHandler(svc, log))
		ur.Post("/registerUsers", registerHandler(svc, log))
		ur.Post("/loginUsers", loginHandler(svc, log))
		ur.Get("/getVeterinarian/{IdVeterinarian}", getVeterinarianHandler(svc, log))
		ur.Get("/getVeterinarians", listVeterinariansHandler(svc, log))
	})
}

// ---------- DTOs ----------

type userResponse struct {
	IdUser      int64  `json:"IdUser"`
	RolName     string `json:"RolName,omitempty"`
	Name        string `json:"Name"`
	LastName    string `json:"LastName"`
	UserName    string `json:"UserName"`
	Email       string `json:"Email"`
	PhoneNumber string `json:"PhoneNumber"`
	Address     string `json:"Address"`
}

type roleResponse struct {
	IdRole  int64  `json:"IdRole"`
	RolName string `json:"RolName"`
}

type veterinarianResponse struct {
	IdVeterinarian int64     `json:"IdVeterinarian"`
	Name           string    `json:"Name"`
	Clinic         string    `json:"Clinic"`
	Phone          string    `json:"Phone"`
	Rfc            string    `json:"Rfc"`
	Email          string    `json:"Email"`
	Adress         string    `json:"Adress"`
	CreatedAt      time.Time `json:"CreatedAt"`
}

// flexID acepta el rol como número o como string numérico (los <select> del front mandan string).
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f = flexID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

type registerRequest struct {
	Role            flexID `json:"Role"`
	Name            string `json:"Name"`
	LastName        string `json:"LastName"`
	UserName        string `json:"UserName"`
	Email           string `json:"Email"`
	Password        string `json:"Password"`
	ConfirmPassword string `json:"ConfirmPassword"`
	PhoneNumber     string `json:"PhoneNumber"`
	Address         string `json:"Address"`
}

type loginRequest struct {
	UserName string `json:"UserName"`
	Password string `json:"Password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserName string `json:"UserName"`
	IdUser   int64  `json:"IdUser"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---------- Usuarios ----------

// listUsersHandler lista usuarios; con ?ids=1,2 hace la búsqueda por lote.
// @Summary Listar usuarios
// @Tags users
// @Produce json
// @Param ids query string false "Ids separados por coma"
// @Success 200 {array} userResponse
// @Failure 400 {object} errorResponse
// @Router /api/users [get]
func listUsersHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := parseIDs(r.URL.Query().Get("ids"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ids inválidos"})
			return
		}

		items, err := svc.Users(r.Context(), ids)
		if err != nil {
			log.Error("list users", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error en el servidor"})
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getUserHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El id del usuario es obligatorio"})
			return
		}

		u, err := svc.User(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Usuario no encontrado"})
				return
			}
			log.Error("get user", map[string]any{"err": err, "user_id": id})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error al obtener el usuario"})
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func listRolesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Roles(r.Context())
		if err != nil {
			log.Error("list roles", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error en el servidor"})
			return
		}

		out := make([]roleResponse, 0, len(items))
		for _, ro := range items {
			out = append(out, roleResponse{IdRole: ro.ID, RolName: ro.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// registerHandler registra un usuario nuevo.
// @Summary Registrar usuario
// @Tags users
// @Accept json
// @Produce json
// @Param body body registerRequest true "Datos del usuario"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Router /api/users/registerUsers [post]
func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Todos los campos son obligatorios"})
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			RoleID:          int64(req.Role),
			Name:            req.Name,
			LastName:        req.LastName,
			UserName:        req.UserName,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			PhoneNumber:     req.PhoneNumber,
			Address:         req.Address,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Todos los campos son obligatorios"})
			case errors.Is(err, ErrPasswordsDontMatch):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Las contraseñas no coinciden"})
			case errors.Is(err, ErrConflict):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El usuario o Email ya está en uso"})
			default:
				log.Error("register user", map[string]any{"err": err})
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			}
			return
		}

		log.Info("user registered", map[string]any{"user_id": u.ID})
		writeJSON(w, http.StatusCreated, messageResponse{Message: "Usuario registrado correctamente"})
	}
}

// loginHandler autentica y devuelve un JWT de 1h.
// @Summary Iniciar sesión
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} messageResponse
// @Router /api/users/loginUsers [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Por favor, completa todos los campos."})
			return
		}

		sess, err := svc.Login(r.Context(), req.UserName, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Por favor, completa todos los campos."})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Usuario no encontrado"})
			case errors.Is(err, ErrWrongPassword):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Contraseña incorrecta"})
			default:
				log.Error("login", map[string]any{"err": err})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error interno del servidor"})
			}
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:    sess.Token,
			UserName: sess.UserName,
			IdUser:   sess.UserID,
		})
	}
}

// ---------- Veterinarios ----------

func getVeterinarianHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "IdVeterinarian")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "IdVeterinarian es requerido"})
			return
		}

		v, err := svc.Veterinarian(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Veterinario no encontrado"})
				return
			}
			log.Error("get veterinarian", map[string]any{"err": err, "veterinarian_id": id})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			return
		}
		writeJSON(w, http.StatusOK, toVeterinarianResponse(v))
	}
}

// listVeterinariansHandler es la variante por lote que usa Pets para enriquecer citas.
func listVeterinariansHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := parseIDs(r.URL.Query().Get("ids"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ids inválidos"})
			return
		}

		items, err := svc.Veterinarians(r.Context(), ids)
		if err != nil {
			log.Error("list veterinarians", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			return
		}

		out := make([]veterinarianResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVeterinarianResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ---------- helpers ----------

func toUserResponse(u User) userResponse {
	return userResponse{
		IdUser:      u.ID,
		RolName:     u.RoleName,
		Name:        u.Name,
		LastName:    u.LastName,
		UserName:    u.UserName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
	}
}

func toVeterinarianResponse(v Veterinarian) veterinarianResponse {
	return veterinarianResponse{
		IdVeterinarian: v.ID,
		Name:           v.Name,
		Clinic:         v.Clinic,
		Phone:          v.Phone,
		Rfc:            v.Rfc,
		Email:          v.Email,
		Adress:         v.Address,
		CreatedAt:      v.CreatedAt,
	}
}

// parseIDs interpreta "1,2,3". Vacío => nil (sin filtro). Los duplicados se descartan.
func parseIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	out := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, ErrInvalidInput
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
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
