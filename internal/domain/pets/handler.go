package pets

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-shop-platform/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const defaultMaxUpload = 10 << 20

// campos de archivo aceptados; el front y el gateway no siempre usan el mismo nombre
var imageFields = []string{"image", "imagen", "Imagen"}

type HandlerOptions struct {
	// URL pública del gateway; las imágenes quedan en <ImageBaseURL>/uploads/pets/<archivo>.
	ImageBaseURL   string
	MaxUploadBytes int64
	Log            logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	img := imageURLs(strings.TrimRight(opts.ImageBaseURL, "/") + "/uploads/pets/")
	log := opts.Log

	r.Route("/api/pets", func(pr chi.Router) {
		pr.Get("/getPets", listPetsHandler(svc, img, log))
		pr.Get("/getPetById/{IdPet}", getPetHandler(svc, img, log))
		pr.Get("/details/{IdPet}", detailsHandler(svc, log))
		pr.Get("/getPetsByUser/{IdUser}", listByOwnerHandler(svc, img, log))
		pr.Get("/getPetStatus", listStatusesHandler(svc, log))
		pr.Get("/getPetSpecies", listSpeciesHandler(svc, log))
		pr.Get("/getAppointments/{petId}", appointmentsHandler(svc, log))
		pr.Get("/adoption", adoptionHandler(svc, img, log))

		pr.Post("/register", registerHandler(svc, opts.MaxUploadBytes, log))
		pr.Put("/updateImage/{petId}", updateImageHandler(svc, opts.MaxUploadBytes, log))
		pr.Patch("/updatePet/{IdPet}", updatePetHandler(svc, log))
		pr.Delete("/deletePet/{IdPet}", deletePetHandler(svc, log))
	})

	// bytes de las imágenes subidas (el gateway las reexpone en /uploads/*)
	r.Get("/uploads/pets/{file}", serveImageHandler(svc, log))
}

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

type petResponse struct {
	IdPet       int64   `json:"IdPet"`
	PetName     string  `json:"PetName"`
	SpeciesName string  `json:"SpeciesName"`
	Breed       string  `json:"Breed"`
	Age         int     `json:"Age"`
	Image       *string `json:"Image"`
	PetStatus   string  `json:"PetStatus"`
	IdUser      int64   `json:"IdUser"`
}

// listedPetResponse agrega el último peso (decimal o "No registrado") y, en el listado por dueño, Owner.
type listedPetResponse struct {
	petResponse
	LastWeight any    `json:"LastWeight"`
	Owner      string `json:"Owner,omitempty"`
}

type statusResponse struct {
	IdPetStatus int64  `json:"IdPetStatus"`
	PetStatus   string `json:"PetStatus"`
}

type speciesResponse struct {
	IdSpecies   int64  `json:"IdSpecies"`
	SpeciesName string `json:"SpeciesName"`
}

type recordResponse struct {
	RecordDate  time.Time `json:"RecordDate"`
	Type        string    `json:"Type"`
	Description string    `json:"Description"`
	Notes       string    `json:"Notes"`
}

type vaccinationResponse struct {
	VaccinationDate time.Time  `json:"VaccinationDate"`
	NextDue         *time.Time `json:"NextDue"`
	VaccineName     string     `json:"VaccineName"`
	StatusName      string     `json:"StatusName"`
	Notes           string     `json:"Notes"`
}

type dewormingResponse struct {
	DewormingDate time.Time  `json:"DewormingDate"`
	NextDue       *time.Time `json:"NextDue"`
	DewormerName  string     `json:"DewormerName"`
	Notes         string     `json:"Notes"`
}

type weightResponse struct {
	Weight     decimal.Decimal `json:"Weight"`
	RecordDate time.Time       `json:"RecordDate"`
	Notes      string          `json:"Notes"`
}

type detailsResponse struct {
	Records       []recordResponse      `json:"records"`
	Vaccinations  []vaccinationResponse `json:"vaccinations"`
	Dewormings    []dewormingResponse   `json:"dewormings"`
	WeightControl []weightResponse      `json:"WeightControl"`
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

type appointmentResponse struct {
	IdAppointment       int64                 `json:"IdAppointment"`
	AppointmentDate     time.Time             `json:"AppointmentDate"`
	Reason              string                `json:"Reason"`
	IdVeterinarian      *int64                `json:"IdVeterinarian"`
	IdStatusAppointment int64                 `json:"IdStatusAppointment"`
	CreatedAt           time.Time             `json:"CreatedAt"`
	UpdatedAt           *time.Time            `json:"UpdatedAt"`
	Veterinarian        *veterinarianResponse `json:"Veterinarian"`
}

type registerResponse struct {
	Message string `json:"message"`
	IdPet   int64  `json:"IdPet"`
}

type updateImageResponse struct {
	Message     string `json:"message"`
	NewImageUrl string `json:"newImageUrl"`
}

type updatePetRequest struct {
	PetName     *string `json:"PetName"`
	IdSpecies   *int64  `json:"IdSpecies"`
	Breed       *string `json:"Breed"`
	Age         *int    `json:"Age"`
	IdPetStatus *int64  `json:"IdPetStatus"`
	IdUser      *int64  `json:"IdUser"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---------- Consultas ----------

func listPetsHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list pets", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error al obtener las mascotas"})
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p, img))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "IdPet")
		if !ok {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Mascota no encontrada"})
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "Mascota no encontrada"})
				return
			}
			log.Error("get pet", map[string]any{"err": err, "pet_id": id})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error interno del servidor"})
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p, img))
	}
}

// detailsHandler arma el historial clínico de la mascota.
// @Summary Historial de la mascota
// @Tags pets
// @Produce json
// @Param IdPet path int true "Id de la mascota"
// @Success 200 {object} detailsResponse
// @Failure 500 {object} errorResponse
// @Router /api/pets/details/{IdPet} [get]
func detailsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "IdPet")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "IdPet es requerido"})
			return
		}

		d, err := svc.Details(r.Context(), id)
		if err != nil {
			log.Error("pet details", map[string]any{"err": err, "pet_id": id})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error en servidor"})
			return
		}
		writeJSON(w, http.StatusOK, toDetailsResponse(d))
	}
}

// listByOwnerHandler lista las mascotas de un usuario con su último peso y el nombre del dueño.
// @Summary Mascotas por usuario
// @Tags pets
// @Produce json
// @Param IdUser path int true "Id del usuario"
// @Success 200 {array} listedPetResponse
// @Failure 500 {object} errorResponse
// @Router /api/pets/getPetsByUser/{IdUser} [get]
func listByOwnerHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := idParam(r, "IdUser")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "IdUser es requerido"})
			return
		}

		items, err := svc.ListByOwner(r.Context(), ownerID)
		if err != nil {
			log.Error("list pets by owner", map[string]any{"err": err, "user_id": ownerID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			return
		}

		out := make([]listedPetResponse, 0, len(items))
		for _, p := range items {
			lp := toListedPetResponse(p.Pet, img)
			lp.Owner = p.Owner
			out = append(out, lp)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listStatusesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Statuses(r.Context())
		if err != nil {
			log.Error("list pet statuses", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error en el servidor"})
			return
		}

		out := make([]statusResponse, 0, len(items))
		for _, s := range items {
			out = append(out, statusResponse{IdPetStatus: s.ID, PetStatus: s.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listSpeciesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Species(r.Context())
		if err != nil {
			log.Error("list species", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error en el servidor"})
			return
		}

		out := make([]speciesResponse, 0, len(items))
		for _, s := range items {
			out = append(out, speciesResponse{IdSpecies: s.ID, SpeciesName: s.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func appointmentsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, ok := idParam(r, "petId")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "petId es requerido"})
			return
		}

		items, err := svc.Appointments(r.Context(), petID)
		if err != nil {
			log.Error("list appointments", map[string]any{"err": err, "pet_id": petID})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error al obtener citas"})
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func adoptionHandler(svc *Service, img imageURLs, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.InAdoption(r.Context())
		if err != nil {
			log.Error("list pets in adoption", map[string]any{"err": err})
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error interno del servidor"})
			return
		}

		out := make([]listedPetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toListedPetResponse(p, img))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ---------- Alta y cambios ----------

// registerHandler registra una mascota con su peso inicial (multipart/form-data).
// @Summary Registrar mascota
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param PetName formData string true "Nombre"
// @Param IdSpecies formData int true "Especie"
// @Param Breed formData string true "Raza"
// @Param Age formData int true "Edad"
// @Param IdUser formData int true "Dueño"
// @Param IdPetStatus formData int true "Estado"
// @Param Weight formData number true "Peso inicial"
// @Param image formData file false "Foto"
// @Success 201 {object} registerResponse
// @Failure 400 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /api/pets/register [post]
func registerHandler(svc *Service, maxUpload int64, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Faltan datos requeridos"})
			return
		}

		in, ok := parseRegisterForm(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Faltan datos requeridos"})
			return
		}

		file, up := formImage(r)
		if file != nil {
			defer file.Close()
		}
		in.Image = up

		id, err := svc.Register(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Faltan datos requeridos"})
			case errors.Is(err, ErrNotAnImage):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Solo se permiten archivos de imagen"})
			default:
				log.Error("register pet", map[string]any{"err": err, "user_id": in.OwnerID})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error al registrar"})
			}
			return
		}

		writeJSON(w, http.StatusCreated, registerResponse{Message: "Mascota y peso inicial registrados", IdPet: id})
	}
}

func parseRegisterForm(r *http.Request) (RegisterInput, bool) {
	field := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }

	name, breed := field("PetName"), field("Breed")
	species, age, owner := field("IdSpecies"), field("Age"), field("IdUser")
	status, weight := field("IdPetStatus"), field("Weight")
	if name == "" || species == "" || breed == "" || age == "" || owner == "" || status == "" || weight == "" {
		return RegisterInput{}, false
	}

	in := RegisterInput{Name: name, Breed: breed}
	var err error
	if in.SpeciesID, err = strconv.ParseInt(species, 10, 64); err != nil {
		return RegisterInput{}, false
	}
	if in.Age, err = strconv.Atoi(age); err != nil {
		return RegisterInput{}, false
	}
	if in.OwnerID, err = strconv.ParseInt(owner, 10, 64); err != nil {
		return RegisterInput{}, false
	}
	if in.StatusID, err = strconv.ParseInt(status, 10, 64); err != nil {
		return RegisterInput{}, false
	}
	if in.Weight, err = decimal.NewFromString(weight); err != nil {
		return RegisterInput{}, false
	}
	return in, true
}

// formImage busca el archivo en cualquiera de los nombres de campo aceptados.
func formImage(r *http.Request) (multipart.File, *Upload) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	for _, name := range imageFields {
		f, fh, err := r.FormFile(name)
		if err != nil {
			continue
		}
		return f, &Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}
	return nil, nil
}

func updateImageHandler(svc *Service, maxUpload int64, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, ok := idParam(r, "petId")
		if !ok {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Mascota no encontrada"})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No se proporcionó ningún archivo de imagen."})
			return
		}

		file, up := formImage(r)
		if file != nil {
			defer file.Close()
		}

		name, err := svc.UpdateImage(r.Context(), petID, up)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoImage):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No se proporcionó ningún archivo de imagen."})
			case errors.Is(err, ErrNotAnImage):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Solo se permiten archivos de imagen"})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "Mascota no encontrada"})
			default:
				log.Error("update pet image", map[string]any{"err": err, "pet_id": petID})
				writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error interno al actualizar la imagen."})
			}
			return
		}

		log.Info("pet image updated", map[string]any{"pet_id": petID, "image": name})
		writeJSON(w, http.StatusOK, updateImageResponse{
			Message:     "Imagen subida y actualizada correctamente.",
			NewImageUrl: name,
		})
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "IdPet")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El ID de la mascota es obligatorio"})
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
			return
		}

		err := svc.Update(r.Context(), id, Patch{
			Name:      req.PetName,
			SpeciesID: req.IdSpecies,
			Breed:     req.Breed,
			Age:       req.Age,
			StatusID:  req.IdPetStatus,
			OwnerID:   req.IdUser,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Datos inválidos"})
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Mascota no encontrada"})
			default:
				log.Error("update pet", map[string]any{"err": err, "pet_id": id})
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			}
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Mascota actualizada correctamente"})
	}
}

func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "IdPet")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "El ID de la mascota es obligatorio"})
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Mascota no encontrada"})
				return
			}
			log.Error("delete pet", map[string]any{"err": err, "pet_id": id})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Mascota eliminada correctamente"})
	}
}

func serveImageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "file")

		rc, info, err := svc.OpenImage(r.Context(), name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "Imagen no encontrada"})
				return
			}
			log.Error("open image", map[string]any{"err": err, "image": name})
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
			return
		}
		defer rc.Close()

		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		if info.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, rc); err != nil {
			log.Warn("stream image", map[string]any{"err": err, "image": name})
		}
	}
}

// ---------- helpers ----------

func toPetResponse(p Pet, img imageURLs) petResponse {
	return petResponse{
		IdPet:       p.ID,
		PetName:     p.Name,
		SpeciesName: p.SpeciesName,
		Breed:       p.Breed,
		Age:         p.Age,
		Image:       img.For(p.Image),
		PetStatus:   p.Status,
		IdUser:      p.OwnerID,
	}
}

func toListedPetResponse(p Pet, img imageURLs) listedPetResponse {
	out := listedPetResponse{petResponse: toPetResponse(p, img), LastWeight: "No registrado"}
	if p.LastWeight.Valid {
		out.LastWeight = p.LastWeight.Decimal
	}
	return out
}

func toDetailsResponse(d Details) detailsResponse {
	out := detailsResponse{
		Records:       make([]recordResponse, 0, len(d.Records)),
		Vaccinations:  make([]vaccinationResponse, 0, len(d.Vaccinations)),
		Dewormings:    make([]dewormingResponse, 0, len(d.Dewormings)),
		WeightControl: make([]weightResponse, 0, len(d.WeightControl)),
	}
	for _, r := range d.Records {
		out.Records = append(out.Records, recordResponse(r))
	}
	for _, v := range d.Vaccinations {
		out.Vaccinations = append(out.Vaccinations, vaccinationResponse(v))
	}
	for _, dw := range d.Dewormings {
		out.Dewormings = append(out.Dewormings, dewormingResponse(dw))
	}
	for _, wc := range d.WeightControl {
		out.WeightControl = append(out.WeightControl, weightResponse(wc))
	}
	return out
}

func toAppointmentResponse(a ScheduledAppointment) appointmentResponse {
	out := appointmentResponse{
		IdAppointment:       a.ID,
		AppointmentDate:     a.Date,
		Reason:              a.Reason,
		IdStatusAppointment: a.StatusID,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	if a.VeterinarianID > 0 {
		id := a.VeterinarianID
		out.IdVeterinarian = &id
	}
	if v := a.Veterinarian; v != nil {
		out.Veterinarian = &veterinarianResponse{
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
	return out
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
