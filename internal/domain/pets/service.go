package pets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/ports/images"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotAnImage   = errors.New("only image files are allowed")
	ErrNoImage      = errors.New("no image provided")
)

const (
	// UnknownOwner se usa cuando el nombre del dueño no se pudo resolver.
	UnknownOwner = "Desconocido"

	DefaultAdoptionStatus = "En adopción"
)

type Options struct {
	// Nombre del estado que identifica a las mascotas en adopción.
	AdoptionStatus string
	Log            logger.Logger
}

type Service struct {
	repo   Repository
	dir    Directory
	images images.Store

	adoptionStatus string
	log            logger.Logger
	tracer         trace.Tracer

	now     func() time.Time
	newName func(ext string) string
}

func NewService(repo Repository, dir Directory, store images.Store, opts Options) *Service {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if strings.TrimSpace(opts.AdoptionStatus) == "" {
		opts.AdoptionStatus = DefaultAdoptionStatus
	}
	return &Service{
		repo:           repo,
		dir:            dir,
		images:         store,
		adoptionStatus: opts.AdoptionStatus,
		log:            opts.Log,
		tracer:         otel.Tracer("pet-shop-platform/pets"),
		now:            time.Now,
		newName: func(ext string) string {
			return "pet_" + uuid.NewString() + ext
		},
	}
}

// ---------- Consultas ----------

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.ListPets(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetPet(ctx, id)
}

func (s *Service) Statuses(ctx context.Context) ([]Status, error) {
	return s.repo.ListStatuses(ctx)
}

func (s *Service) Species(ctx context.Context) ([]Species, error) {
	return s.repo.ListSpecies(ctx)
}

func (s *Service) InAdoption(ctx context.Context) ([]Pet, error) {
	return s.repo.ListByStatusName(ctx, s.adoptionStatus)
}

// Details hace cuatro lecturas independientes. Una mascota sin historial devuelve listas vacías.
func (s *Service) Details(ctx context.Context, petID int64) (Details, error) {
	if petID <= 0 {
		return Details{}, ErrInvalidInput
	}

	var (
		d   Details
		err error
	)
	if d.Records, err = s.repo.ListRecords(ctx, petID); err != nil {
		return Details{}, fmt.Errorf("records: %w", err)
	}
	if d.Vaccinations, err = s.repo.ListVaccinations(ctx, petID); err != nil {
		return Details{}, fmt.Errorf("vaccinations: %w", err)
	}
	if d.Dewormings, err = s.repo.ListDewormings(ctx, petID); err != nil {
		return Details{}, fmt.Errorf("dewormings: %w", err)
	}
	if d.WeightControl, err = s.repo.ListWeights(ctx, petID); err != nil {
		return Details{}, fmt.Errorf("weights: %w", err)
	}
	return d, nil
}

// ---------- Enriquecimiento ----------

// ListByOwner resuelve los nombres de dueño con una sola llamada por lote.
// Si el lote falla o falta un id, esa mascota queda con UnknownOwner; el listado no falla.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]OwnedPet, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.OwnerID)
	}
	names := s.ownerNames(ctx, uniqueIDs(ids))

	out := make([]OwnedPet, 0, len(items))
	for _, p := range items {
		name, ok := names[p.OwnerID]
		if !ok || strings.TrimSpace(name) == "" {
			name = UnknownOwner
		}
		out = append(out, OwnedPet{Pet: p, Owner: name})
	}
	return out, nil
}

func (s *Service) ownerNames(ctx context.Context, ids []int64) map[int64]string {
	if len(ids) == 0 || s.dir == nil {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "pets.enrich_owners")
	defer span.End()
	span.SetAttributes(attribute.Int("owners.requested", len(ids)))

	names, err := s.dir.OwnerNames(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "owner lookup failed")
		s.log.Warn("owner lookup failed", map[string]any{"err": err, "ids": ids})
		return nil
	}
	span.SetAttributes(attribute.Int("owners.resolved", len(names)))
	return names
}

// Appointments devuelve las citas más recientes primero con su veterinario resuelto por lote.
// Veterinarian queda en nil si no se pudo resolver.
func (s *Service) Appointments(ctx context.Context, petID int64) ([]ScheduledAppointment, error) {
	if petID <= 0 {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListAppointments(ctx, petID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, a := range items {
		if a.VeterinarianID > 0 {
			ids = append(ids, a.VeterinarianID)
		}
	}
	vets := s.veterinarians(ctx, uniqueIDs(ids))

	out := make([]ScheduledAppointment, 0, len(items))
	for _, a := range items {
		sa := ScheduledAppointment{Appointment: a}
		if v, ok := vets[a.VeterinarianID]; ok {
			v := v
			sa.Veterinarian = &v
		}
		out = append(out, sa)
	}
	return out, nil
}

func (s *Service) veterinarians(ctx context.Context, ids []int64) map[int64]Veterinarian {
	if len(ids) == 0 || s.dir == nil {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "pets.enrich_veterinarians")
	defer span.End()
	span.SetAttributes(attribute.Int("veterinarians.requested", len(ids)))

	vets, err := s.dir.Veterinarians(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "veterinarian lookup failed")
		s.log.Warn("veterinarian lookup failed", map[string]any{"err": err, "ids": ids})
		return nil
	}
	return vets
}

// ---------- Alta y cambios ----------

// Upload es un archivo recibido por multipart.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type RegisterInput struct {
	Name      string
	SpeciesID int64
	Breed     string
	Age       int
	OwnerID   int64
	StatusID  int64
	Weight    decimal.Decimal
	Image     *Upload
}

// Register guarda la imagen (si viene) y crea mascota + peso inicial en una transacción.
// Si la transacción falla, la imagen guardada se borra.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)

	if in.Name == "" ||
		in.Breed == "" ||
		in.SpeciesID <= 0 ||
		in.OwnerID <= 0 ||
		in.StatusID <= 0 ||
		in.Age < 0 ||
		in.Weight.IsNegative() {
		return 0, ErrInvalidInput
	}
	if in.Image != nil && !isImage(in.Image.ContentType) {
		return 0, ErrNotAnImage
	}

	ctx, span := s.tracer.Start(ctx, "pets.register")
	defer span.End()

	var image string
	if in.Image != nil {
		name, err := s.saveUpload(ctx, *in.Image)
		if err != nil {
			span.RecordError(err)
			return 0, err
		}
		image = name
	}

	now := s.now()
	id, err := s.repo.CreateWithInitialWeight(ctx, Pet{
		Name:      in.Name,
		SpeciesID: in.SpeciesID,
		Breed:     in.Breed,
		Age:       in.Age,
		OwnerID:   in.OwnerID,
		StatusID:  in.StatusID,
		Image:     image,
		CreatedAt: now,
	}, WeightEntry{
		Weight:     in.Weight,
		RecordDate: now,
		Notes:      InitialWeightNotes,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "register rolled back")
		s.discardImage(ctx, image)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("pet.id", id))
	return id, nil
}

// UpdateImage reemplaza la imagen y devuelve el nombre nuevo.
// La imagen anterior queda en el store.
func (s *Service) UpdateImage(ctx context.Context, petID int64, up *Upload) (string, error) {
	if up == nil {
		return "", ErrNoImage
	}
	if petID <= 0 {
		return "", ErrNotFound
	}
	if !isImage(up.ContentType) {
		return "", ErrNotAnImage
	}

	name, err := s.saveUpload(ctx, *up)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateImage(ctx, petID, name); err != nil {
		s.discardImage(ctx, name)
		return "", err
	}
	return name, nil
}

func (s *Service) Update(ctx context.Context, petID int64, patch Patch) error {
	if petID <= 0 {
		return ErrNotFound
	}
	if patch.empty() {
		return ErrInvalidInput
	}
	if patch.Name != nil {
		v := strings.TrimSpace(*patch.Name)
		if v == "" {
			return ErrInvalidInput
		}
		patch.Name = &v
	}
	if patch.Breed != nil {
		v := strings.TrimSpace(*patch.Breed)
		if v == "" {
			return ErrInvalidInput
		}
		patch.Breed = &v
	}
	if (patch.SpeciesID != nil && *patch.SpeciesID <= 0) ||
		(patch.StatusID != nil && *patch.StatusID <= 0) ||
		(patch.OwnerID != nil && *patch.OwnerID <= 0) ||
		(patch.Age != nil && *patch.Age < 0) {
		return ErrInvalidInput
	}

	return s.repo.UpdatePet(ctx, petID, patch)
}

// Delete borra la mascota y después su imagen; si la imagen no se puede borrar solo se loguea.
func (s *Service) Delete(ctx context.Context, petID int64) error {
	p, err := s.Get(ctx, petID)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePet(ctx, petID); err != nil {
		return err
	}
	s.discardImage(ctx, p.Image)
	return nil
}

// OpenImage abre una imagen guardada. Nombres con rutas se rechazan como ErrNotFound.
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, images.Info, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, images.Info{}, ErrNotFound
	}
	rc, info, err := s.images.Open(ctx, name)
	if err != nil {
		if errors.Is(err, images.ErrNotFound) {
			return nil, images.Info{}, ErrNotFound
		}
		return nil, images.Info{}, err
	}
	return rc, info, nil
}

// ---------- helpers ----------

func (s *Service) saveUpload(ctx context.Context, up Upload) (string, error) {
	name := s.newName(strings.ToLower(filepath.Ext(up.Filename)))
	err := s.images.Save(ctx, name, up.Body, images.Info{ContentType: up.ContentType, Size: up.Size})
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return name, nil
}

func (s *Service) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Remove(ctx, name); err != nil && !errors.Is(err, images.ErrNotFound) {
		s.log.Warn("image cleanup failed", map[string]any{"err": err, "image": name})
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
