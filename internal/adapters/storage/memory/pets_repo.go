package memory

import (
	"context"
	"sort"
	"sync"

	"pet-shop-platform/internal/domain/pets"

	"github.com/shopspring/decimal"
)

type weightRow struct {
	id int64
	pets.WeightEntry
}

// PetsRepo implementa pets.Repository en memoria (dev/tests).
// CreateWithInitialWeight es atómico: si el peso falla, la mascota no queda.
type PetsRepo struct {
	mu  sync.RWMutex
	seq int64

	byID     map[int64]pets.Pet
	species  map[int64]pets.Species
	statuses map[int64]pets.Status

	weights      map[int64][]weightRow
	records      map[int64][]pets.MedicalRecord
	vaccinations map[int64][]pets.Vaccination
	dewormings   map[int64][]pets.Deworming
	appointments map[int64][]pets.Appointment

	// weightHook permite simular una falla al insertar el peso inicial.
	weightHook func(petID int64, w pets.WeightEntry) error
}

func NewPetsRepo() *PetsRepo {
	return &PetsRepo{
		byID:         make(map[int64]pets.Pet),
		species:      make(map[int64]pets.Species),
		statuses:     make(map[int64]pets.Status),
		weights:      make(map[int64][]weightRow),
		records:      make(map[int64][]pets.MedicalRecord),
		vaccinations: make(map[int64][]pets.Vaccination),
		dewormings:   make(map[int64][]pets.Deworming),
		appointments: make(map[int64][]pets.Appointment),
	}
}

// ---------- Seeds (dev/tests) ----------

func (r *PetsRepo) SeedSpecies(s pets.Species) pets.Species {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.next()
	}
	r.species[s.ID] = s
	return s
}

func (r *PetsRepo) SeedStatus(s pets.Status) pets.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.next()
	}
	r.statuses[s.ID] = s
	return s
}

func (r *PetsRepo) SeedRecord(petID int64, rec pets.MedicalRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[petID] = append(r.records[petID], rec)
}

func (r *PetsRepo) SeedVaccination(petID int64, v pets.Vaccination) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vaccinations[petID] = append(r.vaccinations[petID], v)
}

func (r *PetsRepo) SeedDeworming(petID int64, d pets.Deworming) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dewormings[petID] = append(r.dewormings[petID], d)
}

func (r *PetsRepo) SeedAppointment(a pets.Appointment) pets.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == 0 {
		a.ID = r.next()
	}
	r.appointments[a.PetID] = append(r.appointments[a.PetID], a)
	return a
}

func (r *PetsRepo) AddWeight(petID int64, w pets.WeightEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weights[petID] = append(r.weights[petID], weightRow{id: r.next(), WeightEntry: w})
}

func (r *PetsRepo) SetWeightInsertHook(fn func(petID int64, w pets.WeightEntry) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weightHook = fn
}

func (r *PetsRepo) next() int64 {
	r.seq++
	return r.seq
}

// ---------- Lecturas ----------

func (r *PetsRepo) ListPets(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(pets.Pet) bool { return true }, false), nil
}

func (r *PetsRepo) GetPet(ctx context.Context, id int64) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return r.resolve(p, false), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(p pets.Pet) bool { return p.OwnerID == ownerID }, true), nil
}

func (r *PetsRepo) ListByStatusName(ctx context.Context, status string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(p pets.Pet) bool {
		return r.statuses[p.StatusID].Name == status
	}, true), nil
}

func (r *PetsRepo) ListStatuses(ctx context.Context) ([]pets.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Status, 0, len(r.statuses))
	for _, s := range r.statuses {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PetsRepo) ListSpecies(ctx context.Context) ([]pets.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Species, 0, len(r.species))
	for _, s := range r.species {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---------- Escrituras ----------

func (r *PetsRepo) CreateWithInitialWeight(ctx context.Context, p pets.Pet, w pets.WeightEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.next()
	r.byID[p.ID] = p

	if r.weightHook != nil {
		if err := r.weightHook(p.ID, w); err != nil {
			// rollback
			delete(r.byID, p.ID)
			return 0, err
		}
	}
	r.weights[p.ID] = append(r.weights[p.ID], weightRow{id: r.next(), WeightEntry: w})
	return p.ID, nil
}

func (r *PetsRepo) UpdatePet(ctx context.Context, id int64, patch pets.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SpeciesID != nil {
		p.SpeciesID = *patch.SpeciesID
	}
	if patch.Breed != nil {
		p.Breed = *patch.Breed
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.StatusID != nil {
		p.StatusID = *patch.StatusID
	}
	if patch.OwnerID != nil {
		p.OwnerID = *patch.OwnerID
	}
	r.byID[id] = p
	return nil
}

func (r *PetsRepo) UpdateImage(ctx context.Context, id int64, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	p.Image = image
	r.byID[id] = p
	return nil
}

func (r *PetsRepo) DeletePet(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.weights, id)
	delete(r.records, id)
	delete(r.vaccinations, id)
	delete(r.dewormings, id)
	delete(r.appointments, id)
	return nil
}

// ---------- Historial ----------

func (r *PetsRepo) ListRecords(ctx context.Context, petID int64) ([]pets.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]pets.MedicalRecord{}, r.records[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordDate.After(out[j].RecordDate) })
	return out, nil
}

func (r *PetsRepo) ListVaccinations(ctx context.Context, petID int64) ([]pets.Vaccination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]pets.Vaccination{}, r.vaccinations[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].VaccinationDate.After(out[j].VaccinationDate) })
	return out, nil
}

func (r *PetsRepo) ListDewormings(ctx context.Context, petID int64) ([]pets.Deworming, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]pets.Deworming{}, r.dewormings[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DewormingDate.After(out[j].DewormingDate) })
	return out, nil
}

func (r *PetsRepo) ListWeights(ctx context.Context, petID int64) ([]pets.WeightEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.sortedWeights(petID)
	out := make([]pets.WeightEntry, 0, len(rows))
	for _, w := range rows {
		out = append(out, w.WeightEntry)
	}
	return out, nil
}

func (r *PetsRepo) ListAppointments(ctx context.Context, petID int64) ([]pets.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]pets.Appointment{}, r.appointments[petID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ---------- helpers (con lock tomado) ----------

func (r *PetsRepo) filter(keep func(pets.Pet) bool, withWeight bool) []pets.Pet {
	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, r.resolve(p, withWeight))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// resolve completa los nombres de catálogo (LEFT JOIN) y, si se pide, el último peso.
func (r *PetsRepo) resolve(p pets.Pet, withWeight bool) pets.Pet {
	p.SpeciesName = r.species[p.SpeciesID].Name
	p.Status = r.statuses[p.StatusID].Name

	p.LastWeight = decimal.NullDecimal{}
	if withWeight {
		if rows := r.sortedWeights(p.ID); len(rows) > 0 {
			p.LastWeight = decimal.NullDecimal{Decimal: rows[0].Weight, Valid: true}
		}
	}
	return p
}

// más reciente primero; a igual fecha, el último insertado primero
func (r *PetsRepo) sortedWeights(petID int64) []weightRow {
	rows := append([]weightRow{}, r.weights[petID]...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RecordDate.Equal(rows[j].RecordDate) {
			return rows[i].id > rows[j].id
		}
		return rows[i].RecordDate.After(rows[j].RecordDate)
	})
	return rows
}
