package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-shop-platform/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petSelect = `
	SELECT
		p.id_pet, p.pet_name,
		p.id_species, COALESCE(s.species_name, ''),
		p.breed, p.age,
		p.id_pet_status, COALESCE(ps.pet_status, ''),
		p.id_user, p.image, p.created_at`

// último peso: fecha más reciente y, a igual fecha, el último insertado
const lastWeightColumn = `,
		(SELECT w.weight FROM petweightcontrol w
		 WHERE w.id_pet = p.id_pet
		 ORDER BY w.record_date DESC, w.id_weight DESC
		 LIMIT 1) AS last_weight`

const petFrom = `
	FROM pets p
	LEFT JOIN petstatus ps ON ps.id_pet_status = p.id_pet_status
	LEFT JOIN species s ON s.id_species = p.id_species`

func scanPet(s rowScanner, p *pets.Pet, withWeight bool) error {
	var image sql.NullString
	dest := []any{
		&p.ID,
		&p.Name,
		&p.SpeciesID,
		&p.SpeciesName,
		&p.Breed,
		&p.Age,
		&p.StatusID,
		&p.Status,
		&p.OwnerID,
		&image,
		&p.CreatedAt,
	}
	if withWeight {
		dest = append(dest, &p.LastWeight)
	}
	if err := s.Scan(dest...); err != nil {
		return err
	}
	p.Image = image.String
	return nil
}

func (r *PetsRepo) queryPets(ctx context.Context, withWeight bool, where string, args ...any) ([]pets.Pet, error) {
	q := petSelect
	if withWeight {
		q += lastWeightColumn
	}
	q += petFrom + where + ` ORDER BY p.id_pet ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		var p pets.Pet
		if err := scanPet(rows, &p, withWeight); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListPets(ctx context.Context) ([]pets.Pet, error) {
	out, err := r.queryPets(ctx, false, "")
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return out, nil
}

func (r *PetsRepo) GetPet(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, petSelect+petFrom+` WHERE p.id_pet = $1`, id)

	var p pets.Pet
	if err := scanPet(row, &p, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, fmt.Errorf("get pet: %w", err)
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]pets.Pet, error) {
	out, err := r.queryPets(ctx, true, ` WHERE p.id_user = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets by owner: %w", err)
	}
	return out, nil
}

func (r *PetsRepo) ListByStatusName(ctx context.Context, status string) ([]pets.Pet, error) {
	out, err := r.queryPets(ctx, true, ` WHERE ps.pet_status = $1`, status)
	if err != nil {
		return nil, fmt.Errorf("list pets by status: %w", err)
	}
	return out, nil
}

func (r *PetsRepo) ListStatuses(ctx context.Context) ([]pets.Status, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_pet_status, pet_status FROM petstatus ORDER BY id_pet_status`)
	if err != nil {
		return nil, fmt.Errorf("list pet statuses: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Status, 0)
	for rows.Next() {
		var s pets.Status
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListSpecies(ctx context.Context) ([]pets.Species, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_species, species_name FROM species ORDER BY id_species`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Species, 0)
	for rows.Next() {
		var s pets.Species
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateWithInitialWeight: BEGIN, INSERT pets RETURNING id_pet, INSERT petweightcontrol, COMMIT.
// Cualquier error antes del commit deja el Rollback diferido a cargo.
func (r *PetsRepo) CreateWithInitialWeight(ctx context.Context, p pets.Pet, w pets.WeightEntry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO pets (pet_name, breed, age, id_user, id_pet_status, created_at, image, id_species)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id_pet
	`,
		p.Name,
		p.Breed,
		p.Age,
		p.OwnerID,
		p.StatusID,
		p.CreatedAt,
		nullString(p.Image),
		p.SpeciesID,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert pet: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO petweightcontrol (id_pet, weight, record_date, notes)
		VALUES ($1,$2,$3,$4)
	`, id, w.Weight, w.RecordDate, w.Notes); err != nil {
		return 0, fmt.Errorf("insert initial weight: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *PetsRepo) UpdatePet(ctx context.Context, id int64, patch pets.Patch) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			pet_name = COALESCE($2::text, pet_name),
			id_species = COALESCE($3::bigint, id_species),
			breed = COALESCE($4::text, breed),
			age = COALESCE($5::int, age),
			id_pet_status = COALESCE($6::bigint, id_pet_status),
			id_user = COALESCE($7::bigint, id_user)
		WHERE id_pet = $1
	`,
		id,
		patch.Name,
		patch.SpeciesID,
		patch.Breed,
		patch.Age,
		patch.StatusID,
		patch.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	return affectedOrNotFound(res, pets.ErrNotFound)
}

func (r *PetsRepo) UpdateImage(ctx context.Context, id int64, image string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pets SET image = $2 WHERE id_pet = $1`, id, image)
	if err != nil {
		return fmt.Errorf("update pet image: %w", err)
	}
	return affectedOrNotFound(res, pets.ErrNotFound)
}

// DeletePet: el historial (pesos, registros, vacunas, citas) cae por ON DELETE CASCADE.
func (r *PetsRepo) DeletePet(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id_pet = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	return affectedOrNotFound(res, pets.ErrNotFound)
}

// ---------- Historial ----------

func (r *PetsRepo) ListRecords(ctx context.Context, petID int64) ([]pets.MedicalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.record_date, COALESCE(rt.record_types, ''), r.description, r.notes
		FROM petrecords r
		LEFT JOIN recordtypes rt ON rt.id_record_types = r.id_record_types
		WHERE r.id_pet = $1
		ORDER BY r.record_date DESC
	`, petID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]pets.MedicalRecord, 0)
	for rows.Next() {
		var m pets.MedicalRecord
		if err := rows.Scan(&m.RecordDate, &m.Type, &m.Description, &m.Notes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListVaccinations(ctx context.Context, petID int64) ([]pets.Vaccination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pv.vaccination_date, pv.next_due, COALESCE(v.vaccine_name, ''), COALESCE(sv.status_name, ''), pv.notes
		FROM petvaccinations pv
		LEFT JOIN vaccines v ON v.id_vaccine = pv.id_vaccine
		LEFT JOIN statusvaccination sv ON sv.id_status = pv.id_status
		WHERE pv.id_pet = $1
		ORDER BY pv.vaccination_date DESC
	`, petID)
	if err != nil {
		return nil, fmt.Errorf("list vaccinations: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Vaccination, 0)
	for rows.Next() {
		var (
			v    pets.Vaccination
			next sql.NullTime
		)
		if err := rows.Scan(&v.VaccinationDate, &next, &v.VaccineName, &v.StatusName, &v.Notes); err != nil {
			return nil, err
		}
		v.NextDue = timePtr(next)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListDewormings(ctx context.Context, petID int64) ([]pets.Deworming, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pd.deworming_date, pd.next_due, COALESCE(d.dewormer_name, ''), pd.notes
		FROM petdewormings pd
		LEFT JOIN dewormers d ON d.id_dewormer = pd.id_dewormer
		WHERE pd.id_pet = $1
		ORDER BY pd.deworming_date DESC
	`, petID)
	if err != nil {
		return nil, fmt.Errorf("list dewormings: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Deworming, 0)
	for rows.Next() {
		var (
			d    pets.Deworming
			next sql.NullTime
		)
		if err := rows.Scan(&d.DewormingDate, &next, &d.DewormerName, &d.Notes); err != nil {
			return nil, err
		}
		d.NextDue = timePtr(next)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListWeights(ctx context.Context, petID int64) ([]pets.WeightEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT weight, record_date, notes
		FROM petweightcontrol
		WHERE id_pet = $1
		ORDER BY record_date DESC, id_weight DESC
	`, petID)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	out := make([]pets.WeightEntry, 0)
	for rows.Next() {
		var w pets.WeightEntry
		if err := rows.Scan(&w.Weight, &w.RecordDate, &w.Notes); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PetsRepo) ListAppointments(ctx context.Context, petID int64) ([]pets.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_appoinment, id_pet, appoinment_date, reason,
			COALESCE(id_veterinarian, 0), COALESCE(id_status_appoinment, 0),
			created_at, update_at
		FROM appoinments
		WHERE id_pet = $1
		ORDER BY appoinment_date DESC, id_appoinment DESC
	`, petID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Appointment, 0)
	for rows.Next() {
		var (
			a       pets.Appointment
			updated sql.NullTime
		)
		if err := rows.Scan(
			&a.ID,
			&a.PetID,
			&a.Date,
			&a.Reason,
			&a.VeterinarianID,
			&a.StatusID,
			&a.CreatedAt,
			&updated,
		); err != nil {
			return nil, err
		}
		a.UpdatedAt = timePtr(updated)
		out = append(out, a)
	}
	return out, rows.Err()
}
