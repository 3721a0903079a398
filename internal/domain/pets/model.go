package pets

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitialWeightNotes marca el primer registro de peso creado junto con la mascota.
const InitialWeightNotes = "Peso inicial de la mascota"

// Pet representa el perfil de una mascota con sus catálogos resueltos.
type Pet struct {
	ID   int64
	Name string

	SpeciesID   int64
	SpeciesName string
	Breed       string
	Age         int

	StatusID int64
	Status   string

	OwnerID int64
	Image   string // nombre de archivo; vacío si no tiene

	// Último peso registrado. Solo lo llenan los listados por dueño y por estado.
	LastWeight decimal.NullDecimal

	CreatedAt time.Time
}

type Species struct {
	ID   int64
	Name string
}

type Status struct {
	ID   int64
	Name string
}

type WeightEntry struct {
	Weight     decimal.Decimal
	RecordDate time.Time
	Notes      string
}

type MedicalRecord struct {
	RecordDate  time.Time
	Type        string
	Description string
	Notes       string
}

type Vaccination struct {
	VaccinationDate time.Time
	NextDue         *time.Time
	VaccineName     string
	StatusName      string
	Notes           string
}

type Deworming struct {
	DewormingDate time.Time
	NextDue       *time.Time
	DewormerName  string
	Notes         string
}

// Details es el historial clínico completo; cada lista va de la fecha más reciente a la más antigua.
type Details struct {
	Records       []MedicalRecord
	Vaccinations  []Vaccination
	Dewormings    []Deworming
	WeightControl []WeightEntry
}

type Appointment struct {
	ID             int64
	PetID          int64
	Date           time.Time
	Reason         string
	VeterinarianID int64
	StatusID       int64
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

type Veterinarian struct {
	ID        int64
	Name      string
	Clinic    string
	Phone     string
	Rfc       string
	Email     string
	Address   string
	CreatedAt time.Time
}

// OwnedPet es una mascota con el nombre del dueño ya resuelto.
type OwnedPet struct {
	Pet
	Owner string
}

// ScheduledAppointment es una cita con su veterinario; nil si no se pudo resolver.
type ScheduledAppointment struct {
	Appointment
	Veterinarian *Veterinarian
}

// Patch: nil = no tocar.
type Patch struct {
	Name      *string
	SpeciesID *int64
	Breed     *string
	Age       *int
	StatusID  *int64
	OwnerID   *int64
}

func (p Patch) empty() bool {
	return p.Name == nil &&
		p.SpeciesID == nil &&
		p.Breed == nil &&
		p.Age == nil &&
		p.StatusID == nil &&
		p.OwnerID == nil
}
