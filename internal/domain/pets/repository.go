package pets

import "context"

type Repository interface {
	ListPets(ctx context.Context) ([]Pet, error)
	GetPet(ctx context.Context, id int64) (Pet, error)
	// ListByOwner y ListByStatusName incluyen LastWeight.
	ListByOwner(ctx context.Context, ownerID int64) ([]Pet, error)
	ListByStatusName(ctx context.Context, status string) ([]Pet, error)

	ListStatuses(ctx context.Context) ([]Status, error)
	ListSpecies(ctx context.Context) ([]Species, error)

	// CreateWithInitialWeight inserta la mascota y su primer peso en una sola transacción:
	// nunca queda una mascota sin su registro de peso inicial.
	CreateWithInitialWeight(ctx context.Context, p Pet, w WeightEntry) (int64, error)
	UpdatePet(ctx context.Context, id int64, patch Patch) error
	UpdateImage(ctx context.Context, id int64, image string) error
	// DeletePet borra la mascota y, en cascada, su historial.
	DeletePet(ctx context.Context, id int64) error

	ListRecords(ctx context.Context, petID int64) ([]MedicalRecord, error)
	ListVaccinations(ctx context.Context, petID int64) ([]Vaccination, error)
	ListDewormings(ctx context.Context, petID int64) ([]Deworming, error)
	ListWeights(ctx context.Context, petID int64) ([]WeightEntry, error)

	ListAppointments(ctx context.Context, petID int64) ([]Appointment, error)
}

// Directory resuelve datos que viven en el servicio de usuarios, por lote.
// Un id ausente en el mapa es una falla de ese ítem, no del lote.
type Directory interface {
	OwnerNames(ctx context.Context, ids []int64) (map[int64]string, error)
	Veterinarians(ctx context.Context, ids []int64) (map[int64]Veterinarian, error)
}
