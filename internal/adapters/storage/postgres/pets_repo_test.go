package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-shop-platform/internal/domain/pets"
)

func newPetsMock(t *testing.T) (*PetsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPetsRepo(db), mock
}

func rex(now time.Time) (pets.Pet, pets.WeightEntry) {
	return pets.Pet{
			Name:      "Rex",
			SpeciesID: 1,
			Breed:     "Lab",
			Age:       3,
			OwnerID:   7,
			StatusID:  1,
			CreatedAt: now,
		}, pets.WeightEntry{
			Weight:     decimal.NewFromInt(12),
			RecordDate: now,
			Notes:      pets.InitialWeightNotes,
		}
}

func TestPetsRepo_CreateWithInitialWeight_Commits(t *testing.T) {
	repo, mock := newPetsMock(t)
	now := time.Now()
	p, w := rex(now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pets`)).
		WillReturnRows(sqlmock.NewRows([]string{"id_pet"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO petweightcontrol`)).
		WithArgs(int64(42), sqlmock.AnyArg(), now, pets.InitialWeightNotes).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.CreateWithInitialWeight(context.Background(), p, w)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_CreateWithInitialWeight_RollsBack(t *testing.T) {
	repo, mock := newPetsMock(t)
	p, w := rex(time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO pets`)).
		WillReturnRows(sqlmock.NewRows([]string{"id_pet"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO petweightcontrol`)).
		WillReturnError(errors.New("check constraint"))
	mock.ExpectRollback()

	_, err := repo.CreateWithInitialWeight(context.Background(), p, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert initial weight")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_GetPet_NotFound(t *testing.T) {
	repo, mock := newPetsMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id_pet = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id_pet"}))

	_, err := repo.GetPet(context.Background(), 5)
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPetsRepo_ListByOwner_LastWeight(t *testing.T) {
	repo, mock := newPetsMock(t)
	now := time.Now()

	cols := []string{"id_pet", "pet_name", "id_species", "species_name", "breed", "age",
		"id_pet_status", "pet_status", "id_user", "image", "created_at", "last_weight"}
	mock.ExpectQuery(regexp.QuoteMeta(`AS last_weight`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "Rex", int64(1), "Perro", "Lab", 3, int64(1), "Con dueño", int64(7), "pet_a.jpg", now, "12.50").
			AddRow(int64(2), "Mia", int64(2), "Gato", "Común", 1, int64(1), "Con dueño", int64(7), nil, now, nil))

	out, err := repo.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].LastWeight.Valid)
	assert.Equal(t, "12.5", out[0].LastWeight.Decimal.String())
	assert.Equal(t, "pet_a.jpg", out[0].Image)
	assert.False(t, out[1].LastWeight.Valid)
	assert.Empty(t, out[1].Image)
}

func TestPetsRepo_UpdatePet_NotFound(t *testing.T) {
	repo, mock := newPetsMock(t)

	name := "Firulais"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE pets`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePet(context.Background(), 9, pets.Patch{Name: &name})
	assert.ErrorIs(t, err, pets.ErrNotFound)
}
