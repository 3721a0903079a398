package pets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"pet-shop-platform/internal/ports/images"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	Repository

	byOwner      []Pet
	appointments []Appointment
	createErr    error
	created      []Pet
	weights      []WeightEntry
	updateErr    error
	patches      []Patch
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID int64) ([]Pet, error) {
	return r.byOwner, nil
}

func (r *testRepo) ListAppointments(ctx context.Context, petID int64) ([]Appointment, error) {
	return r.appointments, nil
}

func (r *testRepo) CreateWithInitialWeight(ctx context.Context, p Pet, w WeightEntry) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.created = append(r.created, p)
	r.weights = append(r.weights, w)
	return int64(len(r.created)), nil
}

func (r *testRepo) UpdatePet(ctx context.Context, id int64, patch Patch) error {
	r.patches = append(r.patches, patch)
	return r.updateErr
}

func (r *testRepo) UpdateImage(ctx context.Context, id int64, image string) error {
	return r.updateErr
}

type testDirectory struct {
	owners    map[int64]string
	vets      map[int64]Veterinarian
	err       error
	ownerArgs [][]int64
}

func (d *testDirectory) OwnerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	d.ownerArgs = append(d.ownerArgs, ids)
	if d.err != nil {
		return nil, d.err
	}
	return d.owners, nil
}

func (d *testDirectory) Veterinarians(ctx context.Context, ids []int64) (map[int64]Veterinarian, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.vets, nil
}

type testStore struct {
	saved   map[string][]byte
	removed []string
}

func newTestStore() *testStore { return &testStore{saved: map[string][]byte{}} }

func (s *testStore) Save(ctx context.Context, name string, body io.Reader, info images.Info) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.saved[name] = b
	return nil
}

func (s *testStore) Open(ctx context.Context, name string) (io.ReadCloser, images.Info, error) {
	b, ok := s.saved[name]
	if !ok {
		return nil, images.Info{}, images.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), images.Info{ContentType: "image/png", Size: int64(len(b))}, nil
}

func (s *testStore) Remove(ctx context.Context, name string) error {
	s.removed = append(s.removed, name)
	delete(s.saved, name)
	return nil
}

func validRegister() RegisterInput {
	return RegisterInput{
		Name:      "Rex",
		SpeciesID: 1,
		Breed:     "Lab",
		Age:       3,
		OwnerID:   7,
		StatusID:  1,
		Weight:    decimal.NewFromInt(12),
	}
}

// -------------------------
// Tests
// -------------------------

func TestListByOwner_DegradesPerPet(t *testing.T) {
	repo := &testRepo{byOwner: []Pet{
		{ID: 1, Name: "Rex", OwnerID: 7},
		{ID: 2, Name: "Mia", OwnerID: 8},
		{ID: 3, Name: "Tom", OwnerID: 7},
	}}
	dir := &testDirectory{owners: map[int64]string{7: "Ana"}}
	svc := NewService(repo, dir, newTestStore(), Options{})

	out, err := svc.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Ana", out[0].Owner)
	assert.Equal(t, UnknownOwner, out[1].Owner)
	assert.Equal(t, "Ana", out[2].Owner)

	// una sola llamada por lote, ids únicos
	require.Len(t, dir.ownerArgs, 1)
	assert.Equal(t, []int64{7, 8}, dir.ownerArgs[0])
}

func TestListByOwner_BatchFailureStillAnswers(t *testing.T) {
	repo := &testRepo{byOwner: []Pet{{ID: 1, OwnerID: 7}}}
	dir := &testDirectory{err: errors.New("users service down")}
	svc := NewService(repo, dir, newTestStore(), Options{})

	out, err := svc.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, UnknownOwner, out[0].Owner)
}

func TestAppointments_MissingVeterinarianIsNil(t *testing.T) {
	repo := &testRepo{appointments: []Appointment{
		{ID: 1, VeterinarianID: 4},
		{ID: 2, VeterinarianID: 5},
		{ID: 3},
	}}
	dir := &testDirectory{vets: map[int64]Veterinarian{4: {ID: 4, Name: "Dra. Ruiz"}}}
	svc := NewService(repo, dir, newTestStore(), Options{})

	out, err := svc.Appointments(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.NotNil(t, out[0].Veterinarian)
	assert.Equal(t, "Dra. Ruiz", out[0].Veterinarian.Name)
	assert.Nil(t, out[1].Veterinarian)
	assert.Nil(t, out[2].Veterinarian)
}

func TestRegister_InitialWeight(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, &testDirectory{}, newTestStore(), Options{})

	id, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, repo.weights, 1)
	assert.Equal(t, InitialWeightNotes, repo.weights[0].Notes)
	assert.Equal(t, "12", repo.weights[0].Weight.String())
	assert.Empty(t, repo.created[0].Image)
}

func TestRegister_RemovesImageOnRollback(t *testing.T) {
	repo := &testRepo{createErr: errors.New("weight insert failed")}
	store := newTestStore()
	svc := NewService(repo, &testDirectory{}, store, Options{})
	svc.newName = func(ext string) string { return "pet_fixed" + ext }

	in := validRegister()
	in.Image = &Upload{Filename: "rex.JPG", ContentType: "image/jpeg", Body: bytes.NewReader([]byte("jpg"))}

	_, err := svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, []string{"pet_fixed.jpg"}, store.removed)
	assert.Empty(t, store.saved)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(&testRepo{}, &testDirectory{}, newTestStore(), Options{})

	in := validRegister()
	in.Name = "  "
	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validRegister()
	in.Image = &Upload{Filename: "doc.pdf", ContentType: "application/pdf", Body: bytes.NewReader(nil)}
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestUpdateImage(t *testing.T) {
	store := newTestStore()
	repo := &testRepo{}
	svc := NewService(repo, &testDirectory{}, store, Options{})

	_, err := svc.UpdateImage(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrNoImage)

	repo.updateErr = ErrNotFound
	_, err = svc.UpdateImage(context.Background(), 99, &Upload{Filename: "a.png", ContentType: "image/png", Body: bytes.NewReader([]byte("x"))})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.removed, 1)
}

func TestUpdate_RequiresSomeField(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, &testDirectory{}, newTestStore(), Options{})

	assert.ErrorIs(t, svc.Update(context.Background(), 1, Patch{}), ErrInvalidInput)

	blank := " "
	assert.ErrorIs(t, svc.Update(context.Background(), 1, Patch{Name: &blank}), ErrInvalidInput)

	name := " Firulais "
	require.NoError(t, svc.Update(context.Background(), 1, Patch{Name: &name}))
	assert.Equal(t, "Firulais", *repo.patches[0].Name)
}

func TestOpenImage_RejectsPaths(t *testing.T) {
	store := newTestStore()
	store.saved["pet_a.png"] = []byte("png")
	svc := NewService(&testRepo{}, &testDirectory{}, store, Options{})

	_, _, err := svc.OpenImage(context.Background(), "../secret")
	assert.ErrorIs(t, err, ErrNotFound)

	rc, info, err := svc.OpenImage(context.Background(), "pet_a.png")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", info.ContentType)
}

func TestNewService_DefaultAdoptionStatus(t *testing.T) {
	svc := NewService(&testRepo{}, nil, newTestStore(), Options{})
	assert.Equal(t, DefaultAdoptionStatus, svc.adoptionStatus)
}
