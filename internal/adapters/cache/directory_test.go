package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-shop-platform/internal/domain/pets"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDirectory struct {
	owners map[int64]string
	vets   map[int64]pets.Veterinarian
	err    error

	ownerCalls [][]int64
	vetCalls   [][]int64
}

func (c *countingDirectory) OwnerNames(_ context.Context, ids []int64) (map[int64]string, error) {
	c.ownerCalls = append(c.ownerCalls, append([]int64(nil), ids...))
	if c.err != nil {
		return nil, c.err
	}
	out := map[int64]string{}
	for _, id := range ids {
		if n, ok := c.owners[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (c *countingDirectory) Veterinarians(_ context.Context, ids []int64) (map[int64]pets.Veterinarian, error) {
	c.vetCalls = append(c.vetCalls, append([]int64(nil), ids...))
	if c.err != nil {
		return nil, c.err
	}
	out := map[int64]pets.Veterinarian{}
	for _, id := range ids {
		if v, ok := c.vets[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestDirectory_OwnerNames_OnlyMissesReachInner(t *testing.T) {
	mr, rdb := newRedis(t)
	inner := &countingDirectory{owners: map[int64]string{1: "Ana", 2: "Luis"}}
	d := NewDirectory(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	got, err := d.OwnerNames(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Ana"}, got)
	assert.True(t, mr.Exists("pets:owner:1"))

	got, err = d.OwnerNames(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Ana", 2: "Luis"}, got)

	require.Len(t, inner.ownerCalls, 2)
	assert.Equal(t, []int64{2, 3}, inner.ownerCalls[1])

	// 3 no existe: no se cachea
	assert.False(t, mr.Exists("pets:owner:3"))
	assert.Equal(t, time.Minute, mr.TTL("pets:owner:2"))
}

func TestDirectory_Veterinarians_RoundTrip(t *testing.T) {
	_, rdb := newRedis(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	inner := &countingDirectory{vets: map[int64]pets.Veterinarian{
		4: {ID: 4, Name: "Dra. Ruiz", Clinic: "Centro", Address: "Av. 1", CreatedAt: created},
	}}
	d := NewDirectory(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	_, err := d.Veterinarians(ctx, []int64{4})
	require.NoError(t, err)

	got, err := d.Veterinarians(ctx, []int64{4})
	require.NoError(t, err)
	require.Len(t, inner.vetCalls, 1)
	assert.Equal(t, "Av. 1", got[4].Address)
	assert.True(t, created.Equal(got[4].CreatedAt))
}

func TestDirectory_RedisDown_FallsThrough(t *testing.T) {
	mr, rdb := newRedis(t)
	inner := &countingDirectory{owners: map[int64]string{1: "Ana"}}
	d := NewDirectory(inner, rdb, time.Minute, nil)
	mr.Close()

	got, err := d.OwnerNames(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got[1])
}

func TestDirectory_InnerError(t *testing.T) {
	_, rdb := newRedis(t)
	boom := errors.New("users down")
	d := NewDirectory(&countingDirectory{err: boom}, rdb, time.Minute, nil)

	_, err := d.OwnerNames(context.Background(), []int64{1})
	assert.ErrorIs(t, err, boom)
}

func TestDirectory_InnerErrorKeepsCachedHits(t *testing.T) {
	_, rdb := newRedis(t)
	inner := &countingDirectory{
		owners: map[int64]string{1: "Ana"},
		vets:   map[int64]pets.Veterinarian{4: {ID: 4, Name: "Dra. Ruiz"}},
	}
	d := NewDirectory(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	_, err := d.Veterinarians(ctx, []int64{4})
	require.NoError(t, err)
	_, err = d.OwnerNames(ctx, []int64{1})
	require.NoError(t, err)

	inner.err = errors.New("users down")

	vets, err := d.Veterinarians(ctx, []int64{4, 5})
	require.NoError(t, err)
	assert.Equal(t, "Dra. Ruiz", vets[4].Name)
	assert.NotContains(t, vets, int64(5))

	names, err := d.OwnerNames(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Ana"}, names)
}
