package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"pet-shop-platform/internal/domain/pets"
	"pet-shop-platform/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	ownerPrefix = "pets:owner:"
	vetPrefix   = "pets:vet:"

	DefaultTTL = 10 * time.Minute
)

// Directory cachea en Redis las respuestas de otro pets.Directory.
// Sólo los ids que faltan en cache viajan al directorio real.
// Si Redis falla se consulta el directorio real completo.
type Directory struct {
	inner pets.Directory
	rdb   redis.UniversalClient
	ttl   time.Duration
	log   logger.Logger
}

func NewDirectory(inner pets.Directory, rdb redis.UniversalClient, ttl time.Duration, log logger.Logger) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Directory{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

type vetEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Clinic    string    `json:"clinic"`
	Phone     string    `json:"phone"`
	Rfc       string    `json:"rfc"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Directory) OwnerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw, err := d.lookup(ctx, ownerPrefix, ids)
	if err != nil {
		return d.inner.OwnerNames(ctx, ids)
	}

	var missing []int64
	for _, id := range ids {
		v, ok := raw[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		var name string
		if json.Unmarshal([]byte(v), &name) != nil {
			missing = append(missing, id)
			continue
		}
		out[id] = name
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := d.inner.OwnerNames(ctx, missing)
	if err != nil {
		// los ids en cache se devuelven igual; los que faltan quedan sin resolver
		if len(out) == 0 {
			return nil, err
		}
		d.log.Warn("directory lookup failed for cache misses", map[string]any{"err": err, "ids": missing})
		return out, nil
	}
	toStore := make(map[int64]any, len(fresh))
	for id, name := range fresh {
		out[id] = name
		toStore[id] = name
	}
	d.store(ctx, ownerPrefix, toStore)
	return out, nil
}

func (d *Directory) Veterinarians(ctx context.Context, ids []int64) (map[int64]pets.Veterinarian, error) {
	out := make(map[int64]pets.Veterinarian, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw, err := d.lookup(ctx, vetPrefix, ids)
	if err != nil {
		return d.inner.Veterinarians(ctx, ids)
	}

	var missing []int64
	for _, id := range ids {
		v, ok := raw[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		var e vetEntry
		if json.Unmarshal([]byte(v), &e) != nil {
			missing = append(missing, id)
			continue
		}
		out[id] = pets.Veterinarian(e)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := d.inner.Veterinarians(ctx, missing)
	if err != nil {
		if len(out) == 0 {
			return nil, err
		}
		d.log.Warn("directory lookup failed for cache misses", map[string]any{"err": err, "ids": missing})
		return out, nil
	}
	toStore := make(map[int64]any, len(fresh))
	for id, v := range fresh {
		out[id] = v
		toStore[id] = vetEntry(v)
	}
	d.store(ctx, vetPrefix, toStore)
	return out, nil
}

// lookup hace un MGET y devuelve sólo las claves presentes.
func (d *Directory) lookup(ctx context.Context, prefix string, ids []int64) (map[int64]string, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + strconv.FormatInt(id, 10)
	}
	vals, err := d.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		d.log.Warn("directory cache read failed", map[string]any{"err": err, "prefix": prefix})
		return nil, err
	}

	found := make(map[int64]string, len(ids))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			found[ids[i]] = s
		}
	}
	return found, nil
}

func (d *Directory) store(ctx context.Context, prefix string, items map[int64]any) {
	if len(items) == 0 {
		return
	}
	_, err := d.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for id, v := range items {
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			p.Set(ctx, prefix+strconv.FormatInt(id, 10), b, d.ttl)
		}
		return nil
	})
	if err != nil {
		d.log.Warn("directory cache write failed", map[string]any{"err": err, "prefix": prefix})
	}
}
