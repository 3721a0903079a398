package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-shop-platform/internal/domain/users"
)

// UsersRepo implementa users.Repository en memoria (dev/tests).
type UsersRepo struct {
	mu sync.RWMutex

	seq   int64
	users map[int64]users.User
	roles map[int64]users.Role
	vets  map[int64]users.Veterinarian
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		users: make(map[int64]users.User),
		roles: make(map[int64]users.Role),
		vets:  make(map[int64]users.Veterinarian),
	}
}

func (r *UsersRepo) SeedRole(ro users.Role) users.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ro.ID == 0 {
		r.seq++
		ro.ID = r.seq
	}
	r.roles[ro.ID] = ro
	return ro
}

func (r *UsersRepo) SeedVeterinarian(v users.Veterinarian) users.Veterinarian {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == 0 {
		r.seq++
		v.ID = r.seq
	}
	r.vets[v.ID] = v
	return v
}

func (r *UsersRepo) ListUsers(ctx context.Context, ids []int64) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	if len(ids) == 0 {
		for _, u := range r.users {
			out = append(out, u)
		}
	} else {
		for _, id := range ids {
			if u, ok := r.users[id]; ok {
				out = append(out, u)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UsersRepo) GetUser(ctx context.Context, id int64) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	u.RoleName = r.roles[u.RoleID].Name
	return u, nil
}

func (r *UsersRepo) GetUserByUserName(ctx context.Context, userName string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *UsersRepo) CreateUser(ctx context.Context, u users.User) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cur := range r.users {
		if cur.UserName == u.UserName || strings.EqualFold(cur.Email, u.Email) {
			return users.User{}, users.ErrConflict
		}
	}

	r.seq++
	u.ID = r.seq
	r.users[u.ID] = u
	return u, nil
}

func (r *UsersRepo) ListRoles(ctx context.Context) ([]users.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.Role, 0, len(r.roles))
	for _, ro := range r.roles {
		out = append(out, ro)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UsersRepo) GetVeterinarian(ctx context.Context, id int64) (users.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vets[id]
	if !ok {
		return users.Veterinarian{}, users.ErrNotFound
	}
	return v, nil
}

func (r *UsersRepo) ListVeterinarians(ctx context.Context, ids []int64) ([]users.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.Veterinarian, 0)
	if len(ids) == 0 {
		for _, v := range r.vets {
			out = append(out, v)
		}
	} else {
		for _, id := range ids {
			if v, ok := r.vets[id]; ok {
				out = append(out, v)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
