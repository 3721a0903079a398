package users

import "context"

type Repository interface {
	// ids vacío => todos los usuarios. Los ids inexistentes simplemente no aparecen.
	ListUsers(ctx context.Context, ids []int64) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUserName(ctx context.Context, userName string) (User, error)
	// CreateUser devuelve ErrConflict si UserName o Email ya existen.
	CreateUser(ctx context.Context, u User) (User, error)

	ListRoles(ctx context.Context) ([]Role, error)

	GetVeterinarian(ctx context.Context, id int64) (Veterinarian, error)
	// ids vacío => todos.
	ListVeterinarians(ctx context.Context, ids []int64) ([]Veterinarian, error)
}
