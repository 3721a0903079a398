package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pet-shop-platform/internal/domain/users"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// código SQLSTATE de violación de unicidad
const uniqueViolation = "23505"

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	u.id_user, u.id_role, u.name, u.last_name, u.user_name, u.email,
	u.password, u.phone_number, u.address, u.created_at`

func scanUser(s rowScanner, u *users.User, extra ...any) error {
	dest := []any{
		&u.ID,
		&u.RoleID,
		&u.Name,
		&u.LastName,
		&u.UserName,
		&u.Email,
		&u.PasswordHash,
		&u.PhoneNumber,
		&u.Address,
		&u.CreatedAt,
	}
	return s.Scan(append(dest, extra...)...)
}

// ListUsers con ids hace una sola consulta por lote (= ANY($1)).
func (r *UsersRepo) ListUsers(ctx context.Context, ids []int64) ([]users.User, error) {
	q := `SELECT ` + userColumns + ` FROM users u`
	args := []any{}
	if len(ids) > 0 {
		q += ` WHERE u.id_user = ANY($1)`
		args = append(args, pq.Array(ids))
	}
	q += ` ORDER BY u.id_user ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) GetUser(ctx context.Context, id int64) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, COALESCE(ro.rol_name, '')
		FROM users u
		LEFT JOIN roles ro ON ro.id_role = u.id_role
		WHERE u.id_user = $1
	`, id)

	var u users.User
	if err := scanUser(row, &u, &u.RoleName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) GetUserByUserName(ctx context.Context, userName string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users u WHERE u.user_name = $1
	`, userName)

	var u users.User
	if err := scanUser(row, &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, fmt.Errorf("get user by name: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) CreateUser(ctx context.Context, u users.User) (users.User, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (
			id_role, name, last_name, user_name, email,
			password, phone_number, address, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id_user
	`,
		u.RoleID,
		u.Name,
		u.LastName,
		u.UserName,
		u.Email,
		u.PasswordHash,
		u.PhoneNumber,
		u.Address,
		u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.User{}, users.ErrConflict
		}
		return users.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) ListRoles(ctx context.Context) ([]users.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_role, rol_name FROM roles ORDER BY id_role ASC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	out := make([]users.Role, 0)
	for rows.Next() {
		var ro users.Role
		if err := rows.Scan(&ro.ID, &ro.Name); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

const vetColumns = `id_veterinarian, name, clinic, phone, rfc, email, adress, created_at`

func scanVet(s rowScanner, v *users.Veterinarian) error {
	return s.Scan(&v.ID, &v.Name, &v.Clinic, &v.Phone, &v.Rfc, &v.Email, &v.Address, &v.CreatedAt)
}

func (r *UsersRepo) GetVeterinarian(ctx context.Context, id int64) (users.Veterinarian, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vetColumns+` FROM veterinarians WHERE id_veterinarian = $1`, id)

	var v users.Veterinarian
	if err := scanVet(row, &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.Veterinarian{}, users.ErrNotFound
		}
		return users.Veterinarian{}, fmt.Errorf("get veterinarian: %w", err)
	}
	return v, nil
}

func (r *UsersRepo) ListVeterinarians(ctx context.Context, ids []int64) ([]users.Veterinarian, error) {
	q := `SELECT ` + vetColumns + ` FROM veterinarians`
	args := []any{}
	if len(ids) > 0 {
		q += ` WHERE id_veterinarian = ANY($1)`
		args = append(args, pq.Array(ids))
	}
	q += ` ORDER BY id_veterinarian ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list veterinarians: %w", err)
	}
	defer rows.Close()

	out := make([]users.Veterinarian, 0)
	for rows.Next() {
		var v users.Veterinarian
		if err := scanVet(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
