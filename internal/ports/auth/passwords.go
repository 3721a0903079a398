package auth

import "errors"

// ErrPasswordMismatch indica que la contraseña no corresponde al hash guardado.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher hashea contraseñas y las compara contra un hash guardado.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
