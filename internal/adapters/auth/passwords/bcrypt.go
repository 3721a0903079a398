package passwords

import (
	"errors"

	"pet-shop-platform/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = auth.ErrPasswordMismatch

const DefaultCost = 10

// Bcrypt implementa auth.PasswordHasher.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare devuelve ErrMismatch si la contraseña no corresponde al hash.
func (b *Bcrypt) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
