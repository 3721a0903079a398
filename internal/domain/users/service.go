package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-shop-platform/internal/ports/auth"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrPasswordsDontMatch = errors.New("passwords do not match")
	ErrConflict           = errors.New("user name or email already in use")
	ErrNotFound           = errors.New("not found")
	ErrWrongPassword      = errors.New("wrong password")
)

type Service struct {
	repo   Repository
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher, tokens auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// ---------- Usuarios ----------

func (s *Service) Users(ctx context.Context, ids []int64) ([]User, error) {
	return s.repo.ListUsers(ctx, ids)
}

func (s *Service) User(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetUser(ctx, id)
}

func (s *Service) Roles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

type RegisterInput struct {
	RoleID          int64
	Name            string
	LastName        string
	UserName        string
	Email           string
	Password        string
	ConfirmPassword string
	PhoneNumber     string
	Address         string
}

// Register valida, hashea la contraseña (bcrypt) y crea el usuario.
// La unicidad de UserName/Email la garantiza el store.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.LastName = strings.TrimSpace(in.LastName)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)

	if in.RoleID <= 0 ||
		in.Name == "" ||
		in.LastName == "" ||
		in.UserName == "" ||
		in.Email == "" ||
		in.Password == "" ||
		in.ConfirmPassword == "" ||
		in.PhoneNumber == "" ||
		in.Address == "" {
		return User{}, ErrInvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return User{}, ErrPasswordsDontMatch
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CreateUser(ctx, User{
		RoleID:       in.RoleID,
		Name:         in.Name,
		LastName:     in.LastName,
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
		CreatedAt:    s.now(),
	})
}

type Session struct {
	Token    string
	UserID   int64
	UserName string
}

// Login devuelve ErrNotFound si el usuario no existe y ErrWrongPassword si el hash no coincide.
func (s *Service) Login(ctx context.Context, userName, password string) (Session, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	u, err := s.repo.GetUserByUserName(ctx, userName)
	if err != nil {
		return Session{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Session{}, ErrWrongPassword
		}
		return Session{}, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.Issue(auth.Claims{UserID: u.ID, UserName: u.UserName})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, UserID: u.ID, UserName: u.UserName}, nil
}

// ---------- Veterinarios ----------

func (s *Service) Veterinarian(ctx context.Context, id int64) (Veterinarian, error) {
	if id <= 0 {
		return Veterinarian{}, ErrInvalidInput
	}
	return s.repo.GetVeterinarian(ctx, id)
}

func (s *Service) Veterinarians(ctx context.Context, ids []int64) ([]Veterinarian, error) {
	return s.repo.ListVeterinarians(ctx, ids)
}
