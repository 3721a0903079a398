package users

import "time"

type User struct {
	ID       int64
	RoleID   int64
	RoleName string // solo lo trae GetUser (LEFT JOIN roles)

	Name        string
	LastName    string
	UserName    string
	Email       string
	PhoneNumber string
	Address     string

	// PasswordHash nunca sale del servicio.
	PasswordHash string

	CreatedAt time.Time
}

type Role struct {
	ID   int64
	Name string
}

type Veterinarian struct {
	ID        int64
	Name      string
	Clinic    string
	Phone     string
	Rfc       string
	Email     string
	Address   string
	CreatedAt time.Time
}
