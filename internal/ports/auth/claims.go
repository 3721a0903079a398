package auth

// Claims representa la información que viaja en el token de sesión.
type Claims struct {
	UserID   int64
	UserName string
}
