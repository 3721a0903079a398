package tokens

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-shop-platform/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrTokenEmpty   = errors.New("token is empty")
)

const DefaultTTL = time.Hour

// sessionClaims es el payload firmado: {IdUser, UserName} + exp/iat.
type sessionClaims struct {
	IdUser   int64  `json:"IdUser"`
	UserName string `json:"UserName"`
	jwt.RegisteredClaims
}

// JWT emite y verifica tokens HS256 con un único secreto compartido.
// Implementa auth.TokenIssuer y auth.AuthVerifier.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (j *JWT) Issue(c auth.Claims) (string, error) {
	now := j.now()
	claims := sessionClaims{
		IdUser:   c.UserID,
		UserName: c.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWT) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.IdUser <= 0 {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{UserID: claims.IdUser, UserName: claims.UserName}, nil
}
