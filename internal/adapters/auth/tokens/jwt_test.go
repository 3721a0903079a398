package tokens

import (
	"context"
	"testing"
	"time"

	"pet-shop-platform/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_IssueAndVerify(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)

	token, err := j.Issue(auth.Claims{UserID: 7, UserName: "ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := j.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "ana", claims.UserName)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("test-secret", time.Hour)
	issuedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issuedAt }

	token, err := j.Issue(auth.Claims{UserID: 1, UserName: "ana"})
	require.NoError(t, err)

	j.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = j.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWT("one", time.Hour).Issue(auth.Claims{UserID: 1})
	require.NoError(t, err)

	_, err = NewJWT("two", time.Hour).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_RejectsNonHMAC(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{IdUser: 1})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWT("secret", time.Hour).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Empty(t *testing.T) {
	_, err := NewJWT("secret", 0).Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}
