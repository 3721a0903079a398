package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: 7, UserName: "ana"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func TestAuthContext(t *testing.T) {
	var got auth.Claims
	var ok bool
	h := AuthContext(fakeVerifier{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid bearer", "Bearer good", true},
		{"lowercase scheme", "bearer good", true},
		{"invalid token passes through", "Bearer bad", false},
		{"no header", "", false},
		{"basic scheme", "Basic good", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok = auth.Claims{}, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.EqualValues(t, 7, got.UserID)
			}
		})
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pets/getPetById/9", nil))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.EqualValues(t, 404, e.ContextMap()["status"])
	assert.Equal(t, "/api/pets/getPetById/9", e.ContextMap()["path"])
}

func TestRecover_WritesJSON500(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Recover(logger.Wrap(zap.New(core)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
