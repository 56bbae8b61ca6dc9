package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptohub/cryptohub/internal/auth"
	_ "github.com/cryptohub/cryptohub/testing"
)

func gatedHandler(t *testing.T, codec *auth.TokenCodec) (http.Handler, *auth.Identity) {
	t.Helper()
	var seen auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = identity
		w.WriteHeader(http.StatusOK)
	})
	return auth.Middleware(nil, codec)(next), &seen
}

func TestMiddlewareMissingHeader(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	handler, _ := gatedHandler(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMiddlewareWrongScheme(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	handler, _ := gatedHandler(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMiddlewareInvalidToken(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	handler, _ := gatedHandler(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMiddlewareExpiredToken(t *testing.T) {
	expired := auth.NewTokenCodec(testSecret, -time.Minute)
	token, err := expired.Issue(7, "b@x.com", "bob")
	require.NoError(t, err)

	codec := auth.NewTokenCodec(testSecret, time.Hour)
	handler, _ := gatedHandler(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMiddlewareValidToken(t *testing.T) {
	codec := auth.NewTokenCodec(testSecret, time.Hour)
	token, err := codec.Issue(7, "b@x.com", "bob")
	require.NoError(t, err)

	handler, seen := gatedHandler(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, auth.Identity{UserID: 7, Email: "b@x.com", Username: "bob"}, *seen)
}
