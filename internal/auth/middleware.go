package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

// Identity is the authenticated caller attached to a request context after
// the bearer token has been verified.
type Identity struct {
	UserID   int64
	Email    string
	Username string
}

type identityKey struct{}

const bearerPrefix = "Bearer "

// Middleware gates requests on a valid bearer token. Requests without an
// Authorization header, or with a non-bearer scheme, are rejected before the
// codec is consulted. The middleware never touches storage.
func Middleware(logger *slog.Logger, codec *TokenCodec) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				httpx.Fail(w, http.StatusUnauthorized, "Authentication required. Please provide a valid token.")
				return
			}

			claims, err := codec.Verify(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					logger.Warn("expired token rejected", slog.String("path", r.URL.Path))
				} else {
					logger.Warn("invalid token rejected", slog.String("path", r.URL.Path))
				}
				httpx.Fail(w, http.StatusUnauthorized, "Invalid or expired token. Please login again.")
				return
			}

			identity := Identity{
				UserID:   claims.UserID,
				Email:    claims.Email,
				Username: claims.Username,
			}
			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity, if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
