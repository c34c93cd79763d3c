package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier checks a bearer token and returns its subject user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityLoader resolves a verified subject id into the full user record.
type IdentityLoader interface {
	Identity(ctx context.Context, userID string) (*models.User, error)
}

// RequireAuth validates the Authorization bearer token and injects the
// resolved user into the request context. Verification happens before any
// handler runs; handlers behind this middleware can assume an identity.
func RequireAuth(tokens TokenVerifier, identities IdentityLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteError(w, apperr.ErrUnauthenticated, false)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				WriteError(w, err, false)
				return
			}

			user, err := identities.Identity(r.Context(), userID)
			if err != nil {
				// The subject no longer resolves to an identity; the
				// token is useless regardless of why.
				WriteError(w, apperr.ErrUnauthenticated, false)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by RequireAuth,
// or nil if the request was not authenticated.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
