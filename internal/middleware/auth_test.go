package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

// fakeVerifier implements TokenVerifier.
type fakeVerifier struct {
	userID string
	err    error
}

func (f *fakeVerifier) Verify(string) (string, error) { return f.userID, f.err }

// fakeLoader implements IdentityLoader.
type fakeLoader struct {
	user *models.User
	err  error
}

func (f *fakeLoader) Identity(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

func TestRequireAuth(t *testing.T) {
	alice := &models.User{ID: "u1", Username: "alice", Role: models.RoleMember}

	tests := []struct {
		name         string
		header       string
		verifier     *fakeVerifier
		loader       *fakeLoader
		expectedCode int
	}{
		{
			name:         "missing header",
			header:       "",
			verifier:     &fakeVerifier{},
			loader:       &fakeLoader{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "wrong scheme",
			header:       "Basic abc123",
			verifier:     &fakeVerifier{},
			loader:       &fakeLoader{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "invalid token",
			header:       "Bearer bad",
			verifier:     &fakeVerifier{err: apperr.ErrTokenInvalid},
			loader:       &fakeLoader{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "expired token",
			header:       "Bearer old",
			verifier:     &fakeVerifier{err: apperr.ErrTokenExpired},
			loader:       &fakeLoader{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "identity gone",
			header:       "Bearer ok",
			verifier:     &fakeVerifier{userID: "u1"},
			loader:       &fakeLoader{err: apperr.ErrNotFound},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid",
			header:       "Bearer ok",
			verifier:     &fakeVerifier{userID: "u1"},
			loader:       &fakeLoader{user: alice},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tt.verifier, tt.loader)(next).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, alice, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))
}
