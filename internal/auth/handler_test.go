package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/middleware"
	"github.com/amolv/contesthub/internal/models"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	tokens := NewTokenService("test-secret", time.Hour)
	svc := NewService(newFakeUserStore(), tokens)
	handler := NewHandler(svc, nil, zap.NewNop(), true)

	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	r.With(middleware.RequireAuth(tokens, svc)).Get("/api/auth/me", handler.Me)
	return r, svc
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	// Register.
	body := `{"username":"alice","email":"alice@x.com","password":"secret1"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	require.True(t, registered.Success)
	require.NotEmpty(t, registered.Token)
	require.NotNil(t, registered.User)

	// Login with the same credentials.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"email":"alice@x.com","password":"secret1"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loggedIn models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	// The login token resolves to the same identity via /me.
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me struct {
		Success bool         `json:"success"`
		User    *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, registered.User.ID, me.User.ID)
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `not a json`},
		{"short username", `{"username":"al","email":"al@x.com","password":"secret1"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"secret1"}`},
		{"short password", `{"username":"alice","email":"alice@x.com","password":"123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/register",
		bytes.NewBufferString(`{"username":"alice","email":"alice@x.com","password":"secret1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"email":"alice@x.com","password":"wrong-1"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestMeRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
