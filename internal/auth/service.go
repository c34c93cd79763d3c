package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw, role string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TokenMinter issues a signed bearer token for a user id.
type TokenMinter interface {
	Mint(userID string) (string, error)
}

// Service implements the credential operations: registration, login, and
// identity lookup. It owns password hashing and token issuance; persistence
// goes through UserStore.
type Service struct {
	users  UserStore
	tokens TokenMinter
}

// NewService constructs the credential service.
func NewService(users UserStore, tokens TokenMinter) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register validates the payload, persists the identity with a bcrypt hash,
// and mints a token. If minting fails after the identity was persisted, the
// identity is deleted again so registration stays atomic for the caller.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	if err := validateRegistration(req); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req.Username, req.Email, string(hashed), models.RoleMember)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		// Roll back the identity so either both the user and a usable
		// token exist, or neither does.
		if delErr := s.users.DeleteUser(ctx, user.ID); delErr != nil {
			return nil, "", fmt.Errorf("rollback user %s: %w", user.ID, delErr)
		}
		return nil, "", apperr.ErrAuthSetup
	}

	return user, token, nil
}

// Login verifies the credentials and mints a token. The failure is the same
// whether the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	if err := validateLogin(req); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("mint token: %w", err)
	}

	return user, token, nil
}

// Identity loads the user record for a verified token subject.
func (s *Service) Identity(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
