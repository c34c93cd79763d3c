package auth

import (
	"net/mail"
	"strings"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// validateRegistration checks a registration payload and returns a
// field-level validation error listing every failure at once.
func validateRegistration(req *models.RegisterRequest) error {
	ve := &apperr.ValidationError{}

	if len(strings.TrimSpace(req.Username)) < minUsernameLen {
		ve.Add("username", "username must be at least 3 characters long")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		ve.Add("email", "please provide a valid email")
	}
	if len(req.Password) < minPasswordLen {
		ve.Add("password", "password must be at least 6 characters long")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// validateLogin checks a login payload for presence only; the credential
// check itself reports a uniform invalid-credentials failure.
func validateLogin(req *models.LoginRequest) error {
	ve := &apperr.ValidationError{}

	if req.Email == "" {
		ve.Add("email", "please provide an email")
	}
	if req.Password == "" {
		ve.Add("password", "please provide a password")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}
