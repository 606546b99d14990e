package auth

import (
	"strings"

	"github.com/ryz3006/alignzo/internal"
)

// LoginDTO carries the credentials posted to /auth/login.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO carries the refresh token posted to /auth/refresh.
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate normalizes the email and checks both fields are present.
func (d *LoginDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d *RefreshTokenDTO) Validate() error {
	if strings.TrimSpace(d.RefreshToken) == "" {
		return internal.NewValidationError("refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
