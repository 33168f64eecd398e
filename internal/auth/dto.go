package auth

import (
	"github.com/starconnect/starconnect-backend/internal/users"
)

// RegisterRequest captures the payload for password-based signup.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token plus the refresh secret.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GoogleCallbackRequest carries the authorization code from the OAuth redirect.
type GoogleCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

// SessionResponse contains the tokens and user produced by a successful login.
type SessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	IsStar       bool           `json:"is_star"`
	User         *users.UserDTO `json:"user"`
}
