package auth

import (
	"github.com/niyam-ai/compliance-os-backend/internal/records"
)

// SignupRequest captures the account + business payload for registration.
// GSTIN and PAN are accepted unvalidated here; format helpers live in the
// validators package but are not part of the signup flow.
type SignupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	FullName     string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone        *string `json:"phone,omitempty"`
	Password     string  `json:"password" validate:"required,min=8"`
	BusinessName string  `json:"business_name" validate:"required,min=2,max=200"`
	GSTIN        *string `json:"gstin,omitempty"`
	PAN          *string `json:"pan,omitempty"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by both registration and login.
type AuthResult struct {
	UserID       string `json:"user_id"`
	BusinessID   string `json:"business_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserName     string `json:"user_name"`
	BusinessName string `json:"business_name"`
}

// TokenPair is returned by the refresh operation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfileResult bundles the redacted user with their business.
type ProfileResult struct {
	User     records.User      `json:"user"`
	Business *records.Business `json:"business"`
}
