package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose discriminates access tokens from refresh tokens. The purpose
// is carried as an explicit claim and checked on every parse, so a refresh
// token can never be replayed where an access token is expected.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

func (p TokenPurpose) IsValid() bool {
	switch p {
	case PurposeAccess, PurposeRefresh:
		return true
	}
	return false
}

// Claims represents the typed JWT issued to clients. Subject carries the
// user id.
type Claims struct {
	Purpose TokenPurpose `json:"type"`
	jwt.RegisteredClaims
}
