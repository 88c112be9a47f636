package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// wrong purpose, missing subject. Callers map it to an unauthorized response
// without distinguishing the cause.
var ErrInvalidToken = fmt.Errorf("invalid token")

// MintAccessToken issues a signed access token for the subject user id.
func MintAccessToken(cfg config.JWTConfig, now time.Time, subjectID string) (string, error) {
	return mintToken(cfg, now, subjectID, PurposeAccess, cfg.AccessTTL())
}

// MintRefreshToken issues a signed refresh token for the subject user id.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, subjectID string) (string, error) {
	return mintToken(cfg, now, subjectID, PurposeRefresh, cfg.RefreshTTL())
}

func mintToken(cfg config.JWTConfig, now time.Time, subjectID string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	if strings.TrimSpace(subjectID) == "" {
		return "", fmt.Errorf("subject id is required")
	}
	if !purpose.IsValid() {
		return "", fmt.Errorf("invalid token purpose %q", purpose)
	}

	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates the JWT string against the expected purpose and
// returns typed claims. Any failure surfaces as ErrInvalidToken.
func ParseToken(cfg config.JWTConfig, tokenString string, expect TokenPurpose) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if !expect.IsValid() {
		return nil, fmt.Errorf("invalid expected purpose %q", expect)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Purpose != expect {
		return nil, fmt.Errorf("%w: purpose mismatch", ErrInvalidToken)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
