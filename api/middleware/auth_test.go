package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/niyam-ai/compliance-os-backend/pkg/auth"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "niyam-compliance-os",
		AccessTTLMinutes:  5,
		RefreshTTLMinutes: 10,
	}
}

func authProtected(cfg config.JWTConfig, captured *string) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return Auth(cfg, nil)(inner)
}

func TestAuthSeedsUserID(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), "user-123")
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	var userID string
	handler := authProtected(cfg, &userID)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if userID != "user-123" {
		t.Errorf("user id from context = %q, want user-123", userID)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	var userID string
	handler := authProtected(jwtTestConfig(), &userID)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsRefreshToken(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := pkgauth.MintRefreshToken(cfg, time.Now(), "user-123")
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	var userID string
	handler := authProtected(cfg, &userID)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	var userID string
	handler := authProtected(jwtTestConfig(), &userID)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
