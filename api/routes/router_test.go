package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/niyam-ai/compliance-os-backend/internal/auth"
	"github.com/niyam-ai/compliance-os-backend/internal/records"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "niyam-compliance-os",
			AccessTTLMinutes:  10,
			RefreshTTLMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()

	store, err := records.NewFileStore(t.TempDir())
	require.NoError(t, err)
	backend, err := auth.NewFileBackend(store, cfg.Password)
	require.NoError(t, err)
	svc, err := auth.NewService(auth.ServiceParams{Backend: backend, JWT: cfg.JWT})
	require.NoError(t, err)

	return NewRouter(cfg, nil, svc, nil, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestRegisterLoginScenario(t *testing.T) {
	handler := newTestRouter(t)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"a@b.com","full_name":"Jane Doe","password":"longenough1","business_name":"Acme Co"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	userID := data["user_id"].(string)
	businessID := data["business_id"].(string)
	require.NotEmpty(t, userID)
	require.NotEmpty(t, businessID)
	require.NotEqual(t, userID, businessID)

	rec, body = doJSON(t, handler, http.MethodPost, "/api/auth/login", "",
		`{"email":"a@b.com","password":"longenough1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	require.Equal(t, "Acme Co", data["business_name"])

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/auth/login", "",
		`{"email":"a@b.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupDuplicateEmailIsConflict(t *testing.T) {
	handler := newTestRouter(t)
	payload := `{"email":"a@b.com","full_name":"Jane Doe","password":"longenough1","business_name":"Acme Co"}`

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, false, body["success"])
}

func TestSignupValidation(t *testing.T) {
	handler := newTestRouter(t)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"not-an-email","full_name":"J","password":"short","business_name":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := body["error"].(map[string]any)
	require.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestMeRequiresAccessToken(t *testing.T) {
	handler := newTestRouter(t)

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"a@b.com","full_name":"Jane Doe","password":"longenough1","business_name":"Acme Co"}`)
	data := body["data"].(map[string]any)
	access := data["access_token"].(string)
	refresh := data["refresh_token"].(string)

	rec, body = doJSON(t, handler, http.MethodGet, "/api/auth/me", access, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "a@b.com", user["email"])
	_, leaked := user["hashed_password"]
	require.False(t, leaked)

	// Refresh tokens do not open protected routes.
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/auth/me", refresh, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshFlow(t *testing.T) {
	handler := newTestRouter(t)

	_, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"a@b.com","full_name":"Jane Doe","password":"longenough1","business_name":"Acme Co"}`)
	data := body["data"].(map[string]any)
	access := data["access_token"].(string)
	refresh := data["refresh_token"].(string)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/refresh", refresh, "")
	require.Equal(t, http.StatusOK, rec.Code)
	pair := body["data"].(map[string]any)
	require.NotEmpty(t, pair["access_token"])
	require.NotEmpty(t, pair["refresh_token"])

	// Access token in the refresh slot is rejected.
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/auth/refresh", access, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	handler := newTestRouter(t)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := doJSON(t, handler, http.MethodPost, "/api/auth/logout", "any-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
}

func TestRootAndHealth(t *testing.T) {
	handler := newTestRouter(t)

	rec, body := doJSON(t, handler, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, "running", data["status"])

	rec, body = doJSON(t, handler, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	require.Equal(t, "healthy", data["status"])
	require.Equal(t, "fallback", data["database"])
}

func TestComplianceStubs(t *testing.T) {
	handler := newTestRouter(t)

	// Dashboard and GST require auth.
	rec, _ := doJSON(t, handler, http.MethodGet, "/api/dashboard/summary", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, body := doJSON(t, handler, http.MethodPost, "/api/auth/signup", "",
		`{"email":"a@b.com","full_name":"Jane Doe","password":"longenough1","business_name":"Acme Co"}`)
	access := body["data"].(map[string]any)["access_token"].(string)

	rec, body = doJSON(t, handler, http.MethodGet, "/api/dashboard/summary", access, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := body["data"].(map[string]any)
	require.Equal(t, "low", summary["penalty_risk"])

	rec, body = doJSON(t, handler, http.MethodGet, "/api/gst/filings", access, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{}, body["data"])

	// Module banners are open and unenveloped.
	rec, body = doJSON(t, handler, http.MethodGet, "/api/tds/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "TDS API", body["message"])
}
