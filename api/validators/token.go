package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the credential from an Authorization header of the
// form "Bearer <token>". The empty string means no usable credential was
// presented.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	const prefix = "bearer "
	if len(raw) <= len(prefix) || !strings.EqualFold(raw[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(raw[len(prefix):])
}
