package compliance

import (
	"encoding/json"
	"net/http"

	"github.com/niyam-ai/compliance-os-backend/api/responses"
)

// The compliance modules below are placeholders for surfaces the frontend
// already navigates to. Dashboard and GST sit behind auth and return fixed
// shapes; the rest answer with a module banner.

func DashboardSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "", map[string]any{
			"upcoming_deadlines": 5,
			"compliance_health":  85.5,
			"penalty_risk":       "low",
		})
	}
}

func GSTFilings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// RawMessage keeps the empty list in the envelope; a plain empty
		// slice would be dropped by the envelope's omitempty.
		responses.WriteSuccess(w, "", json.RawMessage("[]"))
	}
}

// ModuleBanner answers the unauthenticated module index routes.
func ModuleBanner(name string) http.HandlerFunc {
	banner := map[string]string{"message": name + " API"}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, banner)
	}
}
