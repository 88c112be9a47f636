package controllers

import (
	"net/http"
	"time"

	"github.com/niyam-ai/compliance-os-backend/api/responses"
)

// Version reported by the welcome payload.
const apiVersion = "1.0.0"

// Welcome serves the root landing payload.
func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "", map[string]string{
			"message": "Niyam Compliance OS API",
			"version": apiVersion,
			"status":  "running",
		})
	}
}

// Health reports liveness plus which storage mode the service selected at
// startup: "connected" for the hosted backend, "fallback" for the local
// record store.
func Health(backendName string) http.HandlerFunc {
	database := "fallback"
	if backendName == "supabase" {
		database = "connected"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "", map[string]string{
			"status":    "healthy",
			"database":  database,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
