package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the permissive browser policy the dashboard frontend relies
// on. Tightening the origin list is a deploy-time concern, not a code one.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
