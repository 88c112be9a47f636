package middleware

import (
	"net/http"

	"github.com/niyam-ai/compliance-os-backend/api/responses"
	"github.com/niyam-ai/compliance-os-backend/api/validators"
	pkgauth "github.com/niyam-ai/compliance-os-backend/pkg/auth"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	pkgerrors "github.com/niyam-ai/compliance-os-backend/pkg/errors"
	"github.com/niyam-ai/compliance-os-backend/pkg/logger"
)

// Auth validates a bearer access token and seeds the request context with
// the subject. Refresh tokens are rejected here; they are only accepted by
// the refresh endpoint itself.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseToken(cfg, token, pkgauth.PurposeAccess)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), claims.Subject)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.Subject)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
