package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/niyam-ai/compliance-os-backend/api/controllers"
	authcontrollers "github.com/niyam-ai/compliance-os-backend/api/controllers/auth"
	compliancecontrollers "github.com/niyam-ai/compliance-os-backend/api/controllers/compliance"
	"github.com/niyam-ai/compliance-os-backend/api/middleware"
	"github.com/niyam-ai/compliance-os-backend/internal/auth"
	"github.com/niyam-ai/compliance-os-backend/pkg/config"
	"github.com/niyam-ai/compliance-os-backend/pkg/logger"
	"github.com/niyam-ai/compliance-os-backend/pkg/metrics"
	"github.com/niyam-ai/compliance-os-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	authService *auth.Service,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}

	backendName := ""
	if authService != nil {
		backendName = authService.BackendName()
	}

	r.Get("/", controllers.Welcome())
	r.Get("/health", controllers.Health(backendName))
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, limiter, logg)).
			Post("/signup", authcontrollers.Signup(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
			Post("/login", authcontrollers.Login(authService, logg))
		r.Post("/logout", authcontrollers.Logout(logg))
		r.Post("/refresh", authcontrollers.Refresh(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", authcontrollers.Me(authService, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/api/dashboard/summary", compliancecontrollers.DashboardSummary())
		r.Get("/api/gst/filings", compliancecontrollers.GSTFilings())
	})

	r.Get("/api/tds/", compliancecontrollers.ModuleBanner("TDS"))
	r.Get("/api/roc/", compliancecontrollers.ModuleBanner("ROC"))
	r.Get("/api/ocr/", compliancecontrollers.ModuleBanner("OCR"))
	r.Get("/api/analytics/", compliancecontrollers.ModuleBanner("Analytics"))
	r.Get("/api/settings/", compliancecontrollers.ModuleBanner("Settings"))

	return r
}
