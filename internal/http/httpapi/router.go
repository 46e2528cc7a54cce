package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/billyrestey/golfstrategy/internal/http/handlers"
	"github.com/billyrestey/golfstrategy/internal/infra"
	"github.com/billyrestey/golfstrategy/internal/infra/geoip"
	"github.com/billyrestey/golfstrategy/internal/middleware"
)

// NewRouter wires every route. Anything that reads or spends a user's
// entitlement sits behind AuthJWT; preview and the webhook stay public.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, geo geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.GeoCountry(geo),
	)

	r.Get("/api/healthz", app.Health)
	r.Get("/api/stats", app.StatsSummary)

	r.Group(func(r chi.Router) {
		// Brute-force surface: credential endpoints and the anonymous
		// preview share a per-IP limit.
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

		r.Post("/api/auth/register", app.Register)
		r.Post("/api/auth/register-ghin", app.RegisterWithGHIN)
		r.Post("/api/auth/login", app.Login)
		r.Post("/api/analyses/preview", app.AnalysesPreview)
	})

	r.Post("/api/checkout/webhook", app.CheckoutWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Get("/api/me", app.Me)
		r.Post("/api/analyses", app.AnalysesCommit)
		r.Get("/api/analyses", app.AnalysesList)
		r.Get("/api/analyses/{id}", app.AnalysesGet)
		r.Post("/api/rounds", app.RoundsCreate)
		r.Get("/api/rounds", app.RoundsList)
		r.Post("/api/checkout", app.CheckoutCreate)
		r.Post("/api/codes/activate", app.CodesActivate)
	})

	return r
}
