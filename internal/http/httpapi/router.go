package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/http/handlers"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra/geoip"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/middleware"
)

// NewRouter assembles the HTTP surface. Job routes require a bearer token;
// health and stats are open.
func NewRouter(app *handlers.App, resolver geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger, resolver),
		middleware.CORS(app.Config.CORSOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		middleware.Locale(app.Config.DefaultLocale),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))
		r.Post("/", app.JobsSubmit)
		r.Get("/", app.JobsList)
		r.Route("/{job_id}", func(r chi.Router) {
			r.Get("/", app.JobsGet)
			r.Post("/poll", app.JobsPoll)
			r.Get("/events", app.JobEvents)
			r.Get("/archive", app.JobsArchive)
		})
	})

	return r
}
