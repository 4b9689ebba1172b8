// Package httptransport assembles the public router: shared middleware,
// health and metrics endpoints, and each module's routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warden/internal/platform/metrics"
	"warden/pkg/platform/httputil"
	adminmw "warden/pkg/platform/middleware/admin"
	authmw "warden/pkg/platform/middleware/auth"
	"warden/pkg/platform/middleware/metadata"
	request "warden/pkg/platform/middleware/request"
	"warden/pkg/platform/middleware/requesttime"
)

// Module registers its routes on a router.
type Module interface {
	Register(r chi.Router)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps is everything NewRouter needs. Nil Validator disables bearer auth;
// with neither admin token field set the admin routes are unguarded.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Validator      authmw.JWTValidator
	AdminToken     string
	AdminTokenHash string
	// RateLimit wraps the API routes after auth when set.
	RateLimit func(http.Handler) http.Handler

	API    []Module
	Admin  Module
	Health map[string]HealthCheck
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger, d.Metrics))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", healthHandler(d.Health))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if d.Validator != nil {
			r.Use(authmw.RequireAuth(d.Validator, d.Logger))
		}
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		for _, m := range d.API {
			m.Register(r)
		}
	})

	if d.Admin != nil {
		r.Group(func(r chi.Router) {
			switch {
			case d.AdminTokenHash != "":
				r.Use(adminmw.RequireAdminTokenHash(d.AdminTokenHash, d.Logger))
			case d.AdminToken != "":
				r.Use(adminmw.RequireAdminToken(d.AdminToken, d.Logger))
			default:
				d.Logger.Warn("admin routes are unguarded; set ADMIN_TOKEN or ADMIN_TOKEN_HASH")
			}
			d.Admin.Register(r)
		})
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
