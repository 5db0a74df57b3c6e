package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// RouterParams groups dependencies for the API router.
type RouterParams struct {
	Logger         *slog.Logger
	Store          Store
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
}

// NewRouter builds the backend API router.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := params.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	headers := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.RequestID, middleware.Recoverer, middleware.Timeout(timeout))
	r.Use(headers.Handler)
	if params.RateLimit > 0 {
		r.Use(httprate.Limit(params.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := params.Store.Ping(req.Context()); err != nil {
			logger.Warn("health check", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	r.Route("/api", NewHandler(params.Store, logger).MountRoutes)
	return r
}
