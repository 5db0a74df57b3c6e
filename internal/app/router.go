package app

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
	"github.com/odyssey-erp/odyssey-admin/web"
)

// Screen is a mountable registry screen.
type Screen interface {
	Path() string
	MountRoutes(r chi.Router)
}

// Refresher drops cached master data.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Pinger reports backend reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
	Screens        []Screen
	MasterData     Refresher
	Backend        Pinger
}

// NewRouter constructs the admin panel router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if params.Backend != nil {
			if err := params.Backend.Ping(r.Context()); err != nil {
				params.Logger.Warn("backend health", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded","backend":"unreachable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		data := view.TemplateData{Title: "Registry", CurrentPath: "/"}
		if sess != nil {
			data.Flashes = sess.PopFlashes()
			token, err := params.CSRFManager.EnsureToken(sess)
			if err != nil {
				params.Logger.Error("csrf token", slog.Any("error", err))
			}
			data.CSRFToken = token
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	if params.MasterData != nil {
		r.Post("/masterdata/refresh", func(w http.ResponseWriter, r *http.Request) {
			kind, msg := shared.FlashSuccess, "Master data refreshed"
			if err := params.MasterData.Refresh(r.Context()); err != nil {
				params.Logger.Error("refresh master data", slog.Any("error", err))
				kind, msg = shared.FlashError, "Failed to refresh master data"
			}
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				sess.AddFlash(kind, msg)
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	}

	for _, screen := range params.Screens {
		r.Route(screen.Path(), screen.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler lets browsers cache embedded assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
