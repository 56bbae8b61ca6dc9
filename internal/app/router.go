package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/cryptohub/cryptohub/internal/accounts"
	"github.com/cryptohub/cryptohub/internal/observability"
	"github.com/cryptohub/cryptohub/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	Pool            *pgxpool.Pool
	Redis           *redis.Client
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with CryptoHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		if params.Pool != nil {
			g.Go(func() error { return params.Pool.Ping(ctx) })
		}
		if params.Redis != nil {
			g.Go(func() error { return params.Redis.Ping(ctx).Err() })
		}
		if err := g.Wait(); err != nil {
			params.Logger.Warn("health check failed", slog.Any("error", err))
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/auth", params.AccountsHandler.MountRoutes)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "Route "+req.URL.Path+" not found")
	})

	return r
}
