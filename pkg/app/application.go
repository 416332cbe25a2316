// Package app assembles the HTTP server: router, middleware chain and
// graceful shutdown.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	"fleetbook/pkg/contracts"
	"fleetbook/pkg/middleware"
)

const idempotencyHeader = "Idempotency-Key"

// Public routes reachable without a session token. Everything else on
// the API requires authentication.
var publicPaths = map[string]bool{
	"/health":                true,
	"/ready":                 true,
	"/api/v1/users/register": true,
	"/api/v1/users/login":    true,
}

type Application struct {
	cfg         *config.Config
	server      *http.Server
	idempotency middleware.IdempotencyStore
	limiter     *middleware.ClientRateLimiter
}

func NewApplication(cfg *config.Config, issuer *auth.TokenIssuer, handlers ...contracts.Handler) *Application {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	idempotencyStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	limiter := middleware.NewClientRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, middleware.RemoteIPExtractor, cfg.Log)

	authenticate := auth.Authenticate(issuer, cfg.Log)
	chain := applyMiddleware(router,
		middleware.Recovery(cfg.Log),
		middleware.RequestLogging(cfg.Log),
		middleware.MaxRequestSize(int64(cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(cfg.Log),
		middleware.ClientRateLimit(limiter),
		skipPublic(authenticate),
		middleware.RequestTimeout(cfg.RequestTimeout),
		middleware.Idempotency(idempotencyStore, idempotencyHeader),
	)

	return &Application{
		cfg: cfg,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      chain,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		idempotency: idempotencyStore,
		limiter:     limiter,
	}
}

// Run starts the server and blocks until SIGINT or SIGTERM, then drains
// in-flight requests within the shutdown timeout.
func (a *Application) Run() {
	errCh := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.cfg.Log.Fatal("Server failed", "error", err)
	case sig := <-sigCh:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Graceful shutdown failed", "error", err)
	}

	a.idempotency.Stop()
	a.limiter.Stop()
	a.cfg.Log.Info("Server stopped")
}

// applyMiddleware wraps the handler so the first middleware listed runs
// first on the way in.
func applyMiddleware(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func skipPublic(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
