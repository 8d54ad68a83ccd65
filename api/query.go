// Package handler is the serverless entry point for Go function runtimes
// (Vercel and compatible). It wraps the same core as the server binaries;
// the token is resolved per request so a misconfigured deployment answers
// with JSON instead of failing to boot.
package handler

import (
	"net/http"
	"os"
	"sync"

	"github.com/ametow/leakgate/internal/config"
	"github.com/ametow/leakgate/internal/domain"
	"github.com/ametow/leakgate/internal/server"
	"github.com/ametow/leakgate/internal/service"
	"github.com/ametow/leakgate/internal/upstream/leakosint"
)

var (
	once       sync.Once
	defaultSrv http.Handler
)

func build() http.Handler {
	cfg, err := config.Load()
	if err != nil {
		// Handler only calls build once the token check passed
		panic(err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}

	client := leakosint.New(leakosint.Config{
		Token:   cfg.Upstream.Token,
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, logger)

	svc := service.NewProxyService(service.ProxyDeps{
		Upstream: client,
		Logger:   logger,
	})

	srv := server.New(server.Deps{
		Service:        svc,
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		// function callers historically send either "query" or "request"
		AllowRequestAlias: true,
	})

	return srv.QueryHandler()
}

// Handler is the function runtime entry point. Routing is done by the
// platform, so every non-preflight request is treated as a query call.
func Handler(w http.ResponseWriter, r *http.Request) {
	if os.Getenv("LEAK_API_TOKEN") == "" {
		writeMisconfigured(w, r)
		return
	}

	once.Do(func() { defaultSrv = build() })
	defaultSrv.ServeHTTP(w, r)
}

func writeMisconfigured(w http.ResponseWriter, r *http.Request) {
	origin := "*"
	if origins := config.ParseOrigins(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		origin = origins[0]
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		server.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	server.WriteError(w, domain.ErrMissingToken)
}
