package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	entryrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/entry"
	privacyrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/privacy"
	reportrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/report"
	"github.com/lumenjournal/lumen-backend/internal/adapter/render"
	"github.com/lumenjournal/lumen-backend/internal/adapter/storage"
	"github.com/lumenjournal/lumen-backend/internal/auth"
	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/service/export"
	"github.com/lumenjournal/lumen-backend/internal/service/reports"
	"github.com/lumenjournal/lumen-backend/internal/transport/middleware"
	"github.com/lumenjournal/lumen-backend/internal/transport/rest"
)

// Run is the application entry point for the HTTP server. It loads
// configuration, connects to the database and object storage, wires the
// report read/export services, and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store, err := storage.NewGCS(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("connect to object storage: %w", err)
	}
	defer store.Close()

	reportRepo := reportrepo.New(pool)
	privacyRepo := privacyrepo.New(pool)
	entryRepo := entryrepo.New(pool)

	renderer := render.NewClient(cfg.Render, logger)

	exportSvc := export.NewService(logger, reportRepo, privacyRepo, entryRepo, renderer, store)
	reportsSvc := reports.NewService(logger, reportRepo)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	reportsHandler := rest.NewReportsHandler(reportsSvc, exportSvc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /health", healthHandler.Health)

	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	defer rateLimiter.Stop()

	mux.HandleFunc("GET /v1/reports", reportsHandler.List)
	mux.HandleFunc("GET /v1/reports/{id}", reportsHandler.Get)
	mux.Handle("POST /v1/reports/{id}/export",
		rateLimiter.Limit(10)(http.HandlerFunc(reportsHandler.Export)))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(tokenValidator{jwtManager}),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// tokenValidator adapts the JWT manager to the auth middleware contract.
type tokenValidator struct {
	jwt *auth.JWTManager
}

func (v tokenValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	return v.jwt.ValidateAccessToken(token)
}
