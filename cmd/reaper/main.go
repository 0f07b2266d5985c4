// Command reaper fails report generation attempts that have been stuck in
// generating past the configured threshold. It is intended to be invoked by
// an external cron job every 15 minutes, not as an in-process goroutine.
//
// Exit codes: 0 = sweep completed, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	reportrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/report"
	"github.com/lumenjournal/lumen-backend/internal/app"
	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/service/reaper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Reports.ReaperTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := reaper.NewService(logger, cfg.Reports, reportrepo.New(pool))

	summary, err := svc.Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sweep completed",
		slog.Int("swept", summary.Swept),
		slog.Int("requeued", summary.Requeued),
		slog.Int("exhausted", summary.Exhausted),
		slog.Int("failed", summary.Failed),
	)
}
