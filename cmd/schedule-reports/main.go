// Command schedule-reports runs one report-scheduling cycle for a cadence.
// It is intended to be invoked by an external cron job at each cadence's
// boundary (weekly on Monday, monthly on the 1st, and so on), not as an
// in-process goroutine.
//
// Exit codes: 0 = cycle completed (individual user failures are reported in
// the summary, not the exit code), 1 = the cycle itself failed.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/lumenjournal/lumen-backend/internal/adapter/generator"
	"github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	entryrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/entry"
	reportrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/report"
	subscriptionrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/subscription"
	userrepo "github.com/lumenjournal/lumen-backend/internal/adapter/postgres/user"
	"github.com/lumenjournal/lumen-backend/internal/app"
	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
	"github.com/lumenjournal/lumen-backend/internal/service/reportgen"
)

func main() {
	cadenceFlag := flag.String("cadence", "", "cadence to schedule: weekly, monthly, quarterly or annual")
	flag.Parse()

	cadence, err := domain.ParseCadence(*cadenceFlag)
	if err != nil {
		log.Fatalf("invalid -cadence: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Reports.SchedulerTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := reportgen.NewService(
		logger,
		cfg.Reports,
		userrepo.New(pool),
		subscriptionrepo.New(pool),
		entryrepo.New(pool),
		reportrepo.New(pool),
		generator.NewClient(cfg.Generator, logger),
		postgres.NewTxManager(pool),
	)

	summary, err := svc.RunCadence(ctx, cadence)
	if err != nil {
		logger.Error("scheduling cycle failed",
			slog.String("cadence", cadence.String()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("scheduling cycle completed",
		slog.String("cadence", cadence.String()),
		slog.Int("users", summary.Users),
		slog.Int("requested", summary.Requested),
		slog.Int("up_to_date", summary.UpToDate),
		slog.Int("ineligible", summary.Ineligible),
		slog.Int("not_entitled", summary.NotEntitled),
		slog.Int("failed", summary.Failed),
	)
}
