// Package reportgen decides which users get a report for a finished period
// and hands the eligible ones to the content generator. It owns scheduling
// and the report's lifecycle rows, not narrative production.
package reportgen

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/adapter/generator"
	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

type userRepo interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type subscriptionRepo interface {
	IsPremium(ctx context.Context, userID uuid.UUID) (bool, error)
}

type entryRepo interface {
	Stats(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.EntryStats, error)
}

type reportRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error)
	CreateGenerating(ctx context.Context, rep *domain.Report) error
}

type generatorClient interface {
	Generate(ctx context.Context, job generator.Request) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs scheduled report-generation cycles.
type Service struct {
	log           *slog.Logger
	cfg           config.ReportsConfig
	users         userRepo
	subscriptions subscriptionRepo
	entries       entryRepo
	reports       reportRepo
	generator     generatorClient
	tx            txManager

	// now is injectable for tests.
	now func() time.Time
}

// NewService creates a scheduling service.
func NewService(
	log *slog.Logger,
	cfg config.ReportsConfig,
	users userRepo,
	subscriptions subscriptionRepo,
	entries entryRepo,
	reports reportRepo,
	gen generatorClient,
	tx txManager,
) *Service {
	return &Service{
		log:           log.With("service", "reportgen"),
		cfg:           cfg,
		users:         users,
		subscriptions: subscriptions,
		entries:       entries,
		reports:       reports,
		generator:     gen,
		tx:            tx,
		now:           time.Now,
	}
}
