// Package reaper recovers report generation attempts that died without
// reporting back. It only flips state; re-running a recovered report is the
// scheduler's job.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

type reportRepo interface {
	ListStuck(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error)
	MarkFailed(ctx context.Context, userID uuid.UUID, id string, retryCount int) error
}

// Service sweeps stuck generating reports into failed.
type Service struct {
	log     *slog.Logger
	cfg     config.ReportsConfig
	reports reportRepo

	// now is injectable for tests.
	now func() time.Time
}

// Summary reports what one sweep did.
type Summary struct {
	Swept     int
	Requeued  int
	Exhausted int
	Failed    int
}

// NewService creates a reaper service.
func NewService(log *slog.Logger, cfg config.ReportsConfig, reports reportRepo) *Service {
	return &Service{
		log:     log.With("service", "reaper"),
		cfg:     cfg,
		reports: reports,
		now:     time.Now,
	}
}

// Sweep fails every report that has sat in generating longer than the stuck
// threshold. A first-attempt report is failed retriable, which queues it
// for re-generation on the next scheduler cycle; a report that already got
// its retry is failed terminally.
func (s *Service) Sweep(ctx context.Context) (Summary, error) {
	cutoff := s.now().UTC().Add(-s.cfg.StuckThreshold)

	stuck, err := s.reports.ListStuck(ctx, cutoff, s.cfg.StuckSweepLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("list stuck reports: %w", err)
	}

	summary := Summary{Swept: len(stuck)}

	for _, rep := range stuck {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		retryCount := domain.RetryRetriedOnce
		if rep.RetryCount >= domain.RetryRetriedOnce {
			retryCount = domain.RetryExhausted
		}

		if err := s.reports.MarkFailed(ctx, rep.UserID, rep.ID, retryCount); err != nil {
			summary.Failed++
			s.log.ErrorContext(ctx, "reaping report failed",
				slog.String("user_id", rep.UserID.String()),
				slog.String("report_id", rep.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if retryCount == domain.RetryExhausted {
			summary.Exhausted++
		} else {
			summary.Requeued++
		}

		s.log.InfoContext(ctx, "stuck report reaped",
			slog.String("user_id", rep.UserID.String()),
			slog.String("report_id", rep.ID),
			slog.Time("generated_at", rep.GeneratedAt),
			slog.Int("retry_count", retryCount),
		)
	}

	s.log.InfoContext(ctx, "sweep finished",
		slog.Int("swept", summary.Swept),
		slog.Int("requeued", summary.Requeued),
		slog.Int("exhausted", summary.Exhausted),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}
