package reportgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lumenjournal/lumen-backend/internal/adapter/generator"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Summary reports what one scheduling cycle did.
type Summary struct {
	Cadence     domain.Cadence
	Period      domain.Period
	Users       int
	Requested   int
	UpToDate    int
	Ineligible  int
	NotEntitled int
	Failed      int
}

// outcome classifies one user's pass through the cycle.
type outcome int

const (
	outcomeRequested outcome = iota
	outcomeUpToDate
	outcomeIneligible
	outcomeNotEntitled
	outcomeFailed
)

// RunCadence runs one scheduling cycle for the cadence: it computes the
// most recent completed period, walks all active users in batches, and
// submits a generation job for every eligible user whose report for the
// period is missing or still owed its retry.
//
// Users inside a batch run concurrently; batches run sequentially to bound
// downstream load. One user's failure never aborts the cycle: it is
// recorded and the walk continues.
func (s *Service) RunCadence(ctx context.Context, cadence domain.Cadence) (Summary, error) {
	if !cadence.Valid() {
		return Summary{}, fmt.Errorf("%w: unknown cadence %q", domain.ErrValidation, cadence)
	}

	period := cadence.Period(s.now().UTC())

	userIDs, err := s.users.ListActiveIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list active users: %w", err)
	}

	summary := Summary{Cadence: cadence, Period: period, Users: len(userIDs)}

	s.log.InfoContext(ctx, "scheduling cycle started",
		slog.String("cadence", cadence.String()),
		slog.Time("period_start", period.Start),
		slog.Time("period_end", period.End),
		slog.Int("users", len(userIDs)),
	)

	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	var mu sync.Mutex
	record := func(o outcome) {
		mu.Lock()
		defer mu.Unlock()
		switch o {
		case outcomeRequested:
			summary.Requested++
		case outcomeUpToDate:
			summary.UpToDate++
		case outcomeIneligible:
			summary.Ineligible++
		case outcomeNotEntitled:
			summary.NotEntitled++
		case outcomeFailed:
			summary.Failed++
		}
	}

	for start := 0; start < len(userIDs); start += batchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		end := start + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}

		g, batchCtx := errgroup.WithContext(ctx)
		for _, userID := range userIDs[start:end] {
			g.Go(func() error {
				o, err := s.scheduleUser(batchCtx, userID, cadence, period)
				if err != nil {
					s.log.ErrorContext(batchCtx, "scheduling user failed",
						slog.String("user_id", userID.String()),
						slog.String("cadence", cadence.String()),
						slog.String("error", err.Error()),
					)
				}
				record(o)
				// Outcomes are recorded instead of returned so one user's
				// failure never cancels the rest of the batch.
				return nil
			})
		}
		g.Wait()
	}

	s.log.InfoContext(ctx, "scheduling cycle finished",
		slog.String("cadence", cadence.String()),
		slog.Int("requested", summary.Requested),
		slog.Int("up_to_date", summary.UpToDate),
		slog.Int("ineligible", summary.Ineligible),
		slog.Int("not_entitled", summary.NotEntitled),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}

// scheduleUser decides and, when due, requests generation for one user.
// The read-decide-claim sequence runs in one transaction so two overlapping
// cycles cannot both claim the same report row; the generation job is only
// submitted after the claim commits.
func (s *Service) scheduleUser(ctx context.Context, userID uuid.UUID, cadence domain.Cadence, period domain.Period) (outcome, error) {
	reportID := domain.ReportID(cadence, period.Start)

	var claimed outcome
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.reports.GetByID(ctx, userID, reportID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load report %s: %w", reportID, err)
		}
		if existing != nil && !existing.NeedsGeneration() {
			claimed = outcomeUpToDate
			return nil
		}

		if premiumOnly(cadence) {
			premium, err := s.subscriptions.IsPremium(ctx, userID)
			if err != nil {
				return fmt.Errorf("entitlement check: %w", err)
			}
			if !premium {
				claimed = outcomeNotEntitled
				return nil
			}
		}

		stats, err := s.entries.Stats(ctx, userID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("entry stats: %w", err)
		}
		if !eligible(cadence, stats) {
			claimed = outcomeIneligible
			return nil
		}

		rep := &domain.Report{
			ID:          reportID,
			UserID:      userID,
			Cadence:     cadence,
			Status:      domain.ReportStatusGenerating,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			GeneratedAt: s.now().UTC(),
		}
		if existing != nil {
			rep.RetryCount = existing.RetryCount
		}

		if err := s.reports.CreateGenerating(ctx, rep); err != nil {
			return fmt.Errorf("create report %s: %w", reportID, err)
		}
		claimed = outcomeRequested
		return nil
	})
	if err != nil {
		return outcomeFailed, err
	}
	if claimed != outcomeRequested {
		return claimed, nil
	}

	job := generator.Request{
		UserID:      userID,
		ReportID:    reportID,
		Cadence:     cadence,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	}
	if err := s.generator.Generate(ctx, job); err != nil {
		// The row stays generating; the reaper recovers it if the job
		// never landed.
		return outcomeFailed, fmt.Errorf("submit generation job %s: %w", reportID, err)
	}

	return outcomeRequested, nil
}
