package reaper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-backend/internal/config"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

type markFailedCall struct {
	userID     uuid.UUID
	reportID   string
	retryCount int
}

type mockReportRepo struct {
	ListStuckFunc  func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error)
	MarkFailedFunc func(ctx context.Context, userID uuid.UUID, id string, retryCount int) error
	markedFailed   []markFailedCall
}

func (m *mockReportRepo) ListStuck(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
	if m.ListStuckFunc != nil {
		return m.ListStuckFunc(ctx, olderThan, limit)
	}
	return nil, nil
}

func (m *mockReportRepo) MarkFailed(ctx context.Context, userID uuid.UUID, id string, retryCount int) error {
	m.markedFailed = append(m.markedFailed, markFailedCall{userID, id, retryCount})
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, userID, id, retryCount)
	}
	return nil
}

var sweepNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func newService(repo *mockReportRepo) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ReportsConfig{StuckThreshold: 30 * time.Minute, StuckSweepLimit: 500}
	svc := NewService(log, cfg, repo)
	svc.now = func() time.Time { return sweepNow }
	return svc
}

func stuckReport(retryCount int, stuckFor time.Duration) *domain.Report {
	return &domain.Report{
		ID:          "weekly-2026-08-17",
		UserID:      uuid.New(),
		Cadence:     domain.CadenceWeekly,
		Status:      domain.ReportStatusGenerating,
		RetryCount:  retryCount,
		GeneratedAt: sweepNow.Add(-stuckFor),
	}
}

func TestSweep_CutoffFromThreshold(t *testing.T) {
	repo := &mockReportRepo{}
	var gotCutoff time.Time
	var gotLimit int
	repo.ListStuckFunc = func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
		gotCutoff = olderThan
		gotLimit = limit
		return nil, nil
	}

	_, err := newService(repo).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sweepNow.Add(-30*time.Minute), gotCutoff)
	assert.Equal(t, 500, gotLimit)
}

func TestSweep_FirstAttemptBecomesRetriable(t *testing.T) {
	// Generating for 40 minutes against a 30-minute threshold.
	rep := stuckReport(domain.RetryFresh, 40*time.Minute)
	repo := &mockReportRepo{
		ListStuckFunc: func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
			return []*domain.Report{rep}, nil
		},
	}

	summary, err := newService(repo).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Swept: 1, Requeued: 1}, summary)
	require.Len(t, repo.markedFailed, 1)
	assert.Equal(t, rep.UserID, repo.markedFailed[0].userID)
	assert.Equal(t, rep.ID, repo.markedFailed[0].reportID)
	assert.Equal(t, domain.RetryRetriedOnce, repo.markedFailed[0].retryCount)
}

func TestSweep_SecondAttemptIsTerminal(t *testing.T) {
	rep := stuckReport(domain.RetryRetriedOnce, time.Hour)
	repo := &mockReportRepo{
		ListStuckFunc: func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
			return []*domain.Report{rep}, nil
		},
	}

	summary, err := newService(repo).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Swept: 1, Exhausted: 1}, summary)
	require.Len(t, repo.markedFailed, 1)
	assert.Equal(t, domain.RetryExhausted, repo.markedFailed[0].retryCount)
}

func TestSweep_OneFailureDoesNotAbort(t *testing.T) {
	broken := stuckReport(domain.RetryFresh, time.Hour)
	healthy := stuckReport(domain.RetryFresh, time.Hour)
	repo := &mockReportRepo{
		ListStuckFunc: func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
			return []*domain.Report{broken, healthy}, nil
		},
	}
	repo.MarkFailedFunc = func(ctx context.Context, userID uuid.UUID, id string, retryCount int) error {
		if userID == broken.UserID {
			return errors.New("connection reset")
		}
		return nil
	}

	summary, err := newService(repo).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Swept: 2, Requeued: 1, Failed: 1}, summary)
}

func TestSweep_ListFailure(t *testing.T) {
	repo := &mockReportRepo{
		ListStuckFunc: func(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
			return nil, errors.New("db down")
		},
	}

	_, err := newService(repo).Sweep(context.Background())
	require.Error(t, err)
}
