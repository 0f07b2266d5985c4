// Package reports serves a user's own report views. The owner sees the
// personal tier, which is the stored document unchanged.
package reports

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/domain"
	"github.com/lumenjournal/lumen-backend/pkg/ctxutil"
)

type reportRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cadence *domain.Cadence) ([]*domain.Report, error)
}

// Service reads reports for their owner.
type Service struct {
	log     *slog.Logger
	reports reportRepo
}

// NewService creates a reports read service.
func NewService(log *slog.Logger, reports reportRepo) *Service {
	return &Service{
		log:     log.With("service", "reports"),
		reports: reports,
	}
}

// List returns the caller's reports, newest period first, optionally
// narrowed to one cadence.
func (s *Service) List(ctx context.Context, cadence *domain.Cadence) ([]*domain.Report, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if cadence != nil && !cadence.Valid() {
		return nil, domain.NewValidationError("cadence", "unknown cadence")
	}
	return s.reports.ListByUser(ctx, userID, cadence)
}

// Get returns one of the caller's reports. Reports that are not ready come
// back with their lifecycle state intact; shaping the "not ready" response
// is the transport's concern.
func (s *Service) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if _, _, err := domain.ParseReportID(reportID); err != nil {
		return nil, err
	}
	return s.reports.GetByID(ctx, userID, reportID)
}
