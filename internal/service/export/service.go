// Package export produces shareable report documents: it applies the export
// visibility tier and the user's privacy preferences, renders the result to
// PDF, and publishes it behind a time-limited download link.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumenjournal/lumen-backend/internal/adapter/render"
	"github.com/lumenjournal/lumen-backend/internal/domain"
	"github.com/lumenjournal/lumen-backend/internal/service/visibility"
	"github.com/lumenjournal/lumen-backend/pkg/ctxutil"
)

type reportRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error)
}

type privacyRepo interface {
	Get(ctx context.Context, userID uuid.UUID, reportID string) (*domain.PrivacyPreferences, error)
}

type entryRepo interface {
	SafetyFlags(ctx context.Context, userID uuid.UUID, entryIDs []uuid.UUID) (domain.SafetyIndex, error)
}

type renderer interface {
	Render(ctx context.Context, doc render.Document) ([]byte, error)
}

type artifactStore interface {
	Publish(ctx context.Context, objectKey, contentType string, data []byte) (string, time.Time, error)
}

// Result is a published export.
type Result struct {
	URL       string
	ExpiresAt time.Time
}

// Service exports reports.
type Service struct {
	log     *slog.Logger
	reports reportRepo
	privacy privacyRepo
	entries entryRepo
	render  renderer
	store   artifactStore
}

// NewService creates an export service.
func NewService(
	log *slog.Logger,
	reports reportRepo,
	privacy privacyRepo,
	entries entryRepo,
	render renderer,
	store artifactStore,
) *Service {
	return &Service{
		log:     log.With("service", "export"),
		reports: reports,
		privacy: privacy,
		entries: entries,
		render:  render,
		store:   store,
	}
}

// ExportReport builds and publishes the export document for one of the
// caller's reports. Only ready reports can be exported; a generating or
// failed report yields ErrNotReady without distinguishing the two.
func (s *Service) ExportReport(ctx context.Context, reportID string) (*Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, _, err := domain.ParseReportID(reportID); err != nil {
		return nil, err
	}

	rep, err := s.reports.GetByID(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Status != domain.ReportStatusReady {
		return nil, fmt.Errorf("%w: report %s is not ready yet", domain.ErrNotReady, reportID)
	}

	idx, err := s.entries.SafetyFlags(ctx, userID, rep.EntryRefs())
	if err != nil {
		return nil, fmt.Errorf("resolve safety flags: %w", err)
	}

	sections := visibility.Filter(visibility.TierExport, rep.Sections, idx)

	prefs, err := s.privacy.Get(ctx, userID, reportID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load privacy preferences: %w", err)
		}
		// No stored preferences means no extra redaction.
		prefs = &domain.PrivacyPreferences{UserID: userID, ReportID: reportID}
	}

	sections = Redact(sections, idx, prefs)

	pdf, err := s.render.Render(ctx, render.Document{
		ReportID:    rep.ID,
		Cadence:     rep.Cadence,
		PeriodStart: rep.PeriodStart,
		PeriodEnd:   rep.PeriodEnd,
		Sections:    sections,
		Metadata:    rep.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	objectKey := fmt.Sprintf("reports/%s/%s.pdf", userID, rep.ID)
	url, expiresAt, err := s.store.Publish(ctx, objectKey, "application/pdf", pdf)
	if err != nil {
		return nil, fmt.Errorf("publish export: %w", err)
	}

	s.log.InfoContext(ctx, "report exported",
		slog.String("user_id", userID.String()),
		slog.String("report_id", rep.ID),
		slog.Int("sections", len(sections)),
		slog.Time("expires_at", expiresAt),
	)

	return &Result{URL: url, ExpiresAt: expiresAt}, nil
}
