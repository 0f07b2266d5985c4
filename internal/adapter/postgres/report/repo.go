// Package report implements the Report repository using PostgreSQL.
// Point lookups and state transitions use raw SQL; the dynamic listing
// queries are built with squirrel.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Repo provides report document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new report repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const reportColumns = `user_id, id, cadence, status, period_start, period_end,
       generated_at, retry_count, sections, metadata, created_at, updated_at`

const getByIDSQL = `
SELECT ` + reportColumns + `
FROM reports
WHERE user_id = $1 AND id = $2`

// The deterministic (user_id, id) key is the idempotence mechanism: a second
// attempt for the same period lands on the same row and overwrites it. The
// retry count survives the overwrite so the reaper can tell a re-attempt
// from a first attempt.
const upsertGeneratingSQL = `
INSERT INTO reports (user_id, id, cadence, status, period_start, period_end,
                     generated_at, retry_count, sections, metadata)
VALUES ($1, $2, $3, 'generating', $4, $5, $6, $7, '[]'::jsonb, '{}'::jsonb)
ON CONFLICT (user_id, id) DO UPDATE SET
	status       = 'generating',
	generated_at = EXCLUDED.generated_at,
	retry_count  = EXCLUDED.retry_count,
	sections     = '[]'::jsonb,
	metadata     = '{}'::jsonb,
	updated_at   = now()`

// The status guard keeps the reaper from clobbering a report the generator
// finished between the sweep's read and this write.
const markFailedSQL = `
UPDATE reports
SET status = 'failed', retry_count = $3, updated_at = now()
WHERE user_id = $1 AND id = $2 AND status = 'generating'`

// GetByID returns one report by its deterministic id.
// Returns domain.ErrNotFound if no report exists for this user and id.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, getByIDSQL, userID, id)
	rep, err := scanReport(row)
	if err != nil {
		return nil, postgres.MapError(err, "report", id)
	}
	return rep, nil
}

// CreateGenerating creates the report document for a generation attempt, or
// overwrites a stale one under the same deterministic id. The document always
// starts in generating state with empty content.
func (r *Repo) CreateGenerating(ctx context.Context, rep *domain.Report) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, upsertGeneratingSQL,
		rep.UserID, rep.ID, rep.Cadence,
		rep.PeriodStart, rep.PeriodEnd,
		rep.GeneratedAt, rep.RetryCount,
	)
	if err != nil {
		return postgres.MapError(err, "report", rep.ID)
	}
	return nil
}

// MarkFailed transitions a generating report to failed with the given retry
// count. A report that already left the generating state is not touched;
// that is not an error.
func (r *Repo) MarkFailed(ctx context.Context, userID uuid.UUID, id string, retryCount int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, markFailedSQL, userID, id, retryCount); err != nil {
		return postgres.MapError(err, "report", id)
	}
	return nil
}

// ListStuck returns reports still generating whose attempt started before
// olderThan, oldest first, capped at limit.
func (r *Repo) ListStuck(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Report, error) {
	query, args, err := psql.
		Select(reportColumns).
		From("reports").
		Where(sq.Eq{"status": domain.ReportStatusGenerating}).
		Where(sq.Lt{"generated_at": olderThan}).
		OrderBy("generated_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stuck query: %w", err)
	}

	return r.queryReports(ctx, query, args)
}

// ListByUser returns a user's reports newest first, optionally filtered by
// cadence.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, cadence *domain.Cadence) ([]*domain.Report, error) {
	builder := psql.
		Select(reportColumns).
		From("reports").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("period_start DESC")

	if cadence != nil {
		builder = builder.Where(sq.Eq{"cadence": *cadence})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	return r.queryReports(ctx, query, args)
}

func (r *Repo) queryReports(ctx context.Context, query string, args []any) ([]*domain.Report, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (*domain.Report, error) {
	var (
		rep          domain.Report
		sectionsJSON []byte
		metadataJSON []byte
	)

	err := row.Scan(
		&rep.UserID, &rep.ID, &rep.Cadence, &rep.Status,
		&rep.PeriodStart, &rep.PeriodEnd,
		&rep.GeneratedAt, &rep.RetryCount,
		&sectionsJSON, &metadataJSON,
		&rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sectionsJSON, &rep.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(metadataJSON, &rep.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return &rep, nil
}
