// Package entry implements read-only journal entry lookups used by the
// report lifecycle: data-sufficiency stats and safety-flag resolution.
// Entry content is never read here.
package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Repo provides journal entry lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Counting by timestamp only keeps this O(1) per user in document terms;
// entry content is deliberately not touched.
const statsSQL = `
SELECT count(*), count(DISTINCT (created_at AT TIME ZONE 'UTC')::date)
FROM entries
WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`

const safetyFlagsSQL = `
SELECT id, safety_flagged, has_warning_indicators
FROM entries
WHERE user_id = $1 AND id = ANY($2)`

// Stats returns the entry count and distinct-day spread for a user inside
// [from, to].
func (r *Repo) Stats(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.EntryStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.EntryStats
	if err := q.QueryRow(ctx, statsSQL, userID, from, to).Scan(&s.Count, &s.DistinctDays); err != nil {
		return domain.EntryStats{}, fmt.Errorf("entry stats for %s: %w", userID, err)
	}
	return s, nil
}

// SafetyFlags resolves safety metadata for the given entry ids. Entries that
// do not exist (or belong to another user) are simply absent from the index;
// downstream filters treat absence as flagged.
func (r *Repo) SafetyFlags(ctx context.Context, userID uuid.UUID, entryIDs []uuid.UUID) (domain.SafetyIndex, error) {
	if len(entryIDs) == 0 {
		return domain.SafetyIndex{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, safetyFlagsSQL, userID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("safety flags for %s: %w", userID, err)
	}
	defer rows.Close()

	idx := make(domain.SafetyIndex, len(entryIDs))
	for rows.Next() {
		var (
			id     uuid.UUID
			safety domain.EntrySafety
		)
		if err := rows.Scan(&id, &safety.Flagged, &safety.WarningIndicators); err != nil {
			return nil, fmt.Errorf("scan safety flags: %w", err)
		}
		idx[id] = safety
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate safety flags: %w", err)
	}

	return idx, nil
}
