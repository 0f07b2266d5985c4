// Package user implements the user listing used by the report schedulers.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
)

// Repo provides user lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listActiveSQL = `
SELECT id
FROM users
WHERE deleted_at IS NULL
ORDER BY created_at`

// ListActiveIDs enumerates the ids of all non-deleted users. Ids only — the
// scheduler fan-out needs nothing else and the population can be large.
func (r *Repo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return ids, nil
}
