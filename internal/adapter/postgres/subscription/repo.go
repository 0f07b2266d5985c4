// Package subscription implements the premium entitlement lookup. The
// subscriptions table is maintained by the billing service; this subsystem
// only asks whether an entitlement is currently active.
package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
)

// Repo provides subscription lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new subscription repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const isPremiumSQL = `
SELECT EXISTS (
	SELECT 1
	FROM subscriptions
	WHERE user_id = $1
	  AND status = 'active'
	  AND (current_period_end IS NULL OR current_period_end > now())
)`

// IsPremium reports whether the user holds an active premium entitlement.
func (r *Repo) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var premium bool
	if err := q.QueryRow(ctx, isPremiumSQL, userID).Scan(&premium); err != nil {
		return false, fmt.Errorf("premium check for %s: %w", userID, err)
	}
	return premium, nil
}
