// Package privacy implements the per-report privacy preference repository.
// Preferences are written by the main app; this subsystem only reads them.
package privacy

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lumenjournal/lumen-backend/internal/adapter/postgres"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// Repo provides privacy preference lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new privacy preference repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT user_id, report_id, hidden_sections, anonymized_entities
FROM report_privacy_prefs
WHERE user_id = $1 AND report_id = $2`

// Get returns the preferences for one report.
// Returns domain.ErrNotFound if the user never saved any for this report.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID, reportID string) (*domain.PrivacyPreferences, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var prefs domain.PrivacyPreferences
	err := q.QueryRow(ctx, getSQL, userID, reportID).Scan(
		&prefs.UserID, &prefs.ReportID,
		&prefs.HiddenSections, &prefs.AnonymizedEntities,
	)
	if err != nil {
		return nil, postgres.MapError(err, "privacy_prefs", reportID)
	}

	return &prefs, nil
}
