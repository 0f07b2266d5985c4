package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenjournal/lumen-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an active user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	email := "testuser-" + uniqueSuffix() + "@example.com"

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email) VALUES ($1, $2)`,
		id, email,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return id
}

// SeedPremium gives the user an active premium subscription.
func SeedPremium(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO subscriptions (user_id, plan, status, current_period_end)
		 VALUES ($1, 'premium', 'active', now() + interval '30 days')`,
		userID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPremium insert subscription: %v", err)
	}
}

// SeedEntry creates one journal entry at the given time. Safety flags
// default to clean; use SeedFlaggedEntry for flagged content.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, createdAt time.Time) uuid.UUID {
	t.Helper()
	return seedEntry(t, pool, userID, createdAt, false, false)
}

// SeedFlaggedEntry creates one journal entry with the given safety flags.
func SeedFlaggedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, createdAt time.Time, flagged, warning bool) uuid.UUID {
	t.Helper()
	return seedEntry(t, pool, userID, createdAt, flagged, warning)
}

func seedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, createdAt time.Time, flagged, warning bool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO entries (id, user_id, body, mood, safety_flagged, has_warning_indicators, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, userID, "entry-"+uniqueSuffix(), 3, flagged, warning, createdAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seedEntry insert entry: %v", err)
	}

	return id
}

// SeedReport inserts a report row as-is and returns it.
func SeedReport(t *testing.T, pool *pgxpool.Pool, rep *domain.Report) *domain.Report {
	t.Helper()
	ctx := context.Background()

	if rep.Sections == nil {
		rep.Sections = []domain.Section{}
	}

	sections, err := json.Marshal(rep.Sections)
	if err != nil {
		t.Fatalf("testhelper: SeedReport marshal sections: %v", err)
	}
	metadata, err := json.Marshal(rep.Metadata)
	if err != nil {
		t.Fatalf("testhelper: SeedReport marshal metadata: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO reports (user_id, id, cadence, status, period_start, period_end, generated_at, retry_count, sections, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rep.UserID, rep.ID, string(rep.Cadence), string(rep.Status),
		rep.PeriodStart, rep.PeriodEnd, rep.GeneratedAt, rep.RetryCount,
		sections, metadata,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReport insert report: %v", err)
	}

	return rep
}

// SeedPrivacyPrefs stores export redaction preferences for one report.
func SeedPrivacyPrefs(t *testing.T, pool *pgxpool.Pool, prefs *domain.PrivacyPreferences) {
	t.Helper()
	ctx := context.Background()

	hidden := prefs.HiddenSections
	if hidden == nil {
		hidden = []string{}
	}
	anonymized := prefs.AnonymizedEntities
	if anonymized == nil {
		anonymized = []string{}
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO report_privacy_prefs (user_id, report_id, hidden_sections, anonymized_entities)
		 VALUES ($1, $2, $3, $4)`,
		prefs.UserID, prefs.ReportID, hidden, anonymized,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPrivacyPrefs insert prefs: %v", err)
	}
}
