package privacy_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/lumenjournal/lumen-backend/internal/adapter/postgres/privacy"
	"github.com/lumenjournal/lumen-backend/internal/adapter/postgres/testhelper"
	"github.com/lumenjournal/lumen-backend/internal/domain"
)

func TestRepo_Get(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := privacy.New(pool)
	ctx := context.Background()

	userID := testhelper.SeedUser(t, pool)
	testhelper.SeedPrivacyPrefs(t, pool, &domain.PrivacyPreferences{
		UserID:             userID,
		ReportID:           "weekly-2026-08-17",
		HiddenSections:     []string{"mood_trends"},
		AnonymizedEntities: []string{"Jordan Lee", "Sam"},
	})

	prefs, err := repo.Get(ctx, userID, "weekly-2026-08-17")
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}

	if !reflect.DeepEqual(prefs.HiddenSections, []string{"mood_trends"}) {
		t.Errorf("HiddenSections mismatch: got %v", prefs.HiddenSections)
	}
	if !reflect.DeepEqual(prefs.AnonymizedEntities, []string{"Jordan Lee", "Sam"}) {
		t.Errorf("AnonymizedEntities mismatch: got %v", prefs.AnonymizedEntities)
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := privacy.New(pool)
	ctx := context.Background()

	userID := testhelper.SeedUser(t, pool)

	_, err := repo.Get(ctx, userID, "weekly-2026-08-17")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_Get_OtherUsersPrefsInvisible(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := privacy.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	stranger := testhelper.SeedUser(t, pool)
	testhelper.SeedPrivacyPrefs(t, pool, &domain.PrivacyPreferences{
		UserID:   owner,
		ReportID: "monthly-2026-07-01",
	})

	_, err := repo.Get(ctx, stranger, "monthly-2026-07-01")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
