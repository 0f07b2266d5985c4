package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-backend/internal/domain"
	"github.com/lumenjournal/lumen-backend/pkg/ctxutil"
)

type mockReportRepo struct {
	GetByIDFunc    func(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, cadence *domain.Cadence) ([]*domain.Report, error)
}

func (m *mockReportRepo) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Report, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) ListByUser(ctx context.Context, userID uuid.UUID, cadence *domain.Cadence) ([]*domain.Report, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, cadence)
	}
	return nil, nil
}

func newService(repo *mockReportRepo) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func TestList(t *testing.T) {
	userID := uuid.New()
	repo := &mockReportRepo{
		ListByUserFunc: func(ctx context.Context, uid uuid.UUID, cadence *domain.Cadence) ([]*domain.Report, error) {
			assert.Equal(t, userID, uid)
			require.NotNil(t, cadence)
			assert.Equal(t, domain.CadenceWeekly, *cadence)
			return []*domain.Report{{ID: "weekly-2026-08-17", UserID: uid}}, nil
		},
	}

	cadence := domain.CadenceWeekly
	got, err := newService(repo).List(authedCtx(userID), &cadence)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "weekly-2026-08-17", got[0].ID)
}

func TestList_UnknownCadence(t *testing.T) {
	cadence := domain.Cadence("daily")
	_, err := newService(&mockReportRepo{}).List(authedCtx(uuid.New()), &cadence)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_Unauthenticated(t *testing.T) {
	_, err := newService(&mockReportRepo{}).List(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGet(t *testing.T) {
	userID := uuid.New()
	repo := &mockReportRepo{
		GetByIDFunc: func(ctx context.Context, uid uuid.UUID, id string) (*domain.Report, error) {
			return &domain.Report{ID: id, UserID: uid, Status: domain.ReportStatusReady}, nil
		},
	}

	got, err := newService(repo).Get(authedCtx(userID), "monthly-2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, "monthly-2026-07-01", got.ID)
}

func TestGet_InvalidID(t *testing.T) {
	_, err := newService(&mockReportRepo{}).Get(authedCtx(uuid.New()), "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGet_NotFound(t *testing.T) {
	_, err := newService(&mockReportRepo{}).Get(authedCtx(uuid.New()), "weekly-2026-08-17")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
