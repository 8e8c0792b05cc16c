package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newPostAwardService(t *testing.T) (*PostAwardService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewPostAwardService(
		repository.NewPostAwardRepository(db),
		repository.NewTenderRepository(db),
		repository.NewFileRepository(db),
		repository.NewHistoryRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func wonTender(t *testing.T, db *gorm.DB, title string) *domain.Tender {
	t.Helper()
	tender := testutil.CreateTestTender(t, db, title)
	require.NoError(t, db.Model(tender).Update("status", domain.TenderStatusWon).Error)
	return tender
}

func TestPostAwardService_Tracker(t *testing.T) {
	svc, db := newPostAwardService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	t.Run("tracker requires a won tender", func(t *testing.T) {
		open := testutil.CreateTestTender(t, db, "Open tender")
		_, err := svc.GetTracker(ctx, open.ID)
		assert.ErrorIs(t, err, ErrNotWon)
	})

	t.Run("tracker initializes lazily with every stage pending", func(t *testing.T) {
		tender := wonTender(t, db, "Won tender")
		tracker, err := svc.GetTracker(ctx, tender.ID)
		require.NoError(t, err)
		require.Len(t, tracker.Stages, len(domain.PostAwardStages))
		for _, stage := range tracker.Stages {
			assert.Equal(t, domain.PostAwardStatusPending, stage.Status)
		}
	})
}

func TestPostAwardService_UpdateStage(t *testing.T) {
	svc, db := newPostAwardService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := wonTender(t, db, "Stage update tender")

	dto, err := svc.UpdateStage(ctx, tender.ID, domain.PostAwardKickoffMeeting, &domain.UpdatePostAwardStageRequest{
		Status: domain.PostAwardStatusInProgress,
		Notes:  "Scheduled for next Monday",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PostAwardStatusInProgress, dto.Status)
	assert.Equal(t, "Scheduled for next Monday", dto.Notes)

	t.Run("stages move independently", func(t *testing.T) {
		later, err := svc.UpdateStage(ctx, tender.ID, domain.PostAwardInvoicing, &domain.UpdatePostAwardStageRequest{
			Status: domain.PostAwardStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PostAwardStatusCompleted, later.Status)

		tracker, err := svc.GetTracker(ctx, tender.ID)
		require.NoError(t, err)
		byStage := map[domain.PostAwardStage]domain.PostAwardStatus{}
		for _, s := range tracker.Stages {
			byStage[s.Stage] = s.Status
		}
		assert.Equal(t, domain.PostAwardStatusInProgress, byStage[domain.PostAwardKickoffMeeting])
		assert.Equal(t, domain.PostAwardStatusPending, byStage[domain.PostAwardOrderAcknowledgement])
	})

	t.Run("invalid stage or status rejected", func(t *testing.T) {
		_, err := svc.UpdateStage(ctx, tender.ID, domain.PostAwardStage("shipping"), &domain.UpdatePostAwardStageRequest{
			Status: domain.PostAwardStatusCompleted,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.UpdateStage(ctx, tender.ID, domain.PostAwardInvoicing, &domain.UpdatePostAwardStageRequest{
			Status: domain.PostAwardStatus("done"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-won tender rejected", func(t *testing.T) {
		open := testutil.CreateTestTender(t, db, "Still open")
		_, err := svc.UpdateStage(ctx, open.ID, domain.PostAwardInvoicing, &domain.UpdatePostAwardStageRequest{
			Status: domain.PostAwardStatusCompleted,
		})
		assert.ErrorIs(t, err, ErrNotWon)
	})
}
