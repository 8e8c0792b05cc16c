package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newChecklistService(t *testing.T) (*ChecklistService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewChecklistService(
		repository.NewChecklistRepository(db),
		repository.NewTenderRepository(db),
		repository.NewHistoryRepository(db),
		nil,
		zap.NewNop(),
	)
	return svc, db
}

func seedStandardItems(t *testing.T, db *gorm.DB, stage domain.WorkflowStage, texts ...string) {
	t.Helper()
	for i, text := range texts {
		require.NoError(t, db.Create(&domain.StandardChecklistItem{
			Stage:        stage,
			Text:         text,
			DisplayOrder: i + 1,
		}).Error)
	}
}

func TestChecklistService_StageSeeding(t *testing.T) {
	svc, db := newChecklistService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := testutil.CreateTestTender(t, db, "Checklist tender")
	seedStandardItems(t, db, domain.StageTenderReview, "Download tender document", "List eligibility criteria")

	t.Run("first access seeds standard items", func(t *testing.T) {
		items, err := svc.GetForStage(ctx, tender.ID, domain.StageTenderReview)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, domain.ChecklistSourceStandard, items[0].Source)
		assert.False(t, items[0].Completed)
	})

	t.Run("second access does not duplicate", func(t *testing.T) {
		items, err := svc.GetForStage(ctx, tender.ID, domain.StageTenderReview)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("stage without standard items stays empty", func(t *testing.T) {
		items, err := svc.GetForStage(ctx, tender.ID, domain.StageNegotiation)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid stage rejected", func(t *testing.T) {
		_, err := svc.GetForStage(ctx, tender.ID, domain.WorkflowStage("shipping"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestChecklistService_ManualItems(t *testing.T) {
	svc, db := newChecklistService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := testutil.CreateTestTender(t, db, "Manual checklist tender")

	item, err := svc.AddItem(ctx, tender.ID, &domain.CreateChecklistItemRequest{
		Stage: domain.StageDocumentPreparation,
		Text:  "Collect OEM authorization letter",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChecklistSourceManual, item.Source)
	assert.Equal(t, 1, item.DisplayOrder)

	t.Run("orders append", func(t *testing.T) {
		second, err := svc.AddItem(ctx, tender.ID, &domain.CreateChecklistItemRequest{
			Stage: domain.StageDocumentPreparation,
			Text:  "Notarize affidavits",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, second.DisplayOrder)
	})

	t.Run("toggle flips completion", func(t *testing.T) {
		toggled, err := svc.ToggleItem(ctx, tender.ID, item.ID, true)
		require.NoError(t, err)
		assert.True(t, toggled.Completed)

		back, err := svc.ToggleItem(ctx, tender.ID, item.ID, false)
		require.NoError(t, err)
		assert.False(t, back.Completed)
	})

	t.Run("toggle across tenders is not found", func(t *testing.T) {
		other := testutil.CreateTestTender(t, db, "Other tender")
		_, err := svc.ToggleItem(ctx, other.ID, item.ID, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteItem(ctx, tender.ID, item.ID))
		assert.ErrorIs(t, svc.DeleteItem(ctx, tender.ID, item.ID), ErrNotFound)
	})

	t.Run("unknown tender", func(t *testing.T) {
		_, err := svc.AddItem(ctx, uuid.New(), &domain.CreateChecklistItemRequest{
			Stage: domain.StageTenderReview,
			Text:  "orphan",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestChecklistService_GenerateWithoutAssistant(t *testing.T) {
	svc, db := newChecklistService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	tender := testutil.CreateTestTender(t, db, "AI checklist tender")

	_, err := svc.Generate(salesContext(user), tender.ID, &domain.GenerateChecklistRequest{
		Stage: domain.StageBidNoBid,
	})
	assert.ErrorIs(t, err, ErrAIDisabled)
}
