package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newTenderService(t *testing.T) (*TenderService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTenderService(
		repository.NewTenderRepository(db),
		repository.NewStageHistoryRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewChecklistRepository(db),
		repository.NewPostAwardRepository(db),
		repository.NewHistoryRepository(db),
		repository.NewNotificationRepository(db),
		repository.NewClientRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func salesContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
		Role:        user.Role,
	})
}

func TestTenderService_Create(t *testing.T) {
	svc, db := newTenderService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	dto, err := svc.Create(ctx, &domain.CreateTenderRequest{
		Title:           "Network upgrade for district offices",
		ReferenceNumber: "GEM-2026-0042",
		Value:           1200000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TenderStatusDrafting, dto.Status)
	assert.Equal(t, domain.StageTenderIdentification, dto.WorkflowStage)
	assert.Equal(t, "INR", dto.Currency)
	assert.Equal(t, 1, dto.Version)

	t.Run("duplicate reference number conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateTenderRequest{
			Title:           "Another tender",
			ReferenceNumber: "GEM-2026-0042",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("initial stage is recorded in history", func(t *testing.T) {
		history, err := svc.GetStageHistory(ctx, dto.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Nil(t, history[0].FromStage)
		assert.Equal(t, domain.StageTenderIdentification, history[0].ToStage)
	})
}

func TestTenderService_StageTransitions(t *testing.T) {
	svc, db := newTenderService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := testutil.CreateTestTender(t, db, "Stage test")

	t.Run("advance moves one stage and bumps version", func(t *testing.T) {
		dto, err := svc.AdvanceStage(ctx, tender.ID, &domain.StageTransitionRequest{Version: 1})
		require.NoError(t, err)
		assert.Equal(t, domain.StageTenderReview, dto.WorkflowStage)
		assert.Equal(t, 2, dto.Version)
	})

	t.Run("stale version rejected", func(t *testing.T) {
		_, err := svc.AdvanceStage(ctx, tender.ID, &domain.StageTransitionRequest{Version: 1})
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("revert moves back", func(t *testing.T) {
		dto, err := svc.RevertStage(ctx, tender.ID, &domain.StageTransitionRequest{Version: 2})
		require.NoError(t, err)
		assert.Equal(t, domain.StageTenderIdentification, dto.WorkflowStage)
	})

	t.Run("revert at first stage is a no-op", func(t *testing.T) {
		dto, err := svc.RevertStage(ctx, tender.ID, &domain.StageTransitionRequest{Version: 3})
		require.NoError(t, err)
		assert.Equal(t, domain.StageTenderIdentification, dto.WorkflowStage)
		assert.Equal(t, 3, dto.Version, "a clamped transition must not bump the version")
	})

	t.Run("advance at last stage is a no-op", func(t *testing.T) {
		last := testutil.CreateTestTender(t, db, "Completed tender")
		require.NoError(t, db.Model(last).Update("workflow_stage", domain.StageTenderCompletion).Error)
		dto, err := svc.AdvanceStage(ctx, last.ID, &domain.StageTransitionRequest{Version: 1})
		require.NoError(t, err)
		assert.Equal(t, domain.StageTenderCompletion, dto.WorkflowStage)

		_, err = svc.AdvanceStage(ctx, last.ID, &domain.StageTransitionRequest{Version: 99})
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("transitions accumulate in history", func(t *testing.T) {
		history, err := svc.GetStageHistory(ctx, tender.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}

func TestTenderService_UpdateStatus(t *testing.T) {
	svc, db := newTenderService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	t.Run("lost requires a reason", func(t *testing.T) {
		tender := testutil.CreateTestTender(t, db, "Losing tender")
		_, err := svc.UpdateStatus(ctx, tender.ID, &domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusLost,
			Version: 1,
		})
		assert.ErrorIs(t, err, ErrReasonRequired)

		dto, err := svc.UpdateStatus(ctx, tender.ID, &domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusLost,
			Reason:  "Priced out by competitor",
			Version: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TenderStatusLost, dto.Status)
		assert.Equal(t, "Priced out by competitor", dto.LostReason)
	})

	t.Run("winning initializes post-award tracker", func(t *testing.T) {
		tender := testutil.CreateTestTender(t, db, "Winning tender")
		_, err := svc.UpdateStatus(ctx, tender.ID, &domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusWon,
			Version: 1,
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&domain.PostAwardProgress{}).Where("tender_id = ?", tender.ID).Count(&count).Error)
		assert.Equal(t, int64(len(domain.PostAwardStages)), count)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		tender := testutil.CreateTestTender(t, db, "Idempotent status")
		dto, err := svc.UpdateStatus(ctx, tender.ID, &domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatusDrafting,
			Version: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, dto.Version)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		tender := testutil.CreateTestTender(t, db, "Bad status")
		_, err := svc.UpdateStatus(ctx, tender.ID, &domain.UpdateTenderStatusRequest{
			Status:  domain.TenderStatus("pending"),
			Version: 1,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestTenderService_Assignments(t *testing.T) {
	svc, db := newTenderService(t)
	owner := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	assignee := testutil.CreateTestUser(t, db, "Vikram Joshi", domain.RoleSales)
	ctx := salesContext(owner)
	tender := testutil.CreateTestTender(t, db, "Assignment test")

	dto, err := svc.SetAssignees(ctx, tender.ID, &domain.SetAssigneesRequest{
		UserIDs: []uuid.UUID{assignee.ID},
	})
	require.NoError(t, err)
	require.Len(t, dto.Assignments, 1)
	assert.Equal(t, domain.AssignmentStatusPending, dto.Assignments[0].Status)

	t.Run("assignment creates a notification", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ? AND type = ?", assignee.ID, string(domain.NotificationTypeAssignment)).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("non-assignee cannot respond", func(t *testing.T) {
		_, err := svc.RespondToAssignment(salesContext(owner), tender.ID, &domain.AssignmentResponseRequest{
			Status: domain.AssignmentStatusAccepted,
		})
		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("assignee accepts once", func(t *testing.T) {
		dto, err := svc.RespondToAssignment(salesContext(assignee), tender.ID, &domain.AssignmentResponseRequest{
			Status: domain.AssignmentStatusAccepted,
		})
		require.NoError(t, err)
		require.Len(t, dto.Assignments, 1)
		assert.Equal(t, domain.AssignmentStatusAccepted, dto.Assignments[0].Status)

		_, err = svc.RespondToAssignment(salesContext(assignee), tender.ID, &domain.AssignmentResponseRequest{
			Status: domain.AssignmentStatusDeclined,
		})
		assert.ErrorIs(t, err, ErrAlreadyResponded)
	})
}

func TestTenderService_UpdateAndDelete(t *testing.T) {
	svc, db := newTenderService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := testutil.CreateTestTender(t, db, "Editable tender")

	dto, err := svc.Update(ctx, tender.ID, &domain.UpdateTenderRequest{
		Title:           "Editable tender (revised)",
		ReferenceNumber: tender.ReferenceNumber,
		Value:           750000,
		Version:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Editable tender (revised)", dto.Title)
	assert.Equal(t, 2, dto.Version)

	t.Run("stale update conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, tender.ID, &domain.UpdateTenderRequest{
			Title:           "Should fail",
			ReferenceNumber: tender.ReferenceNumber,
			Version:         1,
		})
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("delete removes tender and related rows", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, tender.ID))
		_, err := svc.GetByID(ctx, tender.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var count int64
		require.NoError(t, db.Model(&domain.TenderStageHistory{}).Where("tender_id = ?", tender.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("delete of unknown tender", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrNotFound)
	})
}

func TestTenderService_ListFilters(t *testing.T) {
	svc, db := newTenderService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)

	a := testutil.CreateTestTender(t, db, "CCTV for municipal buildings")
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"status": domain.TenderStatusWon, "item_category": "surveillance"}).Error)
	testutil.CreateTestTender(t, db, "Switches for data center")

	t.Run("filter by status", func(t *testing.T) {
		won := domain.TenderStatusWon
		page, err := svc.List(ctx, 1, 20, &repository.TenderFilters{Status: &won}, repository.TenderSortByCreatedDesc)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("search matches title", func(t *testing.T) {
		q := "data center"
		page, err := svc.List(ctx, 1, 20, &repository.TenderFilters{SearchQuery: &q}, repository.TenderSortByCreatedDesc)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("pagination clamps", func(t *testing.T) {
		page, err := svc.List(ctx, 0, 0, nil, repository.TenderSortByCreatedDesc)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
		assert.Equal(t, int64(2), page.Total)
	})
}
