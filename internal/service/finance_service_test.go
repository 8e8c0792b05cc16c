package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newFinanceService(t *testing.T) (*FinanceService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewFinanceService(
		repository.NewFinancialRequestRepository(db),
		repository.NewTenderRepository(db),
		repository.NewHistoryRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func createRequest(t *testing.T, svc *FinanceService, ctx context.Context, tenderID uuid.UUID, reqType domain.FinancialRequestType) *domain.FinancialRequestDTO {
	t.Helper()
	dto, err := svc.CreateRequest(ctx, &domain.CreateFinancialRequest{
		TenderID: tenderID,
		Type:     reqType,
		Amount:   25000,
	})
	require.NoError(t, err)
	return dto
}

func TestFinanceService_CreateRequest(t *testing.T) {
	svc, db := newFinanceService(t)
	user := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(user)
	tender := testutil.CreateTestTender(t, db, "EMD tender")

	dto := createRequest(t, svc, ctx, tender.ID, domain.FinancialTypeEMD)
	assert.Equal(t, domain.FinancialStatusPendingApproval, dto.Status)
	assert.Equal(t, tender.Title, dto.TenderTitle)
	assert.Equal(t, "INR", dto.Currency)
	assert.Equal(t, user.ID.String(), dto.RequestedByID)

	t.Run("unknown tender", func(t *testing.T) {
		_, err := svc.CreateRequest(ctx, &domain.CreateFinancialRequest{
			TenderID: uuid.New(),
			Type:     domain.FinancialTypeEMD,
			Amount:   1000,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := svc.CreateRequest(ctx, &domain.CreateFinancialRequest{
			TenderID: tender.ID,
			Type:     domain.FinancialRequestType("deposit"),
			Amount:   1000,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestFinanceService_ApprovalLifecycle(t *testing.T) {
	svc, db := newFinanceService(t)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Meera Iyer", domain.RoleAdmin)
	finance := testutil.CreateTestUser(t, db, "Rohan Mehta", domain.RoleFinance)
	tender := testutil.CreateTestTender(t, db, "Lifecycle tender")

	dto := createRequest(t, svc, salesContext(sales), tender.ID, domain.FinancialTypeEMD)

	t.Run("sales cannot approve", func(t *testing.T) {
		_, err := svc.Approve(salesContext(sales), dto.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("finance cannot approve", func(t *testing.T) {
		_, err := svc.Approve(salesContext(finance), dto.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("cannot process before approval", func(t *testing.T) {
		_, err := svc.Process(salesContext(finance), dto.ID, &domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeDemandDraft,
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("admin approves", func(t *testing.T) {
		approved, err := svc.Approve(salesContext(admin), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.FinancialStatusApproved, approved.Status)
		assert.NotNil(t, approved.ApprovedAt)
	})

	t.Run("requester is notified", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&domain.Notification{}).
			Where("user_id = ?", sales.ID).Count(&count).Error)
		assert.GreaterOrEqual(t, count, int64(1))
	})

	t.Run("finance processes with instrument details", func(t *testing.T) {
		expiry := time.Now().UTC().Add(90 * 24 * time.Hour)
		processed, err := svc.Process(salesContext(finance), dto.ID, &domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeDemandDraft,
			BankName:       "State Bank",
			InstrumentRef:  "DD-443210",
			ExpiryDate:     &expiry,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.FinancialStatusProcessed, processed.Status)
		assert.Equal(t, "DD-443210", processed.InstrumentRef)
	})

	t.Run("processing mirrors onto the tender snapshot", func(t *testing.T) {
		var fresh domain.Tender
		require.NoError(t, db.First(&fresh, "id = ?", tender.ID).Error)
		assert.Equal(t, 25000.0, fresh.EMD.Amount)
		assert.Equal(t, "submitted", fresh.EMD.Status)
	})

	t.Run("cannot decline after processing", func(t *testing.T) {
		_, err := svc.Decline(salesContext(admin), dto.ID, &domain.DeclineFinancialRequest{Reason: "too late"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("EMD refund closes the request", func(t *testing.T) {
		refunded, err := svc.Refund(salesContext(finance), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.FinancialStatusRefunded, refunded.Status)
		assert.NotNil(t, refunded.ClosedAt)
	})

	t.Run("terminal state rejects further moves", func(t *testing.T) {
		_, err := svc.Refund(salesContext(finance), dto.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestFinanceService_DeclineAndRelease(t *testing.T) {
	svc, db := newFinanceService(t)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	admin := testutil.CreateTestUser(t, db, "Meera Iyer", domain.RoleAdmin)
	tender := testutil.CreateTestTender(t, db, "Decline tender")

	t.Run("decline requires a reason", func(t *testing.T) {
		dto := createRequest(t, svc, salesContext(sales), tender.ID, domain.FinancialTypeTenderFee)
		_, err := svc.Decline(salesContext(admin), dto.ID, &domain.DeclineFinancialRequest{Reason: "  "})
		assert.ErrorIs(t, err, ErrReasonRequired)

		declined, err := svc.Decline(salesContext(admin), dto.ID, &domain.DeclineFinancialRequest{Reason: "Budget not sanctioned"})
		require.NoError(t, err)
		assert.Equal(t, domain.FinancialStatusDeclined, declined.Status)
		assert.Equal(t, "Budget not sanctioned", declined.DeclineReason)
	})

	t.Run("release only applies to PBG", func(t *testing.T) {
		dto := createRequest(t, svc, salesContext(sales), tender.ID, domain.FinancialTypeEMD)
		_, err := svc.Approve(salesContext(admin), dto.ID)
		require.NoError(t, err)
		_, err = svc.Process(salesContext(admin), dto.ID, &domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeOnlineTransfer,
		})
		require.NoError(t, err)

		_, err = svc.Release(salesContext(admin), dto.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("refund only applies to EMD", func(t *testing.T) {
		dto := createRequest(t, svc, salesContext(sales), tender.ID, domain.FinancialTypePBG)
		_, err := svc.Approve(salesContext(admin), dto.ID)
		require.NoError(t, err)
		_, err = svc.Process(salesContext(admin), dto.ID, &domain.ProcessFinancialRequest{
			InstrumentMode: domain.InstrumentModeBankGuarantee,
		})
		require.NoError(t, err)

		_, err = svc.Refund(salesContext(admin), dto.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		released, err := svc.Release(salesContext(admin), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.FinancialStatusReleased, released.Status)
	})

	t.Run("unauthenticated context", func(t *testing.T) {
		dto := createRequest(t, svc, salesContext(sales), tender.ID, domain.FinancialTypeOther)
		_, err := svc.Approve(context.Background(), dto.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestFinanceService_Filters(t *testing.T) {
	svc, db := newFinanceService(t)
	sales := testutil.CreateTestUser(t, db, "Asha Rao", domain.RoleSales)
	ctx := salesContext(sales)
	tenderA := testutil.CreateTestTender(t, db, "Filter tender A")
	tenderB := testutil.CreateTestTender(t, db, "Filter tender B")

	createRequest(t, svc, ctx, tenderA.ID, domain.FinancialTypeEMD)
	createRequest(t, svc, ctx, tenderA.ID, domain.FinancialTypePBG)
	createRequest(t, svc, ctx, tenderB.ID, domain.FinancialTypeEMD)

	t.Run("by tender", func(t *testing.T) {
		page, err := svc.List(ctx, 1, 20, &repository.FinancialFilters{TenderID: &tenderA.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("by type", func(t *testing.T) {
		emd := domain.FinancialTypeEMD
		page, err := svc.List(ctx, 1, 20, &repository.FinancialFilters{Type: &emd})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("by tender endpoint returns all", func(t *testing.T) {
		dtos, err := svc.GetByTender(ctx, tenderA.ID)
		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})
}
