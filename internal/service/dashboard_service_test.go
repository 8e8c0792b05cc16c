package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newDashboardService(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewDashboardService(
		repository.NewTenderRepository(db),
		repository.NewFinancialRequestRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func tenderDueIn(t *testing.T, db *gorm.DB, title string, in time.Duration) *domain.Tender {
	t.Helper()
	tender := testutil.CreateTestTender(t, db, title)
	deadline := time.Now().UTC().Add(in)
	require.NoError(t, db.Model(tender).Update("deadline", deadline).Error)
	return tender
}

func TestDashboardService_Metrics(t *testing.T) {
	svc, db := newDashboardService(t)
	ctx := context.Background()

	won := testutil.CreateTestTender(t, db, "Won metric tender")
	require.NoError(t, db.Model(won).Updates(map[string]interface{}{
		"status": domain.TenderStatusWon,
		"value":  200000.0,
	}).Error)
	lost := testutil.CreateTestTender(t, db, "Lost metric tender")
	require.NoError(t, db.Model(lost).Update("status", domain.TenderStatusLost).Error)
	testutil.CreateTestTender(t, db, "Active metric tender")
	submitted := testutil.CreateTestTender(t, db, "Submitted metric tender")
	require.NoError(t, db.Model(submitted).Update("workflow_stage", domain.StageNegotiation).Error)

	metrics, err := svc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, metrics.TotalTenders)
	assert.Equal(t, 1, metrics.WonTenders)
	assert.Equal(t, 1, metrics.LostTenders)
	assert.Equal(t, 2, metrics.ActiveTenders)
	assert.Equal(t, 1, metrics.SubmittedTenders, "only tenders at or past bid submission count as submitted")
	assert.InDelta(t, 50.0, metrics.WinRate, 0.01)
	assert.InDelta(t, 200000.0, metrics.WonValue, 0.01)
}

func TestDashboardService_DeadlineBuckets(t *testing.T) {
	svc, db := newDashboardService(t)
	ctx := context.Background()

	tenderDueIn(t, db, "Due tomorrow", 30*time.Hour)
	tenderDueIn(t, db, "Due in five days", 5*24*time.Hour)
	tenderDueIn(t, db, "Due in two weeks", 14*24*time.Hour)
	tenderDueIn(t, db, "Due in a month", 30*24*time.Hour)
	closed := tenderDueIn(t, db, "Won with deadline", 24*time.Hour)
	require.NoError(t, db.Model(closed).Update("status", domain.TenderStatusWon).Error)

	buckets, err := svc.GetDeadlineBuckets(ctx)
	require.NoError(t, err)

	t.Run("buckets are inclusive and nested", func(t *testing.T) {
		assert.Len(t, buckets.Within15Days, 3)
		assert.Len(t, buckets.Within7Days, 2)
		assert.Len(t, buckets.Within48Hrs, 1)
	})

	t.Run("closed tenders are excluded", func(t *testing.T) {
		for _, dto := range buckets.Within15Days {
			assert.NotEqual(t, "Won with deadline", dto.Title)
		}
	})
}

func TestDashboardService_DeadlinesWithin(t *testing.T) {
	svc, db := newDashboardService(t)
	ctx := context.Background()

	tenderDueIn(t, db, "Due soon", 2*24*time.Hour)
	tenderDueIn(t, db, "Due later", 20*24*time.Hour)

	dtos, err := svc.GetDeadlinesWithin(ctx, 7)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Due soon", dtos[0].Title)

	t.Run("days clamps to a sane window", func(t *testing.T) {
		dtos, err := svc.GetDeadlinesWithin(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, dtos, 1)
	})
}
