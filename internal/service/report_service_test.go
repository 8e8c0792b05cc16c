package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/testutil"
)

func newReportService(t *testing.T) (*ReportService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewReportService(
		repository.NewTenderRepository(db),
		repository.NewAssignmentRepository(db),
		repository.NewUserRepository(db),
		nil,
		zap.NewNop(),
	)
	return svc, db
}

func tenderAtStage(t *testing.T, db *gorm.DB, stage domain.WorkflowStage) *domain.Tender {
	t.Helper()
	tender := testutil.CreateTestTender(t, db, "Report tender "+string(stage))
	require.NoError(t, db.Model(tender).Update("workflow_stage", stage).Error)
	return tender
}

func TestReportService_Funnel(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	tenderAtStage(t, db, domain.StageTenderIdentification)
	tenderAtStage(t, db, domain.StageTenderIdentification)
	tenderAtStage(t, db, domain.StageBidSubmission)
	tenderAtStage(t, db, domain.StageTenderCompletion)

	funnel, err := svc.GetFunnel(ctx)
	require.NoError(t, err)
	require.Len(t, funnel, len(domain.WorkflowStages))

	t.Run("counts are cumulative at-or-past", func(t *testing.T) {
		assert.Equal(t, 4, funnel[0].Count)
		assert.Equal(t, 2, funnel[domain.StageBidSubmission.Index()].Count)
		assert.Equal(t, 1, funnel[len(funnel)-1].Count)
	})

	t.Run("series never increases with stage", func(t *testing.T) {
		for i := 1; i < len(funnel); i++ {
			assert.LessOrEqual(t, funnel[i].Count, funnel[i-1].Count)
		}
	})
}

func TestReportService_CategoryWinRates(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	a := testutil.CreateTestTender(t, db, "Won CCTV")
	require.NoError(t, db.Model(a).Updates(map[string]interface{}{"status": domain.TenderStatusWon, "item_category": "surveillance"}).Error)
	b := testutil.CreateTestTender(t, db, "Lost CCTV")
	require.NoError(t, db.Model(b).Updates(map[string]interface{}{"status": domain.TenderStatusLost, "item_category": "surveillance"}).Error)

	rates, err := svc.GetCategoryWinRates(ctx)
	require.NoError(t, err)

	var surveillance *domain.CategoryWinRateDTO
	for i := range rates {
		if rates[i].Category == "surveillance" {
			surveillance = &rates[i]
		}
	}
	require.NotNil(t, surveillance)
	assert.Equal(t, 2, surveillance.Total)
	assert.Equal(t, 1, surveillance.Won)
	assert.InDelta(t, 50.0, surveillance.WinRate, 0.01)
}

func TestReportService_WinLossTrend(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	closeMonth := monthStart.AddDate(0, -2, 0)

	pointFor := func(trend []domain.WinLossPointDTO, period string) *domain.WinLossPointDTO {
		for i := range trend {
			if trend[i].Period == period {
				return &trend[i]
			}
		}
		return nil
	}

	won := testutil.CreateTestTender(t, db, "Metro fiber rollout")
	require.NoError(t, db.Model(won).Update("status", domain.TenderStatusWon).Error)
	require.NoError(t, db.Create(&domain.HistoryEntry{
		TargetType: domain.HistoryTargetTender,
		TargetID:   won.ID,
		Action:     domain.HistoryActionStatusChanged,
		Details:    "Status changed from active to won",
		OccurredAt: closeMonth,
	}).Error)

	trend, err := svc.GetWinLossTrend(ctx, 6)
	require.NoError(t, err)
	require.Len(t, trend, 6)

	t.Run("win buckets in its close month", func(t *testing.T) {
		point := pointFor(trend, closeMonth.Format("2006-01"))
		require.NotNil(t, point)
		assert.Equal(t, 1, point.Won)
	})

	t.Run("later edit keeps the close month", func(t *testing.T) {
		require.NoError(t, db.Model(won).Update("notes", "handover call booked").Error)

		trend, err := svc.GetWinLossTrend(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, 1, pointFor(trend, closeMonth.Format("2006-01")).Won)
		assert.Equal(t, 0, pointFor(trend, monthStart.Format("2006-01")).Won)
	})

	t.Run("deadline fallback without a status event", func(t *testing.T) {
		lost := testutil.CreateTestTender(t, db, "Airport CCTV refresh")
		deadline := monthStart.AddDate(0, -1, 0)
		require.NoError(t, db.Model(lost).Updates(map[string]interface{}{
			"status":   domain.TenderStatusLost,
			"deadline": deadline,
		}).Error)

		trend, err := svc.GetWinLossTrend(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, 1, pointFor(trend, deadline.Format("2006-01")).Lost)
	})

	t.Run("window clamps", func(t *testing.T) {
		trend, err := svc.GetWinLossTrend(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, trend, 6)

		trend, err = svc.GetWinLossTrend(context.Background(), 100)
		require.NoError(t, err)
		assert.Len(t, trend, 36)
	})
}

func TestReportService_Export(t *testing.T) {
	svc, db := newReportService(t)
	ctx := context.Background()

	won := testutil.CreateTestTender(t, db, "Won export tender")
	require.NoError(t, db.Model(won).Updates(map[string]interface{}{
		"status": domain.TenderStatusWon,
		"value":  100000.0,
		"cost":   60000.0,
	}).Error)
	open := testutil.CreateTestTender(t, db, "Open export tender")
	require.NoError(t, db.Model(open).Updates(map[string]interface{}{
		"value": 50000.0,
		"cost":  30000.0,
	}).Error)

	t.Run("csv includes profit only for won tenders", func(t *testing.T) {
		data, err := svc.ExportCSV(ctx)
		require.NoError(t, err)

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, exportHeader, rows[0])

		byTitle := map[string][]string{}
		for _, row := range rows[1:] {
			byTitle[row[1]] = row
		}
		assert.Equal(t, "40000.00", byTitle["Won export tender"][8])
		assert.Equal(t, "0.00", byTitle["Open export tender"][8])
	})

	t.Run("xlsx round-trips the same rows", func(t *testing.T) {
		data, err := svc.ExportXLSX(ctx)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Tenders")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Reference", rows[0][0])
	})
}

func TestReportService_NarrativeWithoutAssistant(t *testing.T) {
	svc, _ := newReportService(t)
	_, err := svc.GenerateNarrative(context.Background())
	assert.ErrorIs(t, err, ErrAIDisabled)
}
