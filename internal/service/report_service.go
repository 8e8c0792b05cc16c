package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tendersuite/tender-api/internal/ai"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
)

type ReportService struct {
	tenderRepo     *repository.TenderRepository
	assignmentRepo *repository.AssignmentRepository
	userRepo       *repository.UserRepository
	assistant      *ai.Assistant
	logger         *zap.Logger
}

func NewReportService(
	tenderRepo *repository.TenderRepository,
	assignmentRepo *repository.AssignmentRepository,
	userRepo *repository.UserRepository,
	assistant *ai.Assistant,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		tenderRepo:     tenderRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		assistant:      assistant,
		logger:         logger,
	}
}

// GetFunnel returns, per workflow stage, how many tenders sit at or past
// that stage. Counting cumulatively guarantees the series never
// increases with stage index.
func (s *ReportService) GetFunnel(ctx context.Context) ([]domain.FunnelStageDTO, error) {
	stageCounts, err := s.tenderRepo.CountByStage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by stage: %w", err)
	}

	countAt := make([]int, len(domain.WorkflowStages))
	for _, row := range stageCounts {
		if i := row.Stage.Index(); i >= 0 {
			countAt[i] = row.Count
		}
	}

	funnel := make([]domain.FunnelStageDTO, len(domain.WorkflowStages))
	cumulative := 0
	for i := len(domain.WorkflowStages) - 1; i >= 0; i-- {
		cumulative += countAt[i]
		funnel[i] = domain.FunnelStageDTO{
			Stage:     domain.WorkflowStages[i],
			StageName: domain.WorkflowStages[i].Label(),
			Count:     cumulative,
		}
	}
	return funnel, nil
}

// GetWinLossTrend returns monthly won/lost counts over the trailing
// window. Months without outcomes are filled with zeros.
func (s *ReportService) GetWinLossTrend(ctx context.Context, months int) ([]domain.WinLossPointDTO, error) {
	if months < 1 {
		months = 6
	}
	if months > 36 {
		months = 36
	}

	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	outcomes, err := s.tenderRepo.GetMonthlyOutcomes(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly outcomes: %w", err)
	}

	byPeriod := make(map[string]repository.MonthlyOutcome, len(outcomes))
	for _, o := range outcomes {
		byPeriod[o.Period] = o
	}

	trend := make([]domain.WinLossPointDTO, 0, months)
	for i := 0; i < months; i++ {
		period := since.AddDate(0, i, 0).Format("2006-01")
		point := domain.WinLossPointDTO{Period: period}
		if o, ok := byPeriod[period]; ok {
			point.Won = o.Won
			point.Lost = o.Lost
		}
		trend = append(trend, point)
	}
	return trend, nil
}

// GetCategoryWinRates returns win rate per item category
func (s *ReportService) GetCategoryWinRates(ctx context.Context) ([]domain.CategoryWinRateDTO, error) {
	outcomes, err := s.tenderRepo.GetCategoryOutcomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category outcomes: %w", err)
	}

	dtos := make([]domain.CategoryWinRateDTO, len(outcomes))
	for i, o := range outcomes {
		dto := domain.CategoryWinRateDTO{
			Category: o.Category,
			Total:    o.Total,
			Won:      o.Won,
		}
		if o.Total > 0 {
			dto.WinRate = float64(o.Won) / float64(o.Total) * 100
		}
		dtos[i] = dto
	}
	return dtos, nil
}

// GetLeaderboard ranks users by won assigned tenders
func (s *ReportService) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntryDTO, error) {
	rows, err := s.assignmentRepo.GetLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID.String()] = u.Name
	}

	entries := make([]domain.LeaderboardEntryDTO, len(rows))
	for i, row := range rows {
		entries[i] = domain.LeaderboardEntryDTO{
			UserID:   row.UserID,
			UserName: names[row.UserID.String()],
			Assigned: row.Assigned,
			Won:      row.Won,
			WonValue: row.WonValue,
		}
	}
	return entries, nil
}

var exportHeader = []string{
	"Reference", "Title", "Authority", "Category", "Status", "Stage",
	"Value", "Cost", "Profit", "Deadline", "Created",
}

// exportRows renders one row per tender. Profit is realized only on won
// tenders; everything else exports zero.
func (s *ReportService) exportRows(ctx context.Context) ([][]string, error) {
	tenders, err := s.tenderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenders: %w", err)
	}

	rows := make([][]string, 0, len(tenders)+1)
	rows = append(rows, exportHeader)
	for _, t := range tenders {
		profit := 0.0
		if t.Status == domain.TenderStatusWon {
			profit = t.Value - t.Cost
		}
		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.UTC().Format("2006-01-02")
		}
		rows = append(rows, []string{
			t.ReferenceNumber,
			t.Title,
			t.Authority,
			t.ItemCategory,
			string(t.Status),
			t.WorkflowStage.Label(),
			strconv.FormatFloat(t.Value, 'f', 2, 64),
			strconv.FormatFloat(t.Cost, 'f', 2, 64),
			strconv.FormatFloat(profit, 'f', 2, 64),
			deadline,
			t.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	return rows, nil
}

// ExportCSV renders the tender register as CSV
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.exportRows(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the tender register as an Excel workbook
func (s *ReportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.exportRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Tenders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateNarrative produces an AI-written pipeline review from current
// aggregate figures
func (s *ReportService) GenerateNarrative(ctx context.Context) (*domain.NarrativeReportDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}

	statusCounts, err := s.tenderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}
	pipeline, err := s.tenderRepo.GetTotalPipelineValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pipeline value: %w", err)
	}

	summary := fmt.Sprintf("Open pipeline value: %.2f\n", pipeline)
	for _, row := range statusCounts {
		summary += fmt.Sprintf("%s: %d tenders (value %.2f)\n", row.Status, row.Count, row.Value)
	}

	categories, err := s.GetCategoryWinRates(ctx)
	if err == nil {
		for _, c := range categories {
			summary += fmt.Sprintf("Category %s: %d total, %d won (%.1f%%)\n", c.Category, c.Total, c.Won, c.WinRate)
		}
	}

	narrative, err := s.assistant.GenerateNarrative(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to generate narrative: %w", err)
	}

	return &domain.NarrativeReportDTO{
		Narrative:   narrative,
		GeneratedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}
