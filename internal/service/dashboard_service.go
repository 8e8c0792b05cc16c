package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
)

type DashboardService struct {
	tenderRepo    *repository.TenderRepository
	financialRepo *repository.FinancialRequestRepository
	logger        *zap.Logger
}

func NewDashboardService(
	tenderRepo *repository.TenderRepository,
	financialRepo *repository.FinancialRequestRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		tenderRepo:    tenderRepo,
		financialRepo: financialRepo,
		logger:        logger,
	}
}

// GetMetrics aggregates the landing-page numbers in one call
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetricsDTO, error) {
	statusCounts, err := s.tenderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}

	metrics := &domain.DashboardMetricsDTO{}
	for _, row := range statusCounts {
		metrics.TotalTenders += row.Count
		switch row.Status {
		case domain.TenderStatusWon:
			metrics.WonTenders = row.Count
			metrics.WonValue = row.Value
		case domain.TenderStatusLost:
			metrics.LostTenders = row.Count
		case domain.TenderStatusDrafting, domain.TenderStatusSubmitted, domain.TenderStatusUnderReview:
			metrics.ActiveTenders += row.Count
		}
	}

	closed := metrics.WonTenders + metrics.LostTenders
	if closed > 0 {
		metrics.WinRate = float64(metrics.WonTenders) / float64(closed) * 100
	}

	stageCounts, err := s.tenderRepo.CountByStage(ctx)
	if err != nil {
		s.logger.Warn("failed to count by stage", zap.Error(err))
	}
	for _, row := range stageCounts {
		if row.Stage.IsSubmittedOrLater() {
			metrics.SubmittedTenders += row.Count
		}
	}

	pipeline, err := s.tenderRepo.GetTotalPipelineValue(ctx)
	if err != nil {
		s.logger.Warn("failed to compute pipeline value", zap.Error(err))
	}
	metrics.TotalPipeline = pipeline

	pending, err := s.financialRepo.CountPendingApproval(ctx)
	if err != nil {
		s.logger.Warn("failed to count pending approvals", zap.Error(err))
	}
	metrics.PendingApprovals = int(pending)

	blocked, err := s.financialRepo.GetBlockedFunds(ctx)
	if err != nil {
		s.logger.Warn("failed to compute blocked funds", zap.Error(err))
	}
	metrics.BlockedFunds = blocked

	return metrics, nil
}

// GetDeadlineBuckets groups open tenders by deadline proximity. Buckets
// are inclusive and nested: a tender due in 36 hours shows up in all
// three.
func (s *DashboardService) GetDeadlineBuckets(ctx context.Context) (*domain.DeadlineBucketsDTO, error) {
	now := time.Now().UTC()
	tenders, err := s.tenderRepo.GetOpenWithDeadlineBefore(ctx, now, now.Add(15*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines: %w", err)
	}

	buckets := &domain.DeadlineBucketsDTO{
		Within15Days: []domain.TenderDTO{},
		Within7Days:  []domain.TenderDTO{},
		Within48Hrs:  []domain.TenderDTO{},
	}
	for i := range tenders {
		deadline := tenders[i].Deadline
		if deadline == nil {
			continue
		}
		dto := mapper.ToTenderDTO(&tenders[i])
		remaining := deadline.Sub(now)
		buckets.Within15Days = append(buckets.Within15Days, dto)
		if remaining <= 7*24*time.Hour {
			buckets.Within7Days = append(buckets.Within7Days, dto)
		}
		if remaining <= 48*time.Hour {
			buckets.Within48Hrs = append(buckets.Within48Hrs, dto)
		}
	}
	return buckets, nil
}

// GetDeadlinesWithin lists open tenders due in the next N days
func (s *DashboardService) GetDeadlinesWithin(ctx context.Context, days int) ([]domain.TenderDTO, error) {
	if days < 1 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	now := time.Now().UTC()
	tenders, err := s.tenderRepo.GetOpenWithDeadlineBefore(ctx, now, now.Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming deadlines: %w", err)
	}

	dtos := make([]domain.TenderDTO, len(tenders))
	for i := range tenders {
		dtos[i] = mapper.ToTenderDTO(&tenders[i])
	}
	return dtos, nil
}
