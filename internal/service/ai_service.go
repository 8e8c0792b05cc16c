package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tendersuite/tender-api/internal/ai"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// companyProfile is the static capability statement the eligibility
// checker evaluates criteria against.
const companyProfile = `System integrator, 12 years in business.
Annual turnover: INR 45 crore (3-year average).
Certifications: ISO 9001:2015, ISO 27001:2013.
Registrations: GST, MSME (medium), GeM seller.
Experience: networking, CCTV/surveillance, data center fit-outs,
audio-visual systems, IT hardware supply for state and central
government departments. Largest single order executed: INR 9 crore.
In-house teams: installation, commissioning, 3-year O&M support.`

type AIService struct {
	assistant   *ai.Assistant
	tenderRepo  *repository.TenderRepository
	historyRepo *repository.HistoryRepository
	logger      *zap.Logger
}

func NewAIService(
	assistant *ai.Assistant,
	tenderRepo *repository.TenderRepository,
	historyRepo *repository.HistoryRepository,
	logger *zap.Logger,
) *AIService {
	return &AIService{
		assistant:   assistant,
		tenderRepo:  tenderRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Enabled reports whether AI endpoints are available
func (s *AIService) Enabled() bool {
	return s.assistant != nil
}

// Analyze produces a summary, risks and a bid recommendation for a tender
func (s *AIService) Analyze(ctx context.Context, req *domain.AnalyzeTenderRequest) (*domain.TenderAnalysisDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}

	tender, err := s.tenderRepo.GetByID(ctx, req.TenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	analysis, err := s.assistant.Analyze(ctx, tenderAIContext(tender), req.Context)
	if err != nil {
		return nil, err
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tender.ID, "AI analysis generated", "", actorID, actorName)

	return analysis, nil
}

// CheckEligibility evaluates tender criteria against the company profile
func (s *AIService) CheckEligibility(ctx context.Context, req *domain.EligibilityCheckRequest) (*domain.EligibilityResultDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}

	tender, err := s.tenderRepo.GetByID(ctx, req.TenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	return s.assistant.CheckEligibility(ctx, tenderAIContext(tender), req.Criteria, companyProfile)
}

// Extract converts free tender-document text into structured fields.
// Dates come back DD-MM-YYYY and are converted to ISO here.
func (s *AIService) Extract(ctx context.Context, req *domain.ExtractTenderRequest) (*domain.ExtractedTenderDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}

	extracted, err := s.assistant.ExtractTender(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	extracted.Deadline = normalizeExtractedDate(extracted.Deadline)
	extracted.OpeningDate = normalizeExtractedDate(extracted.OpeningDate)
	return extracted, nil
}

// normalizeExtractedDate converts DD-MM-YYYY to YYYY-MM-DD, passing
// through anything it cannot parse.
func normalizeExtractedDate(value string) string {
	if value == "" {
		return ""
	}
	if t, err := time.Parse("02-01-2006", value); err == nil {
		return t.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return value
	}
	return value
}
