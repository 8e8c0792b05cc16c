package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FinanceService struct {
	financialRepo    *repository.FinancialRequestRepository
	tenderRepo       *repository.TenderRepository
	historyRepo      *repository.HistoryRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewFinanceService(
	financialRepo *repository.FinancialRequestRepository,
	tenderRepo *repository.TenderRepository,
	historyRepo *repository.HistoryRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		financialRepo:    financialRepo,
		tenderRepo:       tenderRepo,
		historyRepo:      historyRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// CreateRequest opens a financial request in pending_approval
func (s *FinanceService) CreateRequest(ctx context.Context, req *domain.CreateFinancialRequest) (*domain.FinancialRequestDTO, error) {
	if !req.Type.IsValid() {
		return nil, ErrInvalidInput
	}

	tender, err := s.tenderRepo.GetByID(ctx, req.TenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = tender.Currency
	}

	actorID, actorName := actorFromContext(ctx)
	request := &domain.FinancialRequest{
		TenderID:        tender.ID,
		TenderTitle:     tender.Title,
		Type:            req.Type,
		Amount:          req.Amount,
		Currency:        currency,
		Status:          domain.FinancialStatusPendingApproval,
		RequestedByID:   actorID,
		RequestedByName: actorName,
		Notes:           req.Notes,
	}

	if err := s.financialRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create financial request: %w", err)
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetFinancialRequest, request.ID, "Request created",
		fmt.Sprintf("%s request for %s %.2f on tender '%s'", strings.ToUpper(string(req.Type)), currency, req.Amount, tender.Title),
		actorID, actorName)

	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

func (s *FinanceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRequestDTO, error) {
	request, err := s.financialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financial request: %w", err)
	}
	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

func (s *FinanceService) List(ctx context.Context, page, pageSize int, filters *repository.FinancialFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	requests, total, err := s.financialRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial requests: %w", err)
	}

	dtos := make([]domain.FinancialRequestDTO, len(requests))
	for i := range requests {
		dtos[i] = mapper.ToFinancialRequestDTO(&requests[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByTender returns all financial requests attached to a tender
func (s *FinanceService) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.FinancialRequestDTO, error) {
	requests, err := s.financialRepo.GetByTender(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial requests: %w", err)
	}
	dtos := make([]domain.FinancialRequestDTO, len(requests))
	for i := range requests {
		dtos[i] = mapper.ToFinancialRequestDTO(&requests[i])
	}
	return dtos, nil
}

// Approve moves pending_approval to approved. Admin only.
func (s *FinanceService) Approve(ctx context.Context, id uuid.UUID) (*domain.FinancialRequestDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanApprove() {
		return nil, ErrForbidden
	}

	request, err := s.transition(ctx, id, domain.FinancialStatusApproved, func(r *domain.FinancialRequest) {
		now := time.Now().UTC()
		r.ApprovedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetFinancialRequest, id, "Request approved", "",
		userCtx.UserID.String(), userCtx.DisplayName)
	s.notifyRequester(ctx, request, "Financial Request Approved",
		fmt.Sprintf("Your %s request for %s %.2f was approved", request.Type, request.Currency, request.Amount))

	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

// Decline terminates a request before processing. A reason is mandatory.
// Admin only.
func (s *FinanceService) Decline(ctx context.Context, id uuid.UUID, req *domain.DeclineFinancialRequest) (*domain.FinancialRequestDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanApprove() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	request, err := s.transition(ctx, id, domain.FinancialStatusDeclined, func(r *domain.FinancialRequest) {
		now := time.Now().UTC()
		r.DeclineReason = req.Reason
		r.ClosedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetFinancialRequest, id, "Request declined", req.Reason,
		userCtx.UserID.String(), userCtx.DisplayName)
	s.notifyRequester(ctx, request, "Financial Request Declined",
		fmt.Sprintf("Your %s request was declined: %s", request.Type, req.Reason))

	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

// Process records instrument details and moves approved to processed.
// Finance only.
func (s *FinanceService) Process(ctx context.Context, id uuid.UUID, req *domain.ProcessFinancialRequest) (*domain.FinancialRequestDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanProcessFunds() {
		return nil, ErrForbidden
	}

	request, err := s.transition(ctx, id, domain.FinancialStatusProcessed, func(r *domain.FinancialRequest) {
		now := time.Now().UTC()
		r.InstrumentMode = req.InstrumentMode
		r.BankName = req.BankName
		r.InstrumentRef = req.InstrumentRef
		r.ExpiryDate = req.ExpiryDate
		r.ProcessedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.mirrorOnTender(ctx, request, "submitted")

	s.historyRepo.Record(ctx, domain.HistoryTargetFinancialRequest, id, "Request processed",
		fmt.Sprintf("Instrument %s via %s", request.InstrumentRef, request.InstrumentMode),
		userCtx.UserID.String(), userCtx.DisplayName)
	s.notifyRequester(ctx, request, "Financial Request Processed",
		fmt.Sprintf("Your %s request for %s %.2f has been processed", request.Type, request.Currency, request.Amount))

	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

// Refund closes a processed EMD request. Finance only.
func (s *FinanceService) Refund(ctx context.Context, id uuid.UUID) (*domain.FinancialRequestDTO, error) {
	return s.closeProcessed(ctx, id, domain.FinancialStatusRefunded, domain.FinancialTypeEMD, "Request refunded")
}

// Release closes a processed PBG request. Finance only.
func (s *FinanceService) Release(ctx context.Context, id uuid.UUID) (*domain.FinancialRequestDTO, error) {
	return s.closeProcessed(ctx, id, domain.FinancialStatusReleased, domain.FinancialTypePBG, "Request released")
}

func (s *FinanceService) closeProcessed(ctx context.Context, id uuid.UUID, target domain.FinancialStatus, requiredType domain.FinancialRequestType, action string) (*domain.FinancialRequestDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.CanProcessFunds() {
		return nil, ErrForbidden
	}

	current, err := s.financialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financial request: %w", err)
	}
	if current.Type != requiredType {
		return nil, ErrInvalidTransition
	}

	request, err := s.transition(ctx, id, target, func(r *domain.FinancialRequest) {
		now := time.Now().UTC()
		r.ClosedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.mirrorOnTender(ctx, request, string(target))

	s.historyRepo.Record(ctx, domain.HistoryTargetFinancialRequest, id, action, "",
		userCtx.UserID.String(), userCtx.DisplayName)

	dto := mapper.ToFinancialRequestDTO(request)
	return &dto, nil
}

func (s *FinanceService) transition(ctx context.Context, id uuid.UUID, target domain.FinancialStatus, apply func(*domain.FinancialRequest)) (*domain.FinancialRequest, error) {
	request, err := s.financialRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financial request: %w", err)
	}

	if !request.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	request.Status = target
	apply(request)

	if err := s.financialRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update financial request: %w", err)
	}
	return request, nil
}

// mirrorOnTender reflects instrument state onto the tender's embedded
// financial snapshot so list views stay single-fetch.
func (s *FinanceService) mirrorOnTender(ctx context.Context, request *domain.FinancialRequest, status string) {
	tender, err := s.tenderRepo.GetByID(ctx, request.TenderID)
	if err != nil {
		s.logger.Warn("failed to load tender for financial mirror", zap.Error(err))
		return
	}

	var detail *domain.FinancialDetail
	switch request.Type {
	case domain.FinancialTypeEMD:
		detail = &tender.EMD
	case domain.FinancialTypePBG:
		detail = &tender.PBG
	case domain.FinancialTypeTenderFee:
		detail = &tender.TenderFee
	default:
		return
	}

	detail.Amount = request.Amount
	detail.Mode = request.InstrumentMode
	detail.Status = status
	if request.ProcessedAt != nil {
		submitted := request.ProcessedAt.Truncate(24 * time.Hour)
		detail.SubmittedDate = &submitted
	}
	detail.ExpiryDate = request.ExpiryDate

	if err := s.tenderRepo.UpdateVersioned(ctx, tender, tender.Version); err != nil {
		s.logger.Warn("failed to mirror financial state on tender", zap.Error(err))
	}
}

func (s *FinanceService) notifyRequester(ctx context.Context, request *domain.FinancialRequest, title, message string) {
	if s.notificationRepo == nil || request.RequestedByID == "" {
		return
	}
	requesterID, err := uuid.Parse(request.RequestedByID)
	if err != nil {
		return
	}
	notification := &domain.Notification{
		UserID:     requesterID,
		Type:       string(domain.NotificationTypeFinanceAction),
		Title:      title,
		Message:    message,
		EntityID:   &request.ID,
		EntityType: "financial_request",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create finance notification", zap.Error(err))
	}
}
