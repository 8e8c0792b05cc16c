package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TenderService struct {
	tenderRepo       *repository.TenderRepository
	stageHistoryRepo *repository.StageHistoryRepository
	assignmentRepo   *repository.AssignmentRepository
	checklistRepo    *repository.ChecklistRepository
	postAwardRepo    *repository.PostAwardRepository
	historyRepo      *repository.HistoryRepository
	notificationRepo *repository.NotificationRepository
	clientRepo       *repository.ClientRepository
	logger           *zap.Logger
}

func NewTenderService(
	tenderRepo *repository.TenderRepository,
	stageHistoryRepo *repository.StageHistoryRepository,
	assignmentRepo *repository.AssignmentRepository,
	checklistRepo *repository.ChecklistRepository,
	postAwardRepo *repository.PostAwardRepository,
	historyRepo *repository.HistoryRepository,
	notificationRepo *repository.NotificationRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *TenderService {
	return &TenderService{
		tenderRepo:       tenderRepo,
		stageHistoryRepo: stageHistoryRepo,
		assignmentRepo:   assignmentRepo,
		checklistRepo:    checklistRepo,
		postAwardRepo:    postAwardRepo,
		historyRepo:      historyRepo,
		notificationRepo: notificationRepo,
		clientRepo:       clientRepo,
		logger:           logger,
	}
}

func (s *TenderService) Create(ctx context.Context, req *domain.CreateTenderRequest) (*domain.TenderDTO, error) {
	// Verify client exists when provided
	if req.ClientID != nil {
		if _, err := s.clientRepo.GetByID(ctx, *req.ClientID); err != nil {
			return nil, fmt.Errorf("client not found: %w", err)
		}
	}

	if existing, err := s.tenderRepo.GetByReference(ctx, req.ReferenceNumber); err == nil && existing != nil {
		return nil, ErrConflict
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	actorID, actorName := actorFromContext(ctx)

	tender := &domain.Tender{
		Title:           req.Title,
		ReferenceNumber: req.ReferenceNumber,
		Authority:       req.Authority,
		Department:      req.Department,
		ItemCategory:    req.ItemCategory,
		Description:     req.Description,
		Value:           req.Value,
		Currency:        currency,
		Status:          domain.TenderStatusDrafting,
		WorkflowStage:   domain.StageTenderIdentification,
		Deadline:        req.Deadline,
		OpeningDate:     req.OpeningDate,
		ClientID:        req.ClientID,
		OEMID:           req.OEMID,
		ProductID:       req.ProductID,
		EMD:             financialDetailFromRequest(req.EMD),
		PBG:             financialDetailFromRequest(req.PBG),
		TenderFee:       financialDetailFromRequest(req.TenderFee),
		Cost:            req.Cost,
		Source:          req.Source,
		Notes:           req.Notes,
		Version:         1,
	}

	if err := s.tenderRepo.Create(ctx, tender); err != nil {
		return nil, fmt.Errorf("failed to create tender: %w", err)
	}

	// Record the initial stage
	if err := s.stageHistoryRepo.RecordTransition(ctx, tender.ID, nil, tender.WorkflowStage, actorID, actorName, "Tender created"); err != nil {
		s.logger.Warn("failed to record initial stage history", zap.Error(err))
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tender.ID, "Tender created",
		fmt.Sprintf("Tender '%s' created with value %s %.2f", tender.Title, tender.Currency, tender.Value),
		actorID, actorName)

	if len(req.AssigneeIDs) > 0 {
		if err := s.assignmentRepo.ReplaceForTender(ctx, tender.ID, req.AssigneeIDs, ""); err != nil {
			s.logger.Warn("failed to assign tender", zap.Error(err))
		} else {
			s.notifyAssigned(ctx, tender, req.AssigneeIDs)
		}
	}

	// Reload with relations
	tender, err := s.tenderRepo.GetByID(ctx, tender.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

func (s *TenderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TenderDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

func (s *TenderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTenderRequest) (*domain.TenderDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	tender.Title = req.Title
	tender.ReferenceNumber = req.ReferenceNumber
	tender.Authority = req.Authority
	tender.Department = req.Department
	tender.ItemCategory = req.ItemCategory
	tender.Description = req.Description
	tender.Value = req.Value
	if req.Currency != "" {
		tender.Currency = req.Currency
	}
	tender.Deadline = req.Deadline
	tender.OpeningDate = req.OpeningDate
	tender.ClientID = req.ClientID
	tender.OEMID = req.OEMID
	tender.ProductID = req.ProductID
	if req.EMD != nil {
		tender.EMD = financialDetailFromRequest(req.EMD)
	}
	if req.PBG != nil {
		tender.PBG = financialDetailFromRequest(req.PBG)
	}
	if req.TenderFee != nil {
		tender.TenderFee = financialDetailFromRequest(req.TenderFee)
	}
	tender.Cost = req.Cost
	tender.Source = req.Source
	tender.Notes = req.Notes

	if err := s.tenderRepo.UpdateVersioned(ctx, tender, req.Version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The tender existed a moment ago, so the miss is a stale version
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update tender: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tender.ID, "Tender updated",
		fmt.Sprintf("Tender '%s' was updated", tender.Title), actorID, actorName)

	tender, err = s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

func (s *TenderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tenderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get tender: %w", err)
	}

	if err := s.stageHistoryRepo.DeleteByTenderID(ctx, id); err != nil {
		s.logger.Warn("failed to delete stage history", zap.Error(err))
	}
	if err := s.assignmentRepo.DeleteByTenderID(ctx, id); err != nil {
		s.logger.Warn("failed to delete assignments", zap.Error(err))
	}
	if err := s.postAwardRepo.DeleteByTenderID(ctx, id); err != nil {
		s.logger.Warn("failed to delete post-award progress", zap.Error(err))
	}
	if err := s.historyRepo.DeleteByTarget(ctx, domain.HistoryTargetTender, id); err != nil {
		s.logger.Warn("failed to delete history entries", zap.Error(err))
	}

	if err := s.tenderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tender: %w", err)
	}
	return nil
}

func (s *TenderService) List(ctx context.Context, page, pageSize int, filters *repository.TenderFilters, sortBy repository.TenderSortOption) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	tenders, total, err := s.tenderRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}

	dtos := make([]domain.TenderDTO, len(tenders))
	for i := range tenders {
		dtos[i] = mapper.ToTenderDTO(&tenders[i])
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

// AdvanceStage moves the tender one workflow stage forward. The pipeline
// is clamped: advancing at the last stage is a no-op, not an error.
func (s *TenderService) AdvanceStage(ctx context.Context, id uuid.UUID, req *domain.StageTransitionRequest) (*domain.TenderDTO, error) {
	return s.transitionStage(ctx, id, req, true)
}

// RevertStage moves the tender one workflow stage back, clamped at the start.
func (s *TenderService) RevertStage(ctx context.Context, id uuid.UUID, req *domain.StageTransitionRequest) (*domain.TenderDTO, error) {
	return s.transitionStage(ctx, id, req, false)
}

func (s *TenderService) transitionStage(ctx context.Context, id uuid.UUID, req *domain.StageTransitionRequest, forward bool) (*domain.TenderDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	oldStage := tender.WorkflowStage
	var newStage domain.WorkflowStage
	if forward {
		newStage = oldStage.Next()
	} else {
		newStage = oldStage.Prev()
	}
	if newStage == oldStage {
		// Clamped at the boundary: no write, no history, version unchanged.
		// The caller still needs a current version token.
		if req.Version != tender.Version {
			return nil, ErrVersionConflict
		}
		dto := mapper.ToTenderDTO(tender)
		return &dto, nil
	}

	tender.WorkflowStage = newStage
	if err := s.tenderRepo.UpdateVersioned(ctx, tender, req.Version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update workflow stage: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	if err := s.stageHistoryRepo.RecordTransition(ctx, tender.ID, &oldStage, newStage, actorID, actorName, req.Notes); err != nil {
		s.logger.Warn("failed to record stage transition", zap.Error(err))
	}

	direction := "advanced"
	if !forward {
		direction = "reverted"
	}
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tender.ID, "Workflow stage changed",
		fmt.Sprintf("Tender '%s' %s from %s to %s", tender.Title, direction, oldStage.Label(), newStage.Label()),
		actorID, actorName)

	tender, err = s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

// UpdateStatus changes the commercial status axis. Marking a tender lost
// or dropped requires a reason; marking it won spins up the post-award
// tracker.
func (s *TenderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateTenderStatusRequest) (*domain.TenderDTO, error) {
	if !req.Status.IsValid() {
		return nil, ErrInvalidInput
	}

	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	if req.Status == tender.Status {
		dto := mapper.ToTenderDTO(tender)
		return &dto, nil
	}

	if (req.Status == domain.TenderStatusLost || req.Status == domain.TenderStatusDropped) && strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	oldStatus := tender.Status
	tender.Status = req.Status
	switch req.Status {
	case domain.TenderStatusLost, domain.TenderStatusDropped:
		tender.LostReason = req.Reason
	default:
		tender.LostReason = ""
	}

	if err := s.tenderRepo.UpdateVersioned(ctx, tender, req.Version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update tender status: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	details := fmt.Sprintf("Status changed from %s to %s", oldStatus, req.Status)
	if req.Reason != "" {
		details = fmt.Sprintf("%s. Reason: %s", details, req.Reason)
	}
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tender.ID, domain.HistoryActionStatusChanged, details, actorID, actorName)

	if req.Status == domain.TenderStatusWon {
		if err := s.postAwardRepo.InitializeForTender(ctx, tender.ID); err != nil {
			s.logger.Error("failed to initialize post-award tracker", zap.Error(err), zap.String("tender_id", tender.ID.String()))
		}
		s.notifyStatusChange(ctx, tender, "Tender Won!",
			fmt.Sprintf("Tender '%s' has been won with value %s %.2f", tender.Title, tender.Currency, tender.Value))
	}

	tender, err = s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

// SetAssignees replaces the assignee set. Existing assignees keep their
// recorded responses; the diff lands in the history log.
func (s *TenderService) SetAssignees(ctx context.Context, id uuid.UUID, req *domain.SetAssigneesRequest) (*domain.TenderDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	before := make(map[uuid.UUID]bool, len(tender.Assignments))
	for _, a := range tender.Assignments {
		before[a.UserID] = true
	}

	if err := s.assignmentRepo.ReplaceForTender(ctx, id, req.UserIDs, req.Notes); err != nil {
		return nil, fmt.Errorf("failed to set assignees: %w", err)
	}

	var added []uuid.UUID
	after := make(map[uuid.UUID]bool, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		after[userID] = true
		if !before[userID] {
			added = append(added, userID)
		}
	}
	removed := 0
	for userID := range before {
		if !after[userID] {
			removed++
		}
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, id, "Assignees changed",
		fmt.Sprintf("%d assignee(s) added, %d removed", len(added), removed), actorID, actorName)

	if len(added) > 0 {
		s.notifyAssigned(ctx, tender, added)
	}

	tender, err = s.tenderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

// RespondToAssignment records the calling user's accept/decline on their
// own assignment. Responses are write-once.
func (s *TenderService) RespondToAssignment(ctx context.Context, tenderID uuid.UUID, req *domain.AssignmentResponseRequest) (*domain.TenderDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	assignment, err := s.assignmentRepo.GetByTenderAndUser(ctx, tenderID, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.Status != domain.AssignmentStatusPending {
		return nil, ErrAlreadyResponded
	}

	if err := s.assignmentRepo.SetResponse(ctx, assignment.ID, req.Status, req.Notes); err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tenderID, "Assignment response",
		fmt.Sprintf("%s %s the assignment", userCtx.DisplayName, req.Status),
		userCtx.UserID.String(), userCtx.DisplayName)

	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tender: %w", err)
	}

	dto := mapper.ToTenderDTO(tender)
	return &dto, nil
}

// GetStageHistory returns workflow stage transitions, newest first
func (s *TenderService) GetStageHistory(ctx context.Context, tenderID uuid.UUID) ([]domain.StageHistoryDTO, error) {
	history, err := s.stageHistoryRepo.GetByTenderID(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}

	dtos := make([]domain.StageHistoryDTO, len(history))
	for i := range history {
		dtos[i] = mapper.ToStageHistoryDTO(&history[i])
	}
	return dtos, nil
}

// GetHistory returns the general event log for a tender
func (s *TenderService) GetHistory(ctx context.Context, tenderID uuid.UUID, limit int) ([]domain.HistoryEntryDTO, error) {
	entries, err := s.historyRepo.GetByTarget(ctx, domain.HistoryTargetTender, tenderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	dtos := make([]domain.HistoryEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToHistoryEntryDTO(&entries[i])
	}
	return dtos, nil
}

func (s *TenderService) notifyAssigned(ctx context.Context, tender *domain.Tender, userIDs []uuid.UUID) {
	if s.notificationRepo == nil {
		return
	}
	for _, userID := range userIDs {
		notification := &domain.Notification{
			UserID:     userID,
			Type:       string(domain.NotificationTypeAssignment),
			Title:      "Tender Assigned",
			Message:    fmt.Sprintf("You have been assigned to tender '%s'", tender.Title),
			EntityID:   &tender.ID,
			EntityType: "tender",
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create assignment notification", zap.Error(err))
		}
	}
}

func (s *TenderService) notifyStatusChange(ctx context.Context, tender *domain.Tender, title, message string) {
	if s.notificationRepo == nil {
		return
	}
	for _, a := range tender.Assignments {
		notification := &domain.Notification{
			UserID:     a.UserID,
			Type:       string(domain.NotificationTypeStatusChanged),
			Title:      title,
			Message:    message,
			EntityID:   &tender.ID,
			EntityType: "tender",
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create status notification", zap.Error(err))
		}
	}
}

func financialDetailFromRequest(req *domain.FinancialDetailRequest) domain.FinancialDetail {
	if req == nil {
		return domain.FinancialDetail{}
	}
	return domain.FinancialDetail{
		Amount:        req.Amount,
		Mode:          req.Mode,
		SubmittedDate: req.SubmittedDate,
		ExpiryDate:    req.ExpiryDate,
	}
}

func actorFromContext(ctx context.Context) (string, string) {
	if userCtx, ok := auth.FromContext(ctx); ok {
		return userCtx.UserID.String(), userCtx.DisplayName
	}
	return "", ""
}
