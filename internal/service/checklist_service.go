package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/ai"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChecklistService struct {
	checklistRepo *repository.ChecklistRepository
	tenderRepo    *repository.TenderRepository
	historyRepo   *repository.HistoryRepository
	assistant     *ai.Assistant
	logger        *zap.Logger
}

func NewChecklistService(
	checklistRepo *repository.ChecklistRepository,
	tenderRepo *repository.TenderRepository,
	historyRepo *repository.HistoryRepository,
	assistant *ai.Assistant,
	logger *zap.Logger,
) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		tenderRepo:    tenderRepo,
		historyRepo:   historyRepo,
		assistant:     assistant,
		logger:        logger,
	}
}

// GetForTender returns all checklist items for a tender grouped naturally
// by stage through ordering.
func (s *ChecklistService) GetForTender(ctx context.Context, tenderID uuid.UUID) ([]domain.ChecklistItemDTO, error) {
	items, err := s.checklistRepo.GetByTender(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}
	return toChecklistDTOs(items), nil
}

// GetForStage returns the checklist for one workflow stage, seeding the
// standard items on first access.
func (s *ChecklistService) GetForStage(ctx context.Context, tenderID uuid.UUID, stage domain.WorkflowStage) ([]domain.ChecklistItemDTO, error) {
	if !stage.IsValid() {
		return nil, ErrInvalidInput
	}

	items, err := s.checklistRepo.GetByTenderAndStage(ctx, tenderID, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}

	if len(items) == 0 {
		seeded, err := s.seedStandardItems(ctx, tenderID, stage)
		if err != nil {
			s.logger.Warn("failed to seed standard checklist", zap.Error(err))
		} else {
			items = seeded
		}
	}

	return toChecklistDTOs(items), nil
}

func (s *ChecklistService) seedStandardItems(ctx context.Context, tenderID uuid.UUID, stage domain.WorkflowStage) ([]domain.StageChecklistItem, error) {
	standard, err := s.checklistRepo.GetStandardItems(ctx, stage)
	if err != nil || len(standard) == 0 {
		return nil, err
	}

	items := make([]domain.StageChecklistItem, len(standard))
	for i, std := range standard {
		items[i] = domain.StageChecklistItem{
			TenderID:     tenderID,
			Stage:        stage,
			Text:         std.Text,
			DisplayOrder: std.DisplayOrder,
			Source:       domain.ChecklistSourceStandard,
		}
	}
	if err := s.checklistRepo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}
	return s.checklistRepo.GetByTenderAndStage(ctx, tenderID, stage)
}

// AddItem creates a manual checklist item at the end of the stage list
func (s *ChecklistService) AddItem(ctx context.Context, tenderID uuid.UUID, req *domain.CreateChecklistItemRequest) (*domain.ChecklistItemDTO, error) {
	if !req.Stage.IsValid() {
		return nil, ErrInvalidInput
	}
	if _, err := s.tenderRepo.GetByID(ctx, tenderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	maxOrder, err := s.checklistRepo.MaxDisplayOrder(ctx, tenderID, req.Stage)
	if err != nil {
		return nil, fmt.Errorf("failed to determine display order: %w", err)
	}

	item := &domain.StageChecklistItem{
		TenderID:     tenderID,
		Stage:        req.Stage,
		Text:         req.Text,
		DisplayOrder: maxOrder + 1,
		Source:       domain.ChecklistSourceManual,
	}
	if err := s.checklistRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create checklist item: %w", err)
	}

	dto := mapper.ToChecklistItemDTO(item)
	return &dto, nil
}

// ToggleItem flips the completed flag and logs the change. Checklist
// completion never gates stage advancement.
func (s *ChecklistService) ToggleItem(ctx context.Context, tenderID, itemID uuid.UUID, completed bool) (*domain.ChecklistItemDTO, error) {
	item, err := s.checklistRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checklist item: %w", err)
	}
	if item.TenderID != tenderID {
		return nil, ErrNotFound
	}

	item.Completed = completed
	if err := s.checklistRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}

	action := "Checklist item completed"
	if !completed {
		action = "Checklist item reopened"
	}
	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tenderID, action, item.Text, actorID, actorName)

	dto := mapper.ToChecklistItemDTO(item)
	return &dto, nil
}

// DeleteItem removes a checklist item
func (s *ChecklistService) DeleteItem(ctx context.Context, tenderID, itemID uuid.UUID) error {
	item, err := s.checklistRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get checklist item: %w", err)
	}
	if item.TenderID != tenderID {
		return ErrNotFound
	}
	return s.checklistRepo.Delete(ctx, itemID)
}

// Generate asks the AI assistant for stage-specific items and appends
// whatever comes back. A malformed model response yields zero items, not
// an error.
func (s *ChecklistService) Generate(ctx context.Context, tenderID uuid.UUID, req *domain.GenerateChecklistRequest) ([]domain.ChecklistItemDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}
	if !req.Stage.IsValid() {
		return nil, ErrInvalidInput
	}

	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}

	texts, err := s.assistant.GenerateChecklist(ctx, tenderAIContext(tender), req.Stage.Label(), req.Context)
	if err != nil {
		return nil, fmt.Errorf("checklist generation failed: %w", err)
	}
	if len(texts) == 0 {
		return []domain.ChecklistItemDTO{}, nil
	}

	maxOrder, err := s.checklistRepo.MaxDisplayOrder(ctx, tenderID, req.Stage)
	if err != nil {
		return nil, fmt.Errorf("failed to determine display order: %w", err)
	}

	items := make([]domain.StageChecklistItem, len(texts))
	for i, text := range texts {
		items[i] = domain.StageChecklistItem{
			TenderID:     tenderID,
			Stage:        req.Stage,
			Text:         text,
			DisplayOrder: maxOrder + 1 + i,
			Source:       domain.ChecklistSourceAI,
		}
	}
	if err := s.checklistRepo.CreateBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to store generated items: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tenderID, "Checklist generated",
		fmt.Sprintf("%d AI-generated items added for %s", len(items), req.Stage.Label()), actorID, actorName)

	return toChecklistDTOs(items), nil
}

func toChecklistDTOs(items []domain.StageChecklistItem) []domain.ChecklistItemDTO {
	dtos := make([]domain.ChecklistItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToChecklistItemDTO(&items[i])
	}
	return dtos
}

func tenderAIContext(tender *domain.Tender) ai.TenderContext {
	deadline := ""
	if tender.Deadline != nil {
		deadline = tender.Deadline.Format("2006-01-02")
	}
	return ai.TenderContext{
		Title:        tender.Title,
		Authority:    tender.Authority,
		ItemCategory: tender.ItemCategory,
		Value:        tender.Value,
		Currency:     tender.Currency,
		Deadline:     deadline,
		Description:  tender.Description,
		Notes:        tender.Notes,
	}
}
