package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) Create(ctx context.Context, item *domain.StageChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// CreateBatch inserts several items in one statement
func (r *ChecklistRepository) CreateBatch(ctx context.Context, items []domain.StageChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *ChecklistRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StageChecklistItem, error) {
	var item domain.StageChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByTender returns all checklist items for a tender ordered by stage and position
func (r *ChecklistRepository) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.StageChecklistItem, error) {
	var items []domain.StageChecklistItem
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("stage, display_order ASC").
		Find(&items).Error
	return items, err
}

// GetByTenderAndStage returns checklist items for one stage of a tender
func (r *ChecklistRepository) GetByTenderAndStage(ctx context.Context, tenderID uuid.UUID, stage domain.WorkflowStage) ([]domain.StageChecklistItem, error) {
	var items []domain.StageChecklistItem
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND stage = ?", tenderID, stage).
		Order("display_order ASC").
		Find(&items).Error
	return items, err
}

func (r *ChecklistRepository) Update(ctx context.Context, item *domain.StageChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ChecklistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.StageChecklistItem{}, "id = ?", id).Error
}

// MaxDisplayOrder returns the highest display order for a tender stage
func (r *ChecklistRepository) MaxDisplayOrder(ctx context.Context, tenderID uuid.UUID, stage domain.WorkflowStage) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.StageChecklistItem{}).
		Where("tender_id = ? AND stage = ?", tenderID, stage).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

// GetStandardItems returns seeded default checklist items for a stage
func (r *ChecklistRepository) GetStandardItems(ctx context.Context, stage domain.WorkflowStage) ([]domain.StandardChecklistItem, error) {
	var items []domain.StandardChecklistItem
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("display_order ASC").
		Find(&items).Error
	return items, err
}
