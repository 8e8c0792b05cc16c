package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type StageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

// Create records a new stage transition
func (r *StageHistoryRepository) Create(ctx context.Context, history *domain.TenderStageHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// GetByTenderID returns all stage history for a tender, newest first
func (r *StageHistoryRepository) GetByTenderID(ctx context.Context, tenderID uuid.UUID) ([]domain.TenderStageHistory, error) {
	var history []domain.TenderStageHistory
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}

// GetLatestByTenderID returns the most recent stage change for a tender
func (r *StageHistoryRepository) GetLatestByTenderID(ctx context.Context, tenderID uuid.UUID) (*domain.TenderStageHistory, error) {
	var history domain.TenderStageHistory
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("changed_at DESC").
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// RecordTransition is a convenience method to create a stage history record
func (r *StageHistoryRepository) RecordTransition(
	ctx context.Context,
	tenderID uuid.UUID,
	fromStage *domain.WorkflowStage,
	toStage domain.WorkflowStage,
	changedByID string,
	changedByName string,
	notes string,
) error {
	history := &domain.TenderStageHistory{
		TenderID:      tenderID,
		FromStage:     fromStage,
		ToStage:       toStage,
		ChangedByID:   changedByID,
		ChangedByName: changedByName,
		Notes:         notes,
		ChangedAt:     time.Now().UTC(),
	}
	return r.Create(ctx, history)
}

// CountReachedStage returns how many distinct tenders have ever reached
// the given stage. A tender reverted out of a stage still counts.
func (r *StageHistoryRepository) CountReachedStage(ctx context.Context, stage domain.WorkflowStage) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TenderStageHistory{}).
		Where("to_stage = ?", stage).
		Distinct("tender_id").
		Count(&count).Error
	return count, err
}

// DeleteByTenderID removes all history for a tender (used when tender is deleted)
func (r *StageHistoryRepository) DeleteByTenderID(ctx context.Context, tenderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Delete(&domain.TenderStageHistory{}).Error
}
