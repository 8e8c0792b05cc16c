package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type PostAwardRepository struct {
	db *gorm.DB
}

func NewPostAwardRepository(db *gorm.DB) *PostAwardRepository {
	return &PostAwardRepository{db: db}
}

// GetByTender returns all post-award stage rows for a tender
func (r *PostAwardRepository) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.PostAwardProgress, error) {
	var progress []domain.PostAwardProgress
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Find(&progress).Error
	return progress, err
}

// GetByTenderAndStage returns a single stage row
func (r *PostAwardRepository) GetByTenderAndStage(ctx context.Context, tenderID uuid.UUID, stage domain.PostAwardStage) (*domain.PostAwardProgress, error) {
	var progress domain.PostAwardProgress
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND stage = ?", tenderID, stage).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// InitializeForTender seeds the full stage set for a freshly won tender.
// Idempotent: existing rows are left untouched.
func (r *PostAwardRepository) InitializeForTender(ctx context.Context, tenderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.PostAwardProgress{}).
			Where("tender_id = ?", tenderID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		rows := make([]domain.PostAwardProgress, 0, len(domain.PostAwardStages))
		for _, stage := range domain.PostAwardStages {
			rows = append(rows, domain.PostAwardProgress{
				TenderID: tenderID,
				Stage:    stage,
				Status:   domain.PostAwardStatusPending,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *PostAwardRepository) Update(ctx context.Context, progress *domain.PostAwardProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *PostAwardRepository) DeleteByTenderID(ctx context.Context, tenderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Delete(&domain.PostAwardProgress{}).Error
}
