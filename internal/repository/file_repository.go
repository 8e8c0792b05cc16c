package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByTender returns all documents attached to a tender
func (r *FileRepository) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// GetByTenderAndStage returns documents attached to one post-award stage
func (r *FileRepository) GetByTenderAndStage(ctx context.Context, tenderID uuid.UUID, stage domain.PostAwardStage) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND post_award_stage = ?", tenderID, stage).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", id).Error
}
