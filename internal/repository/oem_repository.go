package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type OEMRepository struct {
	db *gorm.DB
}

func NewOEMRepository(db *gorm.DB) *OEMRepository {
	return &OEMRepository{db: db}
}

func (r *OEMRepository) Create(ctx context.Context, oem *domain.OEM) error {
	return r.db.WithContext(ctx).Create(oem).Error
}

func (r *OEMRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.OEM, error) {
	var oem domain.OEM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&oem).Error
	if err != nil {
		return nil, err
	}
	return &oem, nil
}

func (r *OEMRepository) Update(ctx context.Context, oem *domain.OEM) error {
	return r.db.WithContext(ctx).Save(oem).Error
}

func (r *OEMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.OEM{}, "id = ?", id).Error
}

func (r *OEMRepository) List(ctx context.Context, search string) ([]domain.OEM, error) {
	var oems []domain.OEM
	query := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	err := query.Find(&oems).Error
	return oems, err
}
