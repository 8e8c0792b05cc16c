package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

// LookupRepository manages the small admin-maintained lookup tables
// (departments, designations, document templates).
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var items []domain.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *LookupRepository) CreateDepartment(ctx context.Context, dept *domain.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *LookupRepository) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Department{}, "id = ?", id).Error
}

func (r *LookupRepository) ListDesignations(ctx context.Context) ([]domain.Designation, error) {
	var items []domain.Designation
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *LookupRepository) CreateDesignation(ctx context.Context, desig *domain.Designation) error {
	return r.db.WithContext(ctx).Create(desig).Error
}

func (r *LookupRepository) DeleteDesignation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Designation{}, "id = ?", id).Error
}

func (r *LookupRepository) ListTemplates(ctx context.Context) ([]domain.DocumentTemplate, error) {
	var items []domain.DocumentTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *LookupRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.DocumentTemplate, error) {
	var tmpl domain.DocumentTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tmpl).Error
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *LookupRepository) CreateTemplate(ctx context.Context, tmpl *domain.DocumentTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *LookupRepository) UpdateTemplate(ctx context.Context, tmpl *domain.DocumentTemplate) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *LookupRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.DocumentTemplate{}, "id = ?", id).Error
}
