package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientFilters contains filter options for listing clients
type ClientFilters struct {
	Status      *domain.ClientStatus
	Industry    *string
	Category    *string
	City        *string
	SearchQuery *string
}

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int, filters *ClientFilters) ([]domain.Client, int64, error) {
	var clients []domain.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Client{}).Preload("Contacts")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&clients).Error

	return clients, total, err
}

func (r *ClientRepository) applyFilters(query *gorm.DB, filters *ClientFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.Industry != nil {
		query = query.Where("industry = ?", *filters.Industry)
	}

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	if filters.City != nil {
		query = query.Where("city = ?", *filters.City)
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(gstin) LIKE ?", searchPattern, searchPattern)
	}

	return query
}
