package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinancialFilters contains filter options for listing financial requests
type FinancialFilters struct {
	TenderID      *uuid.UUID
	Type          *domain.FinancialRequestType
	Status        *domain.FinancialStatus
	RequestedByID *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

type FinancialRequestRepository struct {
	db *gorm.DB
}

func NewFinancialRequestRepository(db *gorm.DB) *FinancialRequestRepository {
	return &FinancialRequestRepository{db: db}
}

func (r *FinancialRequestRepository) Create(ctx context.Context, request *domain.FinancialRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(request).Error
}

func (r *FinancialRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FinancialRequest, error) {
	var request domain.FinancialRequest
	err := r.db.WithContext(ctx).
		Preload("Tender").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *FinancialRequestRepository) Update(ctx context.Context, request *domain.FinancialRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(request).Error
}

func (r *FinancialRequestRepository) List(ctx context.Context, page, pageSize int, filters *FinancialFilters) ([]domain.FinancialRequest, int64, error) {
	var requests []domain.FinancialRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.FinancialRequest{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&requests).Error

	return requests, total, err
}

// GetByTender returns all financial requests for a tender
func (r *FinancialRequestRepository) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.FinancialRequest, error) {
	var requests []domain.FinancialRequest
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// CountPendingApproval returns the number of requests awaiting an admin decision
func (r *FinancialRequestRepository) CountPendingApproval(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FinancialRequest{}).
		Where("status = ?", domain.FinancialStatusPendingApproval).
		Count(&count).Error
	return count, err
}

// GetBlockedFunds sums processed instruments not yet refunded or released
func (r *FinancialRequestRepository) GetBlockedFunds(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.FinancialRequest{}).
		Where("status = ?", domain.FinancialStatusProcessed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// GetExpiringInstruments returns processed instruments whose expiry date
// falls between now and the cutoff
func (r *FinancialRequestRepository) GetExpiringInstruments(ctx context.Context, now, cutoff time.Time) ([]domain.FinancialRequest, error) {
	var requests []domain.FinancialRequest
	err := r.db.WithContext(ctx).
		Preload("Tender").
		Where("status = ?", domain.FinancialStatusProcessed).
		Where("expiry_date IS NOT NULL").
		Where("expiry_date >= ? AND expiry_date <= ?", now, cutoff).
		Order("expiry_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *FinancialRequestRepository) applyFilters(query *gorm.DB, filters *FinancialFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.TenderID != nil {
		query = query.Where("tender_id = ?", *filters.TenderID)
	}

	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.RequestedByID != nil {
		query = query.Where("requested_by_id = ?", *filters.RequestedByID)
	}

	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}

	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}

	return query
}
