package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogFilters contains filter options for querying audit logs
type AuditLogFilters struct {
	UserID     *string
	Action     *domain.AuditAction
	EntityType *string
	From       *time.Time
	To         *time.Time
}

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditLogRepository) List(ctx context.Context, page, pageSize int, filters *AuditLogFilters) ([]domain.AuditLog, int64, error) {
	var entries []domain.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("performed_at DESC").Offset(offset).Limit(pageSize).Find(&entries).Error

	return entries, total, err
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	var entry domain.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteOlderThan trims the audit trail; the retention job calls this
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("performed_at < ?", cutoff).
		Delete(&domain.AuditLog{})
	return result.RowsAffected, result.Error
}

func (r *AuditLogRepository) applyFilters(query *gorm.DB, filters *AuditLogFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}

	if filters.EntityType != nil {
		query = query.Where("entity_type = ?", *filters.EntityType)
	}

	if filters.From != nil {
		query = query.Where("performed_at >= ?", *filters.From)
	}

	if filters.To != nil {
		query = query.Where("performed_at <= ?", *filters.To)
	}

	return query
}
