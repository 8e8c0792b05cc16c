package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

// HistoryRepository stores the append-only entity event log
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Record is a convenience method for appending an event
func (r *HistoryRepository) Record(
	ctx context.Context,
	targetType domain.HistoryTargetType,
	targetID uuid.UUID,
	action, details, actorID, actorName string,
) error {
	entry := &domain.HistoryEntry{
		TargetType: targetType,
		TargetID:   targetID,
		Action:     action,
		Details:    details,
		ActorID:    actorID,
		ActorName:  actorName,
		OccurredAt: time.Now().UTC(),
	}
	return r.Create(ctx, entry)
}

// GetByTarget returns events for an entity, newest first
func (r *HistoryRepository) GetByTarget(ctx context.Context, targetType domain.HistoryTargetType, targetID uuid.UUID, limit int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	query := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// GetRecent returns the most recent events across all entities
func (r *HistoryRepository) GetRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// DeleteByTarget removes all events for an entity (used on hard delete)
func (r *HistoryRepository) DeleteByTarget(ctx context.Context, targetType domain.HistoryTargetType, targetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&domain.HistoryEntry{}).Error
}
