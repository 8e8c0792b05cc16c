package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

// GetByClient returns interactions for a client, newest first
func (r *InteractionRepository) GetByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.Interaction, error) {
	var interactions []domain.Interaction
	query := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&interactions).Error
	return interactions, err
}

func (r *InteractionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Interaction{}, "id = ?", id).Error
}
