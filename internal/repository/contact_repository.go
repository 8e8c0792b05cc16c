package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetByClient returns all contacts for a client, primary first
func (r *ContactRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("is_primary DESC, name ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}

// ClearPrimary demotes every primary contact of the client. Used before
// promoting another contact so at most one stays primary.
func (r *ContactRepository) ClearPrimary(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("client_id = ? AND is_primary = ?", clientID, true).
		Update("is_primary", false).Error
}
