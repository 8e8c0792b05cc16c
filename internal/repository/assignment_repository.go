package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.TenderAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// GetByTender returns all assignments for a tender with users preloaded
func (r *AssignmentRepository) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]domain.TenderAssignment, error) {
	var assignments []domain.TenderAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tender_id = ?", tenderID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

// GetByTenderAndUser returns a single assignment row
func (r *AssignmentRepository) GetByTenderAndUser(ctx context.Context, tenderID, userID uuid.UUID) (*domain.TenderAssignment, error) {
	var assignment domain.TenderAssignment
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND user_id = ?", tenderID, userID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// GetByUser returns all assignments for a user, newest first
func (r *AssignmentRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]domain.TenderAssignment, error) {
	var assignments []domain.TenderAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// SetResponse records an assignee's accept or decline
func (r *AssignmentRepository) SetResponse(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, notes string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.TenderAssignment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"notes":        notes,
			"responded_at": now,
		}).Error
}

// ReplaceForTender swaps the assignee set of a tender inside one
// transaction: rows not in userIDs go away, new users get pending rows,
// surviving rows keep their response.
func (r *AssignmentRepository) ReplaceForTender(ctx context.Context, tenderID uuid.UUID, userIDs []uuid.UUID, notes string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []domain.TenderAssignment
		if err := tx.Where("tender_id = ?", tenderID).Find(&existing).Error; err != nil {
			return err
		}

		keep := make(map[uuid.UUID]bool, len(userIDs))
		for _, id := range userIDs {
			keep[id] = true
		}

		current := make(map[uuid.UUID]bool, len(existing))
		for _, a := range existing {
			current[a.UserID] = true
			if !keep[a.UserID] {
				if err := tx.Delete(&domain.TenderAssignment{}, "id = ?", a.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, userID := range userIDs {
			if current[userID] {
				continue
			}
			assignment := &domain.TenderAssignment{
				TenderID: tenderID,
				UserID:   userID,
				Status:   domain.AssignmentStatusPending,
				Notes:    notes,
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LeaderboardRow aggregates assignment outcomes per user
type LeaderboardRow struct {
	UserID   uuid.UUID
	Assigned int
	Won      int
	WonValue float64
}

// GetLeaderboard returns per-user assignment and win counts. Only
// accepted assignments count toward a user's wins.
func (r *AssignmentRepository) GetLeaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.WithContext(ctx).
		Table("tender_assignments").
		Joins("JOIN tenders ON tenders.id = tender_assignments.tender_id").
		Select(`tender_assignments.user_id,
			COUNT(*) as assigned,
			SUM(CASE WHEN tenders.status = ? AND tender_assignments.status = ? THEN 1 ELSE 0 END) as won,
			SUM(CASE WHEN tenders.status = ? AND tender_assignments.status = ? THEN tenders.value ELSE 0 END) as won_value`,
			domain.TenderStatusWon, domain.AssignmentStatusAccepted,
			domain.TenderStatusWon, domain.AssignmentStatusAccepted).
		Group("tender_assignments.user_id").
		Order("won DESC, assigned DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) DeleteByTenderID(ctx context.Context, tenderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Delete(&domain.TenderAssignment{}).Error
}
