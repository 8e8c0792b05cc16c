package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PostAwardService struct {
	postAwardRepo *repository.PostAwardRepository
	tenderRepo    *repository.TenderRepository
	fileRepo      *repository.FileRepository
	historyRepo   *repository.HistoryRepository
	logger        *zap.Logger
}

func NewPostAwardService(
	postAwardRepo *repository.PostAwardRepository,
	tenderRepo *repository.TenderRepository,
	fileRepo *repository.FileRepository,
	historyRepo *repository.HistoryRepository,
	logger *zap.Logger,
) *PostAwardService {
	return &PostAwardService{
		postAwardRepo: postAwardRepo,
		tenderRepo:    tenderRepo,
		fileRepo:      fileRepo,
		historyRepo:   historyRepo,
		logger:        logger,
	}
}

// GetTracker returns the full post-award board for a won tender,
// initializing it lazily when the status flipped to won before the
// tracker existed.
func (s *PostAwardService) GetTracker(ctx context.Context, tenderID uuid.UUID) (*domain.PostAwardTrackerDTO, error) {
	tender, err := s.wonTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	rows, err := s.postAwardRepo.GetByTender(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post-award progress: %w", err)
	}
	if len(rows) == 0 {
		if err := s.postAwardRepo.InitializeForTender(ctx, tenderID); err != nil {
			return nil, fmt.Errorf("failed to initialize post-award tracker: %w", err)
		}
		rows, err = s.postAwardRepo.GetByTender(ctx, tenderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get post-award progress: %w", err)
		}
	}

	tracker := &domain.PostAwardTrackerDTO{
		TenderID:    tenderID,
		TenderTitle: tender.Title,
		Total:       len(rows),
	}
	for i := range rows {
		documents, err := s.fileRepo.GetByTenderAndStage(ctx, tenderID, rows[i].Stage)
		if err != nil {
			s.logger.Warn("failed to load stage documents", zap.Error(err))
		}
		dto := mapper.ToPostAwardProgressDTO(&rows[i], documents)
		tracker.Stages = append(tracker.Stages, dto)
		if rows[i].Status == domain.PostAwardStatusCompleted {
			tracker.Completed++
		}
	}
	return tracker, nil
}

// UpdateStage sets the status and notes of one post-award stage. Stages
// are independent; no ordering is enforced between them.
func (s *PostAwardService) UpdateStage(ctx context.Context, tenderID uuid.UUID, stage domain.PostAwardStage, req *domain.UpdatePostAwardStageRequest) (*domain.PostAwardProgressDTO, error) {
	if !stage.IsValid() || !req.Status.IsValid() {
		return nil, ErrInvalidInput
	}
	if _, err := s.wonTender(ctx, tenderID); err != nil {
		return nil, err
	}

	progress, err := s.postAwardRepo.GetByTenderAndStage(ctx, tenderID, stage)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.postAwardRepo.InitializeForTender(ctx, tenderID); err != nil {
				return nil, fmt.Errorf("failed to initialize post-award tracker: %w", err)
			}
			progress, err = s.postAwardRepo.GetByTenderAndStage(ctx, tenderID, stage)
			if err != nil {
				return nil, fmt.Errorf("failed to get post-award stage: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to get post-award stage: %w", err)
		}
	}

	oldStatus := progress.Status
	progress.Status = req.Status
	progress.Notes = req.Notes
	if err := s.postAwardRepo.Update(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to update post-award stage: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetPostAwardStage, tenderID, "Post-award stage updated",
		fmt.Sprintf("%s moved from %s to %s", stage.Label(), oldStatus, req.Status), actorID, actorName)

	documents, err := s.fileRepo.GetByTenderAndStage(ctx, tenderID, stage)
	if err != nil {
		s.logger.Warn("failed to load stage documents", zap.Error(err))
	}
	dto := mapper.ToPostAwardProgressDTO(progress, documents)
	return &dto, nil
}

func (s *PostAwardService) wonTender(ctx context.Context, tenderID uuid.UUID) (*domain.Tender, error) {
	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}
	if tender.Status != domain.TenderStatusWon {
		return nil, ErrNotWon
	}
	return tender, nil
}
