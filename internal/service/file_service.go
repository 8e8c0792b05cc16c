package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"github.com/tendersuite/tender-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FileService struct {
	fileRepo    *repository.FileRepository
	tenderRepo  *repository.TenderRepository
	historyRepo *repository.HistoryRepository
	store       storage.Storage
	logger      *zap.Logger
}

func NewFileService(
	fileRepo *repository.FileRepository,
	tenderRepo *repository.TenderRepository,
	historyRepo *repository.HistoryRepository,
	store storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		tenderRepo:  tenderRepo,
		historyRepo: historyRepo,
		store:       store,
		logger:      logger,
	}
}

// UploadForTender stores a document against a tender, optionally scoped
// to a post-award stage.
func (s *FileService) UploadForTender(ctx context.Context, tenderID uuid.UUID, stage *domain.PostAwardStage, filename, contentType string, data io.Reader) (*domain.FileDTO, error) {
	tender, err := s.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}
	if stage != nil {
		if !stage.IsValid() {
			return nil, ErrInvalidInput
		}
		if tender.Status != domain.TenderStatusWon {
			return nil, ErrNotWon
		}
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	file := &domain.File{
		Filename:       filename,
		ContentType:    contentType,
		Size:           size,
		StoragePath:    storagePath,
		TenderID:       &tenderID,
		PostAwardStage: stage,
		UploadedByID:   actorID,
		UploadedByName: actorName,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned upload", zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	s.historyRepo.Record(ctx, domain.HistoryTargetTender, tenderID, "Document uploaded", filename, actorID, actorName)

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Download streams a stored file. The caller must close the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.File, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return file, reader, nil
}

// ListForTender returns file metadata for a tender
func (s *FileService) ListForTender(ctx context.Context, tenderID uuid.UUID) ([]domain.FileDTO, error) {
	files, err := s.fileRepo.GetByTender(ctx, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	dtos := make([]domain.FileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToFileDTO(&files[i])
	}
	return dtos, nil
}

// Delete removes the stored blob and the metadata row
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.store.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file", zap.Error(err), zap.String("path", file.StoragePath))
	}
	return s.fileRepo.Delete(ctx, id)
}
