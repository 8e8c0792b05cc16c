package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/auth"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuditService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

func NewAuditService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{auditRepo: auditRepo, logger: logger}
}

func (s *AuditService) List(ctx context.Context, page, pageSize int, filters *repository.AuditLogFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}
	if page < 1 {
		page = 1
	}

	entries, total, err := s.auditRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToAuditLogDTO(&entries[i])
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *AuditService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLogDTO, error) {
	entry, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}

	dto := mapper.ToAuditLogDTO(entry)
	return &dto, nil
}

// LogEntry describes one auditable request
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	Method     string
	Path       string
	StatusCode int
	IPAddress  string
	RequestID  string
}

// Log writes an audit entry, attributing it to the authenticated user when present
func (s *AuditService) Log(ctx context.Context, entry LogEntry) error {
	record := &domain.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Method:      entry.Method,
		Path:        entry.Path,
		StatusCode:  entry.StatusCode,
		IPAddress:   entry.IPAddress,
		RequestID:   entry.RequestID,
		PerformedAt: time.Now().UTC(),
	}
	if user, ok := auth.FromContext(ctx); ok {
		record.UserID = user.UserID.String()
		record.UserName = user.DisplayName
		record.UserEmail = user.Email
	}

	if err := s.auditRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Purge removes audit entries older than the retention window
func (s *AuditService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit log: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("purged audit entries", zap.Int64("count", deleted))
	}
	return deleted, nil
}
