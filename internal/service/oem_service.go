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

type OEMService struct {
	oemRepo *repository.OEMRepository
	logger  *zap.Logger
}

func NewOEMService(oemRepo *repository.OEMRepository, logger *zap.Logger) *OEMService {
	return &OEMService{oemRepo: oemRepo, logger: logger}
}

func (s *OEMService) Create(ctx context.Context, req *domain.CreateOEMRequest) (*domain.OEMDTO, error) {
	oem := &domain.OEM{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		ProductLines:  req.ProductLines,
		Notes:         req.Notes,
	}
	if err := s.oemRepo.Create(ctx, oem); err != nil {
		return nil, fmt.Errorf("failed to create OEM: %w", err)
	}
	dto := mapper.ToOEMDTO(oem)
	return &dto, nil
}

func (s *OEMService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OEMDTO, error) {
	oem, err := s.oemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get OEM: %w", err)
	}
	dto := mapper.ToOEMDTO(oem)
	return &dto, nil
}

func (s *OEMService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateOEMRequest) (*domain.OEMDTO, error) {
	oem, err := s.oemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get OEM: %w", err)
	}

	oem.Name = req.Name
	oem.ContactPerson = req.ContactPerson
	oem.Email = req.Email
	oem.Phone = req.Phone
	oem.ProductLines = req.ProductLines
	oem.Notes = req.Notes

	if err := s.oemRepo.Update(ctx, oem); err != nil {
		return nil, fmt.Errorf("failed to update OEM: %w", err)
	}
	dto := mapper.ToOEMDTO(oem)
	return &dto, nil
}

func (s *OEMService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.oemRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get OEM: %w", err)
	}
	return s.oemRepo.Delete(ctx, id)
}

func (s *OEMService) List(ctx context.Context, search string) ([]domain.OEMDTO, error) {
	oems, err := s.oemRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list OEMs: %w", err)
	}
	dtos := make([]domain.OEMDTO, len(oems))
	for i := range oems {
		dtos[i] = mapper.ToOEMDTO(&oems[i])
	}
	return dtos, nil
}
