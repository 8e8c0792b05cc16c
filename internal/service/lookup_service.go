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

// LookupService manages the admin-maintained reference lists:
// departments, designations and document templates.
type LookupService struct {
	lookupRepo *repository.LookupRepository
	logger     *zap.Logger
}

func NewLookupService(lookupRepo *repository.LookupRepository, logger *zap.Logger) *LookupService {
	return &LookupService{lookupRepo: lookupRepo, logger: logger}
}

func (s *LookupService) ListDepartments(ctx context.Context) ([]domain.LookupDTO, error) {
	departments, err := s.lookupRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	dtos := make([]domain.LookupDTO, len(departments))
	for i := range departments {
		dtos[i] = mapper.ToDepartmentDTO(&departments[i])
	}
	return dtos, nil
}

func (s *LookupService) CreateDepartment(ctx context.Context, req *domain.CreateLookupRequest) (*domain.LookupDTO, error) {
	dept := &domain.Department{Name: req.Name}
	if err := s.lookupRepo.CreateDepartment(ctx, dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	dto := mapper.ToDepartmentDTO(dept)
	return &dto, nil
}

func (s *LookupService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return s.lookupRepo.DeleteDepartment(ctx, id)
}

func (s *LookupService) ListDesignations(ctx context.Context) ([]domain.LookupDTO, error) {
	designations, err := s.lookupRepo.ListDesignations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list designations: %w", err)
	}
	dtos := make([]domain.LookupDTO, len(designations))
	for i := range designations {
		dtos[i] = mapper.ToDesignationDTO(&designations[i])
	}
	return dtos, nil
}

func (s *LookupService) CreateDesignation(ctx context.Context, req *domain.CreateLookupRequest) (*domain.LookupDTO, error) {
	desig := &domain.Designation{Name: req.Name}
	if err := s.lookupRepo.CreateDesignation(ctx, desig); err != nil {
		return nil, fmt.Errorf("failed to create designation: %w", err)
	}
	dto := mapper.ToDesignationDTO(desig)
	return &dto, nil
}

func (s *LookupService) DeleteDesignation(ctx context.Context, id uuid.UUID) error {
	return s.lookupRepo.DeleteDesignation(ctx, id)
}

func (s *LookupService) ListTemplates(ctx context.Context) ([]domain.DocumentTemplateDTO, error) {
	templates, err := s.lookupRepo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	dtos := make([]domain.DocumentTemplateDTO, len(templates))
	for i := range templates {
		dtos[i] = mapper.ToDocumentTemplateDTO(&templates[i])
	}
	return dtos, nil
}

func (s *LookupService) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.DocumentTemplateDTO, error) {
	tmpl, err := s.lookupRepo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	dto := mapper.ToDocumentTemplateDTO(tmpl)
	return &dto, nil
}

func (s *LookupService) CreateTemplate(ctx context.Context, req *domain.CreateDocumentTemplateRequest) (*domain.DocumentTemplateDTO, error) {
	tmpl := &domain.DocumentTemplate{
		Name:    req.Name,
		Kind:    req.Kind,
		Content: req.Content,
	}
	if err := s.lookupRepo.CreateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	dto := mapper.ToDocumentTemplateDTO(tmpl)
	return &dto, nil
}

func (s *LookupService) UpdateTemplate(ctx context.Context, id uuid.UUID, req *domain.CreateDocumentTemplateRequest) (*domain.DocumentTemplateDTO, error) {
	tmpl, err := s.lookupRepo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	tmpl.Name = req.Name
	tmpl.Kind = req.Kind
	tmpl.Content = req.Content

	if err := s.lookupRepo.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	dto := mapper.ToDocumentTemplateDTO(tmpl)
	return &dto, nil
}

func (s *LookupService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.lookupRepo.DeleteTemplate(ctx, id)
}
