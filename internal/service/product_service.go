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

type ProductService struct {
	productRepo *repository.ProductRepository
	oemRepo     *repository.OEMRepository
	logger      *zap.Logger
}

func NewProductService(productRepo *repository.ProductRepository, oemRepo *repository.OEMRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, oemRepo: oemRepo, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	if req.OEMID != nil {
		if _, err := s.oemRepo.GetByID(ctx, *req.OEMID); err != nil {
			return nil, fmt.Errorf("OEM not found: %w", err)
		}
	}

	product := &domain.Product{
		Name:        req.Name,
		OEMID:       req.OEMID,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.Name = req.Name
	product.OEMID = req.OEMID
	product.Category = req.Category
	product.UnitPrice = req.UnitPrice
	product.Description = req.Description

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, search string, oemID *uuid.UUID, category string) ([]domain.ProductDTO, error) {
	products, err := s.productRepo.List(ctx, search, oemID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = mapper.ToProductDTO(&products[i])
	}
	return dtos, nil
}
