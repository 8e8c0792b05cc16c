package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/ai"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/mapper"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientService struct {
	clientRepo      *repository.ClientRepository
	contactRepo     *repository.ContactRepository
	interactionRepo *repository.InteractionRepository
	tenderRepo      *repository.TenderRepository
	historyRepo     *repository.HistoryRepository
	assistant       *ai.Assistant
	logger          *zap.Logger
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	contactRepo *repository.ContactRepository,
	interactionRepo *repository.InteractionRepository,
	tenderRepo *repository.TenderRepository,
	historyRepo *repository.HistoryRepository,
	assistant *ai.Assistant,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:      clientRepo,
		contactRepo:     contactRepo,
		interactionRepo: interactionRepo,
		tenderRepo:      tenderRepo,
		historyRepo:     historyRepo,
		assistant:       assistant,
		logger:          logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.ClientStatusLead
	}

	client := &domain.Client{
		Name:     req.Name,
		GSTIN:    req.GSTIN,
		Industry: req.Industry,
		Category: req.Category,
		Status:   status,
		Address:  req.Address,
		City:     req.City,
		Notes:    req.Notes,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	actorID, actorName := actorFromContext(ctx)
	s.historyRepo.Record(ctx, domain.HistoryTargetClient, client.ID, "Client created",
		fmt.Sprintf("Client '%s' created", client.Name), actorID, actorName)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	tenders, err := s.tenderRepo.GetByClient(ctx, id)
	if err == nil {
		dto.TenderCount = len(tenders)
		for _, t := range tenders {
			dto.TotalValue += t.Value
		}
	}
	return &dto, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	// Optional fields left empty in the request keep their stored value.
	client.Name = req.Name
	if req.GSTIN != "" {
		client.GSTIN = req.GSTIN
	}
	if req.Industry != "" {
		client.Industry = req.Industry
	}
	if req.Category != "" {
		client.Category = req.Category
	}
	if req.Status != "" {
		client.Status = req.Status
	}
	if req.Address != "" {
		client.Address = req.Address
	}
	if req.City != "" {
		client.City = req.City
	}
	if req.Notes != "" {
		client.Notes = req.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get client: %w", err)
	}
	if err := s.historyRepo.DeleteByTarget(ctx, domain.HistoryTargetClient, id); err != nil {
		s.logger.Warn("failed to delete client history", zap.Error(err))
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, filters *repository.ClientFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
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

// AddContact creates a contact. Setting isPrimary demotes any existing
// primary so at most one remains.
func (s *ClientService) AddContact(ctx context.Context, clientID uuid.UUID, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if req.IsPrimary {
		if err := s.contactRepo.ClearPrimary(ctx, clientID); err != nil {
			return nil, fmt.Errorf("failed to clear primary contact: %w", err)
		}
	}

	contact := &domain.Contact{
		ClientID:  clientID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
		IsPrimary: req.IsPrimary,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ClientService) UpdateContact(ctx context.Context, clientID, contactID uuid.UUID, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact.ClientID != clientID {
		return nil, ErrNotFound
	}

	if req.IsPrimary && !contact.IsPrimary {
		if err := s.contactRepo.ClearPrimary(ctx, clientID); err != nil {
			return nil, fmt.Errorf("failed to clear primary contact: %w", err)
		}
	}

	contact.Name = req.Name
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Title = req.Title
	contact.IsPrimary = req.IsPrimary

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ClientService) DeleteContact(ctx context.Context, clientID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact.ClientID != clientID {
		return ErrNotFound
	}
	return s.contactRepo.Delete(ctx, contactID)
}

// AddInteraction records a touchpoint with the client
func (s *ClientService) AddInteraction(ctx context.Context, clientID uuid.UUID, req *domain.CreateInteractionRequest) (*domain.InteractionDTO, error) {
	if !req.Type.IsValid() {
		return nil, ErrInvalidInput
	}
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	actorID, actorName := actorFromContext(ctx)
	interaction := &domain.Interaction{
		ClientID:   clientID,
		Type:       req.Type,
		Summary:    req.Summary,
		OccurredAt: occurredAt,
		UserID:     actorID,
		UserName:   actorName,
	}
	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		return nil, fmt.Errorf("failed to create interaction: %w", err)
	}

	dto := mapper.ToInteractionDTO(interaction)
	return &dto, nil
}

func (s *ClientService) GetInteractions(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.InteractionDTO, error) {
	interactions, err := s.interactionRepo.GetByClient(ctx, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get interactions: %w", err)
	}
	dtos := make([]domain.InteractionDTO, len(interactions))
	for i := range interactions {
		dtos[i] = mapper.ToInteractionDTO(&interactions[i])
	}
	return dtos, nil
}

// GetHealth derives the relationship rating from historical win rate:
// 75 and above is excellent, 40-75 good, below 40 at risk. A client with
// no closed tenders has no track record and rates good.
func (s *ClientService) GetHealth(ctx context.Context, clientID uuid.UUID) (*domain.ClientHealthDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	outcome, err := s.tenderRepo.GetClientOutcome(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client outcomes: %w", err)
	}

	dto := &domain.ClientHealthDTO{
		ClientID:   clientID,
		ClientName: client.Name,
		Won:        outcome.Won,
		Lost:       outcome.Lost,
		Open:       outcome.Open,
	}

	closed := outcome.Won + outcome.Lost
	if closed == 0 {
		dto.Health = domain.ClientHealthGood
		return dto, nil
	}

	dto.WinRate = float64(outcome.Won) / float64(closed) * 100
	switch {
	case dto.WinRate >= 75:
		dto.Health = domain.ClientHealthExcellent
	case dto.WinRate >= 40:
		dto.Health = domain.ClientHealthGood
	default:
		dto.Health = domain.ClientHealthAtRisk
	}
	return dto, nil
}

// GetStrategicSummary asks the AI assistant for an account strategy brief
func (s *ClientService) GetStrategicSummary(ctx context.Context, clientID uuid.UUID) (*domain.NarrativeReportDTO, error) {
	if s.assistant == nil {
		return nil, ErrAIDisabled
	}

	health, err := s.GetHealth(ctx, clientID)
	if err != nil {
		return nil, err
	}

	interactions, _ := s.interactionRepo.GetByClient(ctx, clientID, 10)
	summary := fmt.Sprintf(
		"Client: %s\nWon tenders: %d\nLost tenders: %d\nOpen tenders: %d\nWin rate: %.1f%%\nRecent interactions: %d",
		health.ClientName, health.Won, health.Lost, health.Open, health.WinRate, len(interactions))

	narrative, err := s.assistant.GenerateNarrative(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client summary: %w", err)
	}

	return &domain.NarrativeReportDTO{
		Narrative:   narrative,
		GeneratedAt: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}
