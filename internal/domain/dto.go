package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type TenderDTO struct {
	ID                uuid.UUID          `json:"id"`
	Title             string             `json:"title"`
	ReferenceNumber   string             `json:"referenceNumber"`
	Authority         string             `json:"authority,omitempty"`
	Department        string             `json:"department,omitempty"`
	ItemCategory      string             `json:"itemCategory,omitempty"`
	Description       string             `json:"description,omitempty"`
	Value             float64            `json:"value"`
	Currency          string             `json:"currency"`
	Status            TenderStatus       `json:"status"`
	WorkflowStage     WorkflowStage      `json:"workflowStage"`
	WorkflowStageName string             `json:"workflowStageName"`
	StageIndex        int                `json:"stageIndex"`
	Deadline          *string            `json:"deadline,omitempty"`
	OpeningDate       *string            `json:"openingDate,omitempty"`
	ClientID          *uuid.UUID         `json:"clientId,omitempty"`
	ClientName        string             `json:"clientName,omitempty"`
	OEMID             *uuid.UUID         `json:"oemId,omitempty"`
	OEMName           string             `json:"oemName,omitempty"`
	ProductID         *uuid.UUID         `json:"productId,omitempty"`
	ProductName       string             `json:"productName,omitempty"`
	EMD               FinancialDetailDTO `json:"emd"`
	PBG               FinancialDetailDTO `json:"pbg"`
	TenderFee         FinancialDetailDTO `json:"tenderFee"`
	Cost              float64            `json:"cost,omitempty"`
	Source            string             `json:"source,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	LostReason        string             `json:"lostReason,omitempty"`
	Version           int                `json:"version"`
	NeedsReassignment bool               `json:"needsReassignment"`
	Assignments       []AssignmentDTO    `json:"assignments,omitempty"`
	CreatedAt         string             `json:"createdAt"` // ISO 8601
	UpdatedAt         string             `json:"updatedAt"` // ISO 8601
}

type FinancialDetailDTO struct {
	Amount        float64        `json:"amount"`
	Mode          InstrumentMode `json:"mode,omitempty"`
	SubmittedDate *string        `json:"submittedDate,omitempty"`
	ExpiryDate    *string        `json:"expiryDate,omitempty"`
	Status        string         `json:"status,omitempty"`
}

type AssignmentDTO struct {
	ID          uuid.UUID        `json:"id"`
	TenderID    uuid.UUID        `json:"tenderId"`
	UserID      uuid.UUID        `json:"userId"`
	UserName    string           `json:"userName,omitempty"`
	UserEmail   string           `json:"userEmail,omitempty"`
	Status      AssignmentStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
	RespondedAt *string          `json:"respondedAt,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

type ChecklistItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	TenderID     uuid.UUID       `json:"tenderId"`
	Stage        WorkflowStage   `json:"stage"`
	Text         string          `json:"text"`
	Completed    bool            `json:"completed"`
	DisplayOrder int             `json:"displayOrder"`
	Source       ChecklistSource `json:"source"`
	CreatedAt    string          `json:"createdAt"`
}

type StageHistoryDTO struct {
	ID            uuid.UUID      `json:"id"`
	TenderID      uuid.UUID      `json:"tenderId"`
	FromStage     *WorkflowStage `json:"fromStage,omitempty"`
	FromStageName string         `json:"fromStageName,omitempty"`
	ToStage       WorkflowStage  `json:"toStage"`
	ToStageName   string         `json:"toStageName"`
	ChangedByID   string         `json:"changedById"`
	ChangedByName string         `json:"changedByName,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	ChangedAt     string         `json:"changedAt"`
}

type HistoryEntryDTO struct {
	ID         uuid.UUID         `json:"id"`
	TargetType HistoryTargetType `json:"targetType"`
	TargetID   uuid.UUID         `json:"targetId"`
	Action     string            `json:"action"`
	Details    string            `json:"details,omitempty"`
	ActorID    string            `json:"actorId,omitempty"`
	ActorName  string            `json:"actorName,omitempty"`
	OccurredAt string            `json:"occurredAt"`
}

type PostAwardProgressDTO struct {
	Stage     PostAwardStage  `json:"stage"`
	StageName string          `json:"stageName"`
	Status    PostAwardStatus `json:"status"`
	Notes     string          `json:"notes,omitempty"`
	Documents []FileDTO       `json:"documents,omitempty"`
	UpdatedAt string          `json:"updatedAt"`
}

type PostAwardTrackerDTO struct {
	TenderID    uuid.UUID              `json:"tenderId"`
	TenderTitle string                 `json:"tenderTitle"`
	Stages      []PostAwardProgressDTO `json:"stages"`
	Completed   int                    `json:"completed"`
	Total       int                    `json:"total"`
}

type ClientDTO struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	GSTIN        string       `json:"gstin,omitempty"`
	Industry     string       `json:"industry,omitempty"`
	Category     string       `json:"category,omitempty"`
	Status       ClientStatus `json:"status"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Contacts     []ContactDTO `json:"contacts,omitempty"`
	TenderCount  int          `json:"tenderCount,omitempty"`
	TotalValue   float64      `json:"totalValue,omitempty"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"clientId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Title     string    `json:"title,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt string    `json:"createdAt"`
}

type InteractionDTO struct {
	ID         uuid.UUID       `json:"id"`
	ClientID   uuid.UUID       `json:"clientId"`
	Type       InteractionType `json:"type"`
	Summary    string          `json:"summary"`
	OccurredAt string          `json:"occurredAt"`
	UserID     string          `json:"userId,omitempty"`
	UserName   string          `json:"userName,omitempty"`
}

// ClientHealthDTO exposes the derived health rating with the numbers
// behind it so the UI can explain the score.
type ClientHealthDTO struct {
	ClientID   uuid.UUID    `json:"clientId"`
	ClientName string       `json:"clientName"`
	Health     ClientHealth `json:"health"`
	WinRate    float64      `json:"winRate"`
	Won        int          `json:"won"`
	Lost       int          `json:"lost"`
	Open       int          `json:"open"`
}

type FinancialRequestDTO struct {
	ID              uuid.UUID            `json:"id"`
	TenderID        uuid.UUID            `json:"tenderId"`
	TenderTitle     string               `json:"tenderTitle,omitempty"`
	Type            FinancialRequestType `json:"type"`
	Amount          float64              `json:"amount"`
	Currency        string               `json:"currency"`
	Status          FinancialStatus      `json:"status"`
	RequestedByID   string               `json:"requestedById"`
	RequestedByName string               `json:"requestedByName,omitempty"`
	DeclineReason   string               `json:"declineReason,omitempty"`
	InstrumentMode  InstrumentMode       `json:"instrumentMode,omitempty"`
	BankName        string               `json:"bankName,omitempty"`
	InstrumentRef   string               `json:"instrumentRef,omitempty"`
	ExpiryDate      *string              `json:"expiryDate,omitempty"`
	ApprovedAt      *string              `json:"approvedAt,omitempty"`
	ProcessedAt     *string              `json:"processedAt,omitempty"`
	ClosedAt        *string              `json:"closedAt,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       string               `json:"createdAt"`
	UpdatedAt       string               `json:"updatedAt"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        UserRole  `json:"role"`
	Department  string    `json:"department,omitempty"`
	Designation string    `json:"designation,omitempty"`
	IsActive    bool      `json:"isActive"`
	LastLoginAt *string   `json:"lastLoginAt,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type OEMDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ProductLines  string    `json:"productLines,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

type ProductDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	OEMID       *uuid.UUID `json:"oemId,omitempty"`
	OEMName     string     `json:"oemName,omitempty"`
	Category    string     `json:"category,omitempty"`
	UnitPrice   float64    `json:"unitPrice"`
	Description string     `json:"description,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

type LookupDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DocumentTemplateDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind,omitempty"`
	Content   string    `json:"content,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

type FileDTO struct {
	ID             uuid.UUID `json:"id"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"contentType"`
	Size           int64     `json:"size"`
	TenderID       *uuid.UUID `json:"tenderId,omitempty"`
	PostAwardStage *PostAwardStage `json:"postAwardStage,omitempty"`
	UploadedByName string    `json:"uploadedByName,omitempty"`
	CreatedAt      string    `json:"createdAt"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *string    `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

type AuditLogDTO struct {
	ID          uuid.UUID   `json:"id"`
	UserID      string      `json:"userId,omitempty"`
	UserEmail   string      `json:"userEmail,omitempty"`
	UserName    string      `json:"userName,omitempty"`
	Action      AuditAction `json:"action"`
	EntityType  string      `json:"entityType"`
	EntityID    *uuid.UUID  `json:"entityId,omitempty"`
	Method      string      `json:"method,omitempty"`
	Path        string      `json:"path,omitempty"`
	StatusCode  int         `json:"statusCode,omitempty"`
	IPAddress   string      `json:"ipAddress,omitempty"`
	PerformedAt string      `json:"performedAt"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type FinancialDetailRequest struct {
	Amount        float64        `json:"amount" validate:"gte=0"`
	Mode          InstrumentMode `json:"mode,omitempty"`
	SubmittedDate *time.Time     `json:"submittedDate,omitempty"`
	ExpiryDate    *time.Time     `json:"expiryDate,omitempty"`
}

type CreateTenderRequest struct {
	Title           string                  `json:"title" validate:"required,max=300"`
	ReferenceNumber string                  `json:"referenceNumber" validate:"required,max=100"`
	Authority       string                  `json:"authority,omitempty" validate:"max=300"`
	Department      string                  `json:"department,omitempty" validate:"max=200"`
	ItemCategory    string                  `json:"itemCategory,omitempty" validate:"max=100"`
	Description     string                  `json:"description,omitempty"`
	Value           float64                 `json:"value,omitempty" validate:"gte=0"`
	Currency        string                  `json:"currency,omitempty" validate:"max=3"`
	Deadline        *time.Time              `json:"deadline,omitempty"`
	OpeningDate     *time.Time              `json:"openingDate,omitempty"`
	ClientID        *uuid.UUID              `json:"clientId,omitempty"`
	OEMID           *uuid.UUID              `json:"oemId,omitempty"`
	ProductID       *uuid.UUID              `json:"productId,omitempty"`
	EMD             *FinancialDetailRequest `json:"emd,omitempty"`
	PBG             *FinancialDetailRequest `json:"pbg,omitempty"`
	TenderFee       *FinancialDetailRequest `json:"tenderFee,omitempty"`
	Cost            float64                 `json:"cost,omitempty" validate:"gte=0"`
	Source          string                  `json:"source,omitempty" validate:"max=100"`
	Notes           string                  `json:"notes,omitempty"`
	AssigneeIDs     []uuid.UUID             `json:"assigneeIds,omitempty"`
}

type UpdateTenderRequest struct {
	Title           string                  `json:"title" validate:"required,max=300"`
	ReferenceNumber string                  `json:"referenceNumber" validate:"required,max=100"`
	Authority       string                  `json:"authority,omitempty" validate:"max=300"`
	Department      string                  `json:"department,omitempty" validate:"max=200"`
	ItemCategory    string                  `json:"itemCategory,omitempty" validate:"max=100"`
	Description     string                  `json:"description,omitempty"`
	Value           float64                 `json:"value,omitempty" validate:"gte=0"`
	Currency        string                  `json:"currency,omitempty" validate:"max=3"`
	Deadline        *time.Time              `json:"deadline,omitempty"`
	OpeningDate     *time.Time              `json:"openingDate,omitempty"`
	ClientID        *uuid.UUID              `json:"clientId,omitempty"`
	OEMID           *uuid.UUID              `json:"oemId,omitempty"`
	ProductID       *uuid.UUID              `json:"productId,omitempty"`
	EMD             *FinancialDetailRequest `json:"emd,omitempty"`
	PBG             *FinancialDetailRequest `json:"pbg,omitempty"`
	TenderFee       *FinancialDetailRequest `json:"tenderFee,omitempty"`
	Cost            float64                 `json:"cost,omitempty" validate:"gte=0"`
	Source          string                  `json:"source,omitempty" validate:"max=100"`
	Notes           string                  `json:"notes,omitempty"`
	// Version must match the stored tender; a mismatch is a conflict.
	Version int `json:"version" validate:"required,gte=1"`
}

type StageTransitionRequest struct {
	Notes   string `json:"notes,omitempty" validate:"max=2000"`
	Version int    `json:"version" validate:"required,gte=1"`
}

type UpdateTenderStatusRequest struct {
	Status TenderStatus `json:"status" validate:"required"`
	// Reason is required when the status is set to lost or dropped
	Reason  string `json:"reason,omitempty" validate:"max=500"`
	Version int    `json:"version" validate:"required,gte=1"`
}

type SetAssigneesRequest struct {
	UserIDs []uuid.UUID `json:"userIds" validate:"required,min=1"`
	Notes   string      `json:"notes,omitempty" validate:"max=2000"`
}

type AssignmentResponseRequest struct {
	Status AssignmentStatus `json:"status" validate:"required,oneof=accepted declined"`
	Notes  string           `json:"notes,omitempty" validate:"max=2000"`
}

type CreateChecklistItemRequest struct {
	Stage WorkflowStage `json:"stage" validate:"required"`
	Text  string        `json:"text" validate:"required,max=500"`
}

type ToggleChecklistItemRequest struct {
	Completed bool `json:"completed"`
}

type GenerateChecklistRequest struct {
	Stage WorkflowStage `json:"stage" validate:"required"`
	// Extra context handed to the model alongside the tender fields
	Context string `json:"context,omitempty" validate:"max=4000"`
}

type UpdatePostAwardStageRequest struct {
	Status PostAwardStatus `json:"status" validate:"required"`
	Notes  string          `json:"notes,omitempty" validate:"max=2000"`
}

type CreateClientRequest struct {
	Name     string       `json:"name" validate:"required,max=200"`
	GSTIN    string       `json:"gstin,omitempty" validate:"max=20"`
	Industry string       `json:"industry,omitempty" validate:"max=100"`
	Category string       `json:"category,omitempty" validate:"max=100"`
	Status   ClientStatus `json:"status,omitempty"`
	Address  string       `json:"address,omitempty" validate:"max=500"`
	City     string       `json:"city,omitempty" validate:"max=100"`
	Notes    string       `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name     string       `json:"name" validate:"required,max=200"`
	GSTIN    string       `json:"gstin,omitempty" validate:"max=20"`
	Industry string       `json:"industry,omitempty" validate:"max=100"`
	Category string       `json:"category,omitempty" validate:"max=100"`
	Status   ClientStatus `json:"status,omitempty"`
	Address  string       `json:"address,omitempty" validate:"max=500"`
	City     string       `json:"city,omitempty" validate:"max=100"`
	Notes    string       `json:"notes,omitempty"`
}

type CreateContactRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	Title     string `json:"title,omitempty" validate:"max=100"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

type CreateInteractionRequest struct {
	Type       InteractionType `json:"type" validate:"required"`
	Summary    string          `json:"summary" validate:"required,max=2000"`
	OccurredAt *time.Time      `json:"occurredAt,omitempty"`
}

type CreateFinancialRequest struct {
	TenderID uuid.UUID            `json:"tenderId" validate:"required"`
	Type     FinancialRequestType `json:"type" validate:"required"`
	Amount   float64              `json:"amount" validate:"required,gt=0"`
	Currency string               `json:"currency,omitempty" validate:"max=3"`
	Notes    string               `json:"notes,omitempty"`
}

type DeclineFinancialRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ProcessFinancialRequest struct {
	InstrumentMode InstrumentMode `json:"instrumentMode" validate:"required"`
	BankName       string         `json:"bankName,omitempty" validate:"max=200"`
	InstrumentRef  string         `json:"instrumentRef,omitempty" validate:"max=100"`
	ExpiryDate     *time.Time     `json:"expiryDate,omitempty"`
}

type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email,max=255"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Name        string   `json:"name" validate:"required,max=200"`
	Role        UserRole `json:"role" validate:"required"`
	Department  string   `json:"department,omitempty" validate:"max=100"`
	Designation string   `json:"designation,omitempty" validate:"max=100"`
}

type UpdateUserRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Role        UserRole `json:"role" validate:"required"`
	Department  string   `json:"department,omitempty" validate:"max=100"`
	Designation string   `json:"designation,omitempty" validate:"max=100"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type CreateOEMRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
	Email         string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	ProductLines  string `json:"productLines,omitempty" validate:"max=500"`
	Notes         string `json:"notes,omitempty"`
}

type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	OEMID       *uuid.UUID `json:"oemId,omitempty"`
	Category    string     `json:"category,omitempty" validate:"max=100"`
	UnitPrice   float64    `json:"unitPrice,omitempty" validate:"gte=0"`
	Description string     `json:"description,omitempty"`
}

type CreateLookupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CreateDocumentTemplateRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Kind    string `json:"kind,omitempty" validate:"max=100"`
	Content string `json:"content,omitempty"`
}

// Dashboard DTOs

type DashboardMetricsDTO struct {
	TotalTenders     int     `json:"totalTenders"`
	ActiveTenders    int     `json:"activeTenders"`
	WonTenders       int     `json:"wonTenders"`
	LostTenders      int     `json:"lostTenders"`
	SubmittedTenders int     `json:"submittedTenders"`
	WinRate          float64 `json:"winRate"`
	TotalPipeline    float64 `json:"totalPipeline"`
	WonValue         float64 `json:"wonValue"`
	PendingApprovals int     `json:"pendingApprovals"`
	BlockedFunds     float64 `json:"blockedFunds"`
}

// DeadlineBucketsDTO groups open tenders by how close their deadline is.
// Buckets are inclusive and nested: a tender due in 36 hours appears in
// all three.
type DeadlineBucketsDTO struct {
	Within15Days []TenderDTO `json:"within15Days"`
	Within7Days  []TenderDTO `json:"within7Days"`
	Within48Hrs  []TenderDTO `json:"within48Hours"`
}

// Report DTOs

type FunnelStageDTO struct {
	Stage     WorkflowStage `json:"stage"`
	StageName string        `json:"stageName"`
	Count     int           `json:"count"`
}

type WinLossPointDTO struct {
	Period string `json:"period"` // YYYY-MM
	Won    int    `json:"won"`
	Lost   int    `json:"lost"`
}

type CategoryWinRateDTO struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Won      int     `json:"won"`
	WinRate  float64 `json:"winRate"`
}

type LeaderboardEntryDTO struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	Assigned int       `json:"assigned"`
	Won      int       `json:"won"`
	WonValue float64   `json:"wonValue"`
}

type NarrativeReportDTO struct {
	Narrative   string `json:"narrative"`
	GeneratedAt string `json:"generatedAt"`
}

// AI DTOs

type AnalyzeTenderRequest struct {
	TenderID uuid.UUID `json:"tenderId" validate:"required"`
	Context  string    `json:"context,omitempty" validate:"max=8000"`
}

type TenderAnalysisDTO struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Risks           []string `json:"risks"`
	Recommendation  string   `json:"recommendation"`
	ConfidenceScore int      `json:"confidenceScore"`
}

type EligibilityCheckRequest struct {
	TenderID uuid.UUID `json:"tenderId" validate:"required"`
	Criteria string    `json:"criteria" validate:"required,max=12000"`
}

type EligibilityResultDTO struct {
	Eligible bool                   `json:"eligible"`
	Checks   []EligibilityCheckItem `json:"checks"`
	Summary  string                 `json:"summary"`
}

type EligibilityCheckItem struct {
	Criterion string `json:"criterion"`
	Met       bool   `json:"met"`
	Comment   string `json:"comment,omitempty"`
}

type ExtractTenderRequest struct {
	Text string `json:"text" validate:"required,max=30000"`
}

// ExtractedTenderDTO mirrors CreateTenderRequest fields the model can
// recover from free text. Dates arrive as DD-MM-YYYY strings and get
// parsed before use.
type ExtractedTenderDTO struct {
	Title           string  `json:"title"`
	ReferenceNumber string  `json:"referenceNumber"`
	Authority       string  `json:"authority"`
	ItemCategory    string  `json:"itemCategory"`
	Value           float64 `json:"value"`
	EMDAmount       float64 `json:"emdAmount"`
	TenderFeeAmount float64 `json:"tenderFeeAmount"`
	Deadline        string  `json:"deadline"`
	OpeningDate     string  `json:"openingDate"`
	Description     string  `json:"description"`
}
