package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID client-side. No database default is
// declared so the same schema migrates on postgres and sqlite.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TenderStatus represents the commercial outcome axis of a tender.
// It is independent of WorkflowStage: a tender can be won while its
// workflow stage still sits before tender_completion.
type TenderStatus string

const (
	TenderStatusDrafting    TenderStatus = "drafting"
	TenderStatusSubmitted   TenderStatus = "submitted"
	TenderStatusUnderReview TenderStatus = "under_review"
	TenderStatusWon         TenderStatus = "won"
	TenderStatusLost        TenderStatus = "lost"
	TenderStatusArchived    TenderStatus = "archived"
	TenderStatusDropped     TenderStatus = "dropped"
)

// IsValid checks if the TenderStatus is a valid enum value
func (s TenderStatus) IsValid() bool {
	switch s {
	case TenderStatusDrafting, TenderStatusSubmitted, TenderStatusUnderReview,
		TenderStatusWon, TenderStatusLost, TenderStatusArchived, TenderStatusDropped:
		return true
	}
	return false
}

// IsClosed reports whether the status is a terminal outcome
func (s TenderStatus) IsClosed() bool {
	return s == TenderStatusWon || s == TenderStatusLost
}

// InstrumentMode represents how a financial instrument was posted
type InstrumentMode string

const (
	InstrumentModeBankGuarantee  InstrumentMode = "bank_guarantee"
	InstrumentModeDemandDraft    InstrumentMode = "demand_draft"
	InstrumentModeOnlineTransfer InstrumentMode = "online_transfer"
	InstrumentModeFDR            InstrumentMode = "fdr"
	InstrumentModeOther          InstrumentMode = "other"
)

// FinancialDetail is an embedded snapshot of one instrument on a tender
// (EMD, PBG or tender fee). The authoritative lifecycle lives in
// FinancialRequest; this mirror keeps the tender readable in one fetch.
type FinancialDetail struct {
	Amount        float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Mode          InstrumentMode `gorm:"type:varchar(50)"`
	SubmittedDate *time.Time     `gorm:"type:date"`
	ExpiryDate    *time.Time     `gorm:"type:date"`
	Status        string         `gorm:"type:varchar(50)"`
}

// Tender represents a bid opportunity tracked through the workflow
type Tender struct {
	BaseModel
	Title           string          `gorm:"type:varchar(300);not null;index"`
	ReferenceNumber string          `gorm:"type:varchar(100);unique;index;column:reference_number"`
	Authority       string          `gorm:"type:varchar(300)"`
	Department      string          `gorm:"type:varchar(200)"`
	ItemCategory    string          `gorm:"type:varchar(100);index;column:item_category"`
	Description     string          `gorm:"type:text"`
	Value           float64         `gorm:"type:decimal(15,2);not null;default:0"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'INR'"`
	Status          TenderStatus    `gorm:"type:varchar(50);not null;default:'drafting';index"`
	WorkflowStage   WorkflowStage   `gorm:"type:varchar(50);not null;default:'tender_identification';index;column:workflow_stage"`
	Deadline        *time.Time      `gorm:"index"`
	OpeningDate     *time.Time      `gorm:"type:date;column:opening_date"`
	ClientID        *uuid.UUID      `gorm:"type:uuid;index;column:client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID"`
	OEMID           *uuid.UUID      `gorm:"type:uuid;index;column:oem_id"`
	OEM             *OEM            `gorm:"foreignKey:OEMID"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index;column:product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
	EMD             FinancialDetail `gorm:"embedded;embeddedPrefix:emd_"`
	PBG             FinancialDetail `gorm:"embedded;embeddedPrefix:pbg_"`
	TenderFee       FinancialDetail `gorm:"embedded;embeddedPrefix:fee_"`
	Cost            float64         `gorm:"type:decimal(15,2);not null;default:0"`
	Source          string          `gorm:"type:varchar(100)"`
	Notes           string          `gorm:"type:text"`
	LostReason      string          `gorm:"type:varchar(500);column:lost_reason"`
	// Version implements optimistic concurrency: updates must present the
	// current value, stale writes are rejected with a conflict.
	Version     int                  `gorm:"not null;default:1"`
	Assignments []TenderAssignment   `gorm:"foreignKey:TenderID;constraint:OnDelete:CASCADE"`
	Checklist   []StageChecklistItem `gorm:"foreignKey:TenderID;constraint:OnDelete:CASCADE"`
	Files       []File               `gorm:"foreignKey:TenderID"`
}

// NeedsReassignment reports whether the tender should be flagged for
// reassignment: at least one assignee declined and nobody accepted.
func (t *Tender) NeedsReassignment() bool {
	declined := false
	for _, a := range t.Assignments {
		switch a.Status {
		case AssignmentStatusAccepted:
			return false
		case AssignmentStatusDeclined:
			declined = true
		}
	}
	return declined
}

// AssignmentStatus represents an assignee's response to a tender assignment
type AssignmentStatus string

const (
	AssignmentStatusPending  AssignmentStatus = "pending"
	AssignmentStatusAccepted AssignmentStatus = "accepted"
	AssignmentStatusDeclined AssignmentStatus = "declined"
)

// TenderAssignment links a user to a tender with their response
type TenderAssignment struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	TenderID    uuid.UUID        `gorm:"type:uuid;not null;index;column:tender_id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id"`
	User        *User            `gorm:"foreignKey:UserID"`
	Status      AssignmentStatus `gorm:"type:varchar(50);not null;default:'pending'"`
	Notes       string           `gorm:"type:text"`
	RespondedAt *time.Time       `gorm:"column:responded_at"`
	CreatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (a *TenderAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ChecklistSource tells where a checklist item came from
type ChecklistSource string

const (
	ChecklistSourceStandard ChecklistSource = "standard"
	ChecklistSourceAI       ChecklistSource = "ai"
	ChecklistSourceManual   ChecklistSource = "manual"
)

// StageChecklistItem is one checklist entry scoped to a tender and a
// workflow stage. Checklist completion never gates stage advancement.
type StageChecklistItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenderID     uuid.UUID       `gorm:"type:uuid;not null;index;column:tender_id"`
	Stage        WorkflowStage   `gorm:"type:varchar(50);not null;index"`
	Text         string          `gorm:"type:varchar(500);not null"`
	Completed    bool            `gorm:"not null;default:false"`
	DisplayOrder int             `gorm:"not null;default:0;column:display_order"`
	Source       ChecklistSource `gorm:"type:varchar(20);not null;default:'manual'"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (i *StageChecklistItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// StandardChecklistItem seeds the default checklist per workflow stage
type StandardChecklistItem struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key"`
	Stage        WorkflowStage `gorm:"type:varchar(50);not null;index"`
	Text         string        `gorm:"type:varchar(500);not null"`
	DisplayOrder int           `gorm:"not null;default:0;column:display_order"`
}

// TableName overrides the pluralized default
func (StandardChecklistItem) TableName() string {
	return "standard_checklist_items"
}

func (i *StandardChecklistItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TenderStageHistory tracks workflow stage transitions for audit purposes
type TenderStageHistory struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	TenderID      uuid.UUID      `gorm:"type:uuid;not null;index;column:tender_id"`
	Tender        *Tender        `gorm:"foreignKey:TenderID"`
	FromStage     *WorkflowStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       WorkflowStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedByID   string         `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string         `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string         `gorm:"type:text"`
	ChangedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (TenderStageHistory) TableName() string {
	return "tender_stage_history"
}

func (h *TenderStageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HistoryTargetType represents the type of entity a history entry belongs to
type HistoryTargetType string

const (
	HistoryTargetTender           HistoryTargetType = "Tender"
	HistoryTargetClient           HistoryTargetType = "Client"
	HistoryTargetFinancialRequest HistoryTargetType = "FinancialRequest"
	HistoryTargetPostAwardStage   HistoryTargetType = "PostAwardStage"
	HistoryTargetUser             HistoryTargetType = "User"
)

// HistoryActionStatusChanged marks the event appended when a tender's
// status changes. Outcome analytics key off its timestamp.
const HistoryActionStatusChanged = "Status changed"

// HistoryEntry is an append-only event log attached to any entity
type HistoryEntry struct {
	BaseModel
	TargetType HistoryTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID   uuid.UUID         `gorm:"type:uuid;not null;index;column:target_id"`
	Action     string            `gorm:"type:varchar(200);not null"`
	Details    string            `gorm:"type:varchar(2000)"`
	ActorID    string            `gorm:"type:varchar(100);column:actor_id"`
	ActorName  string            `gorm:"type:varchar(200);column:actor_name"`
	OccurredAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
}

// TableName overrides the pluralized default
func (HistoryEntry) TableName() string {
	return "history_entries"
}

// PostAwardStatus represents the state of a single post-award stage
type PostAwardStatus string

const (
	PostAwardStatusPending    PostAwardStatus = "pending"
	PostAwardStatusInProgress PostAwardStatus = "in_progress"
	PostAwardStatusCompleted  PostAwardStatus = "completed"
	PostAwardStatusSkipped    PostAwardStatus = "skipped"
)

// IsValid checks if the PostAwardStatus is a valid enum value
func (s PostAwardStatus) IsValid() bool {
	switch s {
	case PostAwardStatusPending, PostAwardStatusInProgress, PostAwardStatusCompleted, PostAwardStatusSkipped:
		return true
	}
	return false
}

// PostAwardProgress tracks one post-award stage of a won tender.
// Stages advance independently; there is no ordering arithmetic here.
type PostAwardProgress struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenderID  uuid.UUID       `gorm:"type:uuid;not null;index;column:tender_id"`
	Stage     PostAwardStage  `gorm:"type:varchar(50);not null"`
	Status    PostAwardStatus `gorm:"type:varchar(50);not null;default:'pending'"`
	Notes     string          `gorm:"type:text"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the pluralized default
func (PostAwardProgress) TableName() string {
	return "post_award_progress"
}

func (p *PostAwardProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ClientStatus represents the relationship state of a client
type ClientStatus string

const (
	ClientStatusActive  ClientStatus = "active"
	ClientStatusLead    ClientStatus = "lead"
	ClientStatusDormant ClientStatus = "dormant"
	ClientStatusLost    ClientStatus = "lost"
)

// ClientHealth is a derived rating based on historical win rate
type ClientHealth string

const (
	ClientHealthExcellent ClientHealth = "excellent"
	ClientHealthGood      ClientHealth = "good"
	ClientHealthAtRisk    ClientHealth = "at_risk"
)

// Client represents an organization the sales team bids for
type Client struct {
	BaseModel
	Name         string        `gorm:"type:varchar(200);not null;index"`
	GSTIN        string        `gorm:"type:varchar(20);index;column:gstin"`
	Industry     string        `gorm:"type:varchar(100)"`
	Category     string        `gorm:"type:varchar(100)"`
	Status       ClientStatus  `gorm:"type:varchar(50);not null;default:'lead';index"`
	Address      string        `gorm:"type:varchar(500)"`
	City         string        `gorm:"type:varchar(100)"`
	Notes        string        `gorm:"type:text"`
	Contacts     []Contact     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Tenders      []Tender      `gorm:"foreignKey:ClientID"`
	Interactions []Interaction `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// Contact represents an individual person at a client.
// At most one contact per client is primary; the service enforces it.
type Contact struct {
	BaseModel
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index;column:client_id"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(255)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Title     string    `gorm:"type:varchar(100)"`
	IsPrimary bool      `gorm:"not null;default:false;column:is_primary"`
}

// InteractionType represents the channel of a client interaction
type InteractionType string

const (
	InteractionTypeCall    InteractionType = "call"
	InteractionTypeEmail   InteractionType = "email"
	InteractionTypeMeeting InteractionType = "meeting"
	InteractionTypeOther   InteractionType = "other"
)

// IsValid checks if the InteractionType is a valid enum value
func (it InteractionType) IsValid() bool {
	switch it {
	case InteractionTypeCall, InteractionTypeEmail, InteractionTypeMeeting, InteractionTypeOther:
		return true
	}
	return false
}

// Interaction records a touchpoint with a client
type Interaction struct {
	BaseModel
	ClientID   uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Type       InteractionType `gorm:"type:varchar(50);not null;default:'other'"`
	Summary    string          `gorm:"type:varchar(2000);not null"`
	OccurredAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;column:occurred_at"`
	UserID     string          `gorm:"type:varchar(100);column:user_id"`
	UserName   string          `gorm:"type:varchar(200);column:user_name"`
}

// FinancialRequestType represents the instrument class of a request
type FinancialRequestType string

const (
	FinancialTypeEMD       FinancialRequestType = "emd"
	FinancialTypePBG       FinancialRequestType = "pbg"
	FinancialTypeSD        FinancialRequestType = "sd"
	FinancialTypeTenderFee FinancialRequestType = "tender_fee"
	FinancialTypeOther     FinancialRequestType = "other"
)

// IsValid checks if the FinancialRequestType is a valid enum value
func (t FinancialRequestType) IsValid() bool {
	switch t {
	case FinancialTypeEMD, FinancialTypePBG, FinancialTypeSD, FinancialTypeTenderFee, FinancialTypeOther:
		return true
	}
	return false
}

// FinancialStatus represents the processing state of a financial request
type FinancialStatus string

const (
	FinancialStatusPendingApproval FinancialStatus = "pending_approval"
	FinancialStatusApproved        FinancialStatus = "approved"
	FinancialStatusProcessed       FinancialStatus = "processed"
	FinancialStatusRefunded        FinancialStatus = "refunded"
	FinancialStatusReleased        FinancialStatus = "released"
	FinancialStatusDeclined        FinancialStatus = "declined"
)

// FinancialRequest represents an EMD/PBG/fee request moving through the
// approval lifecycle. Instrument details are populated at processing time.
type FinancialRequest struct {
	BaseModel
	TenderID        uuid.UUID            `gorm:"type:uuid;not null;index;column:tender_id"`
	Tender          *Tender              `gorm:"foreignKey:TenderID"`
	TenderTitle     string               `gorm:"type:varchar(300);column:tender_title"`
	Type            FinancialRequestType `gorm:"type:varchar(50);not null;index"`
	Amount          float64              `gorm:"type:decimal(15,2);not null"`
	Currency        string               `gorm:"type:varchar(3);not null;default:'INR'"`
	Status          FinancialStatus      `gorm:"type:varchar(50);not null;default:'pending_approval';index"`
	RequestedByID   string               `gorm:"type:varchar(100);not null;column:requested_by_id"`
	RequestedByName string               `gorm:"type:varchar(200);column:requested_by_name"`
	DeclineReason   string               `gorm:"type:varchar(500);column:decline_reason"`
	InstrumentMode  InstrumentMode       `gorm:"type:varchar(50);column:instrument_mode"`
	BankName        string               `gorm:"type:varchar(200);column:bank_name"`
	InstrumentRef   string               `gorm:"type:varchar(100);column:instrument_ref"`
	ExpiryDate      *time.Time           `gorm:"type:date;column:expiry_date"`
	ApprovedAt      *time.Time           `gorm:"column:approved_at"`
	ProcessedAt     *time.Time           `gorm:"column:processed_at"`
	ClosedAt        *time.Time           `gorm:"column:closed_at"`
	Notes           string               `gorm:"type:text"`
}

// UserRole represents a role a user can have
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleSales   UserRole = "sales"
	RoleFinance UserRole = "finance"
	RoleViewer  UserRole = "viewer"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSales, RoleFinance, RoleViewer:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;unique"`
	PasswordHash string     `gorm:"type:varchar(200);not null;column:password_hash"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Role         UserRole   `gorm:"type:varchar(50);not null;default:'viewer';index"`
	Department   string     `gorm:"type:varchar(100)"`
	Designation  string     `gorm:"type:varchar(100)"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// OEM represents an original equipment manufacturer partner
type OEM struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200);column:contact_person"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	ProductLines  string `gorm:"type:varchar(500);column:product_lines"`
	Notes         string `gorm:"type:text"`
}

// TableName overrides the pluralized default
func (OEM) TableName() string {
	return "oems"
}

// Product represents a sellable product, optionally tied to an OEM
type Product struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null;index"`
	OEMID       *uuid.UUID `gorm:"type:uuid;index;column:oem_id"`
	OEM         *OEM       `gorm:"foreignKey:OEMID"`
	Category    string     `gorm:"type:varchar(100);index"`
	UnitPrice   float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	Description string     `gorm:"type:text"`
}

// Department is an admin-managed lookup value
type Department struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;unique"`
}

// Designation is an admin-managed lookup value
type Designation struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;unique"`
}

// DocumentTemplate is an admin-managed boilerplate document
type DocumentTemplate struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Kind    string `gorm:"type:varchar(100)"`
	Content string `gorm:"type:text"`
}

// File represents an uploaded document
type File struct {
	BaseModel
	Filename       string          `gorm:"type:varchar(255);not null"`
	ContentType    string          `gorm:"type:varchar(100);not null"`
	Size           int64           `gorm:"not null"`
	StoragePath    string          `gorm:"type:varchar(500);not null;unique"`
	TenderID       *uuid.UUID      `gorm:"type:uuid;index;column:tender_id"`
	PostAwardStage *PostAwardStage `gorm:"type:varchar(50);column:post_award_stage"`
	UploadedByID   string          `gorm:"type:varchar(100);column:uploaded_by_id"`
	UploadedByName string          `gorm:"type:varchar(200);column:uploaded_by_name"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeAssignment       NotificationType = "tender_assigned"
	NotificationTypeDeadline         NotificationType = "deadline_approaching"
	NotificationTypeStatusChanged    NotificationType = "tender_status_changed"
	NotificationTypeFinanceAction    NotificationType = "finance_action_required"
	NotificationTypeInstrumentExpiry NotificationType = "instrument_expiring"
)

// Notification represents a user notification
type Notification struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Message    string    `gorm:"type:varchar(500);not null"`
	Read       bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// AuditAction represents the type of audit action
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionExport AuditAction = "export"
)

// AuditLog represents an audit trail entry for mutating API calls
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	UserID      string      `gorm:"type:varchar(100);column:user_id"`
	UserEmail   string      `gorm:"type:varchar(255);column:user_email"`
	UserName    string      `gorm:"type:varchar(200);column:user_name"`
	Action      AuditAction `gorm:"type:varchar(50);not null"`
	EntityType  string      `gorm:"type:varchar(50);not null;column:entity_type"`
	EntityID    *uuid.UUID  `gorm:"type:uuid;column:entity_id"`
	Method      string      `gorm:"type:varchar(10)"`
	Path        string      `gorm:"type:varchar(300)"`
	StatusCode  int         `gorm:"column:status_code"`
	IPAddress   string      `gorm:"type:varchar(50);column:ip_address"`
	RequestID   string      `gorm:"type:varchar(100);column:request_id"`
	PerformedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;column:performed_at"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
