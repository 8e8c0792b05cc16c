package mapper

import (
	"time"

	"github.com/tendersuite/tender-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"
const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

// ToTenderDTO converts Tender to TenderDTO
func ToTenderDTO(tender *domain.Tender) domain.TenderDTO {
	dto := domain.TenderDTO{
		ID:                tender.ID,
		Title:             tender.Title,
		ReferenceNumber:   tender.ReferenceNumber,
		Authority:         tender.Authority,
		Department:        tender.Department,
		ItemCategory:      tender.ItemCategory,
		Description:       tender.Description,
		Value:             tender.Value,
		Currency:          tender.Currency,
		Status:            tender.Status,
		WorkflowStage:     tender.WorkflowStage,
		WorkflowStageName: tender.WorkflowStage.Label(),
		StageIndex:        tender.WorkflowStage.Index(),
		Deadline:          formatTimePtr(tender.Deadline),
		OpeningDate:       formatDatePtr(tender.OpeningDate),
		ClientID:          tender.ClientID,
		OEMID:             tender.OEMID,
		ProductID:         tender.ProductID,
		EMD:               toFinancialDetailDTO(tender.EMD),
		PBG:               toFinancialDetailDTO(tender.PBG),
		TenderFee:         toFinancialDetailDTO(tender.TenderFee),
		Cost:              tender.Cost,
		Source:            tender.Source,
		Notes:             tender.Notes,
		LostReason:        tender.LostReason,
		Version:           tender.Version,
		NeedsReassignment: tender.NeedsReassignment(),
		CreatedAt:         formatTime(tender.CreatedAt),
		UpdatedAt:         formatTime(tender.UpdatedAt),
	}

	if tender.Client != nil {
		dto.ClientName = tender.Client.Name
	}
	if tender.OEM != nil {
		dto.OEMName = tender.OEM.Name
	}
	if tender.Product != nil {
		dto.ProductName = tender.Product.Name
	}
	for i := range tender.Assignments {
		dto.Assignments = append(dto.Assignments, ToAssignmentDTO(&tender.Assignments[i]))
	}

	return dto
}

func toFinancialDetailDTO(detail domain.FinancialDetail) domain.FinancialDetailDTO {
	return domain.FinancialDetailDTO{
		Amount:        detail.Amount,
		Mode:          detail.Mode,
		SubmittedDate: formatDatePtr(detail.SubmittedDate),
		ExpiryDate:    formatDatePtr(detail.ExpiryDate),
		Status:        detail.Status,
	}
}

// ToAssignmentDTO converts TenderAssignment to AssignmentDTO
func ToAssignmentDTO(assignment *domain.TenderAssignment) domain.AssignmentDTO {
	dto := domain.AssignmentDTO{
		ID:          assignment.ID,
		TenderID:    assignment.TenderID,
		UserID:      assignment.UserID,
		Status:      assignment.Status,
		Notes:       assignment.Notes,
		RespondedAt: formatTimePtr(assignment.RespondedAt),
		CreatedAt:   formatTime(assignment.CreatedAt),
	}
	if assignment.User != nil {
		dto.UserName = assignment.User.Name
		dto.UserEmail = assignment.User.Email
	}
	return dto
}

// ToChecklistItemDTO converts StageChecklistItem to ChecklistItemDTO
func ToChecklistItemDTO(item *domain.StageChecklistItem) domain.ChecklistItemDTO {
	return domain.ChecklistItemDTO{
		ID:           item.ID,
		TenderID:     item.TenderID,
		Stage:        item.Stage,
		Text:         item.Text,
		Completed:    item.Completed,
		DisplayOrder: item.DisplayOrder,
		Source:       item.Source,
		CreatedAt:    formatTime(item.CreatedAt),
	}
}

// ToStageHistoryDTO converts TenderStageHistory to StageHistoryDTO
func ToStageHistoryDTO(history *domain.TenderStageHistory) domain.StageHistoryDTO {
	dto := domain.StageHistoryDTO{
		ID:            history.ID,
		TenderID:      history.TenderID,
		FromStage:     history.FromStage,
		ToStage:       history.ToStage,
		ToStageName:   history.ToStage.Label(),
		ChangedByID:   history.ChangedByID,
		ChangedByName: history.ChangedByName,
		Notes:         history.Notes,
		ChangedAt:     formatTime(history.ChangedAt),
	}
	if history.FromStage != nil {
		dto.FromStageName = history.FromStage.Label()
	}
	return dto
}

// ToHistoryEntryDTO converts HistoryEntry to HistoryEntryDTO
func ToHistoryEntryDTO(entry *domain.HistoryEntry) domain.HistoryEntryDTO {
	return domain.HistoryEntryDTO{
		ID:         entry.ID,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Action:     entry.Action,
		Details:    entry.Details,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		OccurredAt: formatTime(entry.OccurredAt),
	}
}

// ToPostAwardProgressDTO converts PostAwardProgress to PostAwardProgressDTO
func ToPostAwardProgressDTO(progress *domain.PostAwardProgress, documents []domain.File) domain.PostAwardProgressDTO {
	dto := domain.PostAwardProgressDTO{
		Stage:     progress.Stage,
		StageName: progress.Stage.Label(),
		Status:    progress.Status,
		Notes:     progress.Notes,
		UpdatedAt: formatTime(progress.UpdatedAt),
	}
	for i := range documents {
		dto.Documents = append(dto.Documents, ToFileDTO(&documents[i]))
	}
	return dto
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	dto := domain.ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		GSTIN:     client.GSTIN,
		Industry:  client.Industry,
		Category:  client.Category,
		Status:    client.Status,
		Address:   client.Address,
		City:      client.City,
		Notes:     client.Notes,
		CreatedAt: formatTime(client.CreatedAt),
		UpdatedAt: formatTime(client.UpdatedAt),
	}
	for i := range client.Contacts {
		dto.Contacts = append(dto.Contacts, ToContactDTO(&client.Contacts[i]))
	}
	return dto
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:        contact.ID,
		ClientID:  contact.ClientID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Title:     contact.Title,
		IsPrimary: contact.IsPrimary,
		CreatedAt: formatTime(contact.CreatedAt),
	}
}

// ToInteractionDTO converts Interaction to InteractionDTO
func ToInteractionDTO(interaction *domain.Interaction) domain.InteractionDTO {
	return domain.InteractionDTO{
		ID:         interaction.ID,
		ClientID:   interaction.ClientID,
		Type:       interaction.Type,
		Summary:    interaction.Summary,
		OccurredAt: formatTime(interaction.OccurredAt),
		UserID:     interaction.UserID,
		UserName:   interaction.UserName,
	}
}

// ToFinancialRequestDTO converts FinancialRequest to FinancialRequestDTO
func ToFinancialRequestDTO(request *domain.FinancialRequest) domain.FinancialRequestDTO {
	dto := domain.FinancialRequestDTO{
		ID:              request.ID,
		TenderID:        request.TenderID,
		TenderTitle:     request.TenderTitle,
		Type:            request.Type,
		Amount:          request.Amount,
		Currency:        request.Currency,
		Status:          request.Status,
		RequestedByID:   request.RequestedByID,
		RequestedByName: request.RequestedByName,
		DeclineReason:   request.DeclineReason,
		InstrumentMode:  request.InstrumentMode,
		BankName:        request.BankName,
		InstrumentRef:   request.InstrumentRef,
		ExpiryDate:      formatDatePtr(request.ExpiryDate),
		ApprovedAt:      formatTimePtr(request.ApprovedAt),
		ProcessedAt:     formatTimePtr(request.ProcessedAt),
		ClosedAt:        formatTimePtr(request.ClosedAt),
		Notes:           request.Notes,
		CreatedAt:       formatTime(request.CreatedAt),
		UpdatedAt:       formatTime(request.UpdatedAt),
	}
	if dto.TenderTitle == "" && request.Tender != nil {
		dto.TenderTitle = request.Tender.Title
	}
	return dto
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Department:  user.Department,
		Designation: user.Designation,
		IsActive:    user.IsActive,
		LastLoginAt: formatTimePtr(user.LastLoginAt),
		CreatedAt:   formatTime(user.CreatedAt),
	}
}

// ToOEMDTO converts OEM to OEMDTO
func ToOEMDTO(oem *domain.OEM) domain.OEMDTO {
	return domain.OEMDTO{
		ID:            oem.ID,
		Name:          oem.Name,
		ContactPerson: oem.ContactPerson,
		Email:         oem.Email,
		Phone:         oem.Phone,
		ProductLines:  oem.ProductLines,
		Notes:         oem.Notes,
		CreatedAt:     formatTime(oem.CreatedAt),
	}
}

// ToProductDTO converts Product to ProductDTO
func ToProductDTO(product *domain.Product) domain.ProductDTO {
	dto := domain.ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		OEMID:       product.OEMID,
		Category:    product.Category,
		UnitPrice:   product.UnitPrice,
		Description: product.Description,
		CreatedAt:   formatTime(product.CreatedAt),
	}
	if product.OEM != nil {
		dto.OEMName = product.OEM.Name
	}
	return dto
}

// ToLookupDTO converts a lookup row to LookupDTO
func ToDepartmentDTO(department *domain.Department) domain.LookupDTO {
	return domain.LookupDTO{ID: department.ID, Name: department.Name}
}

func ToDesignationDTO(designation *domain.Designation) domain.LookupDTO {
	return domain.LookupDTO{ID: designation.ID, Name: designation.Name}
}

// ToDocumentTemplateDTO converts DocumentTemplate to DocumentTemplateDTO
func ToDocumentTemplateDTO(template *domain.DocumentTemplate) domain.DocumentTemplateDTO {
	return domain.DocumentTemplateDTO{
		ID:        template.ID,
		Name:      template.Name,
		Kind:      template.Kind,
		Content:   template.Content,
		CreatedAt: formatTime(template.CreatedAt),
	}
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:             file.ID,
		Filename:       file.Filename,
		ContentType:    file.ContentType,
		Size:           file.Size,
		TenderID:       file.TenderID,
		PostAwardStage: file.PostAwardStage,
		UploadedByName: file.UploadedByName,
		CreatedAt:      formatTime(file.CreatedAt),
	}
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         notification.ID,
		Type:       notification.Type,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		ReadAt:     formatTimePtr(notification.ReadAt),
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
		CreatedAt:  formatTime(notification.CreatedAt),
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(entry *domain.AuditLog) domain.AuditLogDTO {
	return domain.AuditLogDTO{
		ID:          entry.ID,
		UserID:      entry.UserID,
		UserEmail:   entry.UserEmail,
		UserName:    entry.UserName,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Method:      entry.Method,
		Path:        entry.Path,
		StatusCode:  entry.StatusCode,
		IPAddress:   entry.IPAddress,
		PerformedAt: formatTime(entry.PerformedAt),
	}
}
