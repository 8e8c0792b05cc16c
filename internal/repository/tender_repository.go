package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenderFilters contains all filter options for listing tenders
type TenderFilters struct {
	Status         *domain.TenderStatus
	Stage          *domain.WorkflowStage
	ClientID       *uuid.UUID
	OEMID          *uuid.UUID
	ItemCategory   *string
	AssigneeID     *uuid.UUID
	MinValue       *float64
	MaxValue       *float64
	DeadlineAfter  *time.Time
	DeadlineBefore *time.Time
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	SearchQuery    *string
}

// TenderSortOption represents available sort options
type TenderSortOption string

const (
	TenderSortByCreatedDesc  TenderSortOption = "created_desc"
	TenderSortByCreatedAsc   TenderSortOption = "created_asc"
	TenderSortByDeadlineAsc  TenderSortOption = "deadline_asc"
	TenderSortByDeadlineDesc TenderSortOption = "deadline_desc"
	TenderSortByValueDesc    TenderSortOption = "value_desc"
	TenderSortByValueAsc     TenderSortOption = "value_asc"
)

// openStatuses are statuses still in play; closed and archived tenders
// drop out of pipeline and deadline queries.
var openStatuses = []domain.TenderStatus{
	domain.TenderStatusDrafting,
	domain.TenderStatusSubmitted,
	domain.TenderStatusUnderReview,
}

type TenderRepository struct {
	db *gorm.DB
}

func NewTenderRepository(db *gorm.DB) *TenderRepository {
	return &TenderRepository{db: db}
}

func (r *TenderRepository) Create(ctx context.Context, tender *domain.Tender) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tender).Error
}

func (r *TenderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tender, error) {
	var tender domain.Tender
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("OEM").
		Preload("Product").
		Preload("Assignments").
		Preload("Assignments.User").
		Where("id = ?", id).
		First(&tender).Error
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

func (r *TenderRepository) GetByReference(ctx context.Context, ref string) (*domain.Tender, error) {
	var tender domain.Tender
	err := r.db.WithContext(ctx).Where("reference_number = ?", ref).First(&tender).Error
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

// UpdateVersioned saves the tender only if the stored version still matches
// expectedVersion, bumping the version in the same statement. Returns
// gorm.ErrRecordNotFound when the row was modified concurrently.
func (r *TenderRepository) UpdateVersioned(ctx context.Context, tender *domain.Tender, expectedVersion int) error {
	tender.Version = expectedVersion + 1
	result := r.db.WithContext(ctx).
		Model(&domain.Tender{}).
		Where("id = ? AND version = ?", tender.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(tender)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TenderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Tender{}, "id = ?", id).Error
}

func (r *TenderRepository) List(ctx context.Context, page, pageSize int, filters *TenderFilters, sortBy TenderSortOption) ([]domain.Tender, int64, error) {
	var tenders []domain.Tender
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Preload("Client").
		Preload("Assignments").
		Preload("Assignments.User")

	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applySorting(query, sortBy)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&tenders).Error

	return tenders, total, err
}

// ListAll returns every tender with its client preloaded, for exports
func (r *TenderRepository) ListAll(ctx context.Context) ([]domain.Tender, error) {
	var tenders []domain.Tender
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("created_at ASC").
		Find(&tenders).Error
	return tenders, err
}

// GetByClient returns all tenders for a specific client
func (r *TenderRepository) GetByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Tender, error) {
	var tenders []domain.Tender
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&tenders).Error
	return tenders, err
}

// GetOpenWithDeadlineBefore returns open tenders whose deadline falls
// between now and the cutoff, soonest first
func (r *TenderRepository) GetOpenWithDeadlineBefore(ctx context.Context, now, cutoff time.Time) ([]domain.Tender, error) {
	var tenders []domain.Tender
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("status IN ?", openStatuses).
		Where("deadline IS NOT NULL").
		Where("deadline >= ? AND deadline <= ?", now, cutoff).
		Order("deadline ASC").
		Find(&tenders).Error
	return tenders, err
}

// StageCount holds tender counts per workflow stage
type StageCount struct {
	Stage domain.WorkflowStage
	Count int
}

// CountByStage returns tender counts grouped by workflow stage
func (r *TenderRepository) CountByStage(ctx context.Context) ([]StageCount, error) {
	var results []StageCount
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select("workflow_stage as stage, COUNT(*) as count").
		Group("workflow_stage").
		Scan(&results).Error
	return results, err
}

// StatusCount holds tender counts and value per status
type StatusCount struct {
	Status domain.TenderStatus
	Count  int
	Value  float64
}

// CountByStatus returns tender counts and total value grouped by status
func (r *TenderRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var results []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(value), 0) as value").
		Group("status").
		Scan(&results).Error
	return results, err
}

// MonthlyOutcome holds won/lost counts for one calendar month
type MonthlyOutcome struct {
	Period string
	Won    int
	Lost   int
}

// GetMonthlyOutcomes returns won/lost counts per month since the given
// time, keyed YYYY-MM on the moment the tender closed: the most recent
// status-change history entry, or the deadline when no entry exists.
// Later edits to a closed tender must not move its bucket, which rules
// out updated_at. Bucketing happens in Go to stay portable across
// postgres and sqlite.
func (r *TenderRepository) GetMonthlyOutcomes(ctx context.Context, since time.Time) ([]MonthlyOutcome, error) {
	type closedRow struct {
		ID       uuid.UUID
		Status   domain.TenderStatus
		Deadline *time.Time
	}
	var tenders []closedRow
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select("id, status, deadline").
		Where("status IN ?", []domain.TenderStatus{domain.TenderStatusWon, domain.TenderStatusLost}).
		Scan(&tenders).Error
	if err != nil {
		return nil, err
	}
	if len(tenders) == 0 {
		return []MonthlyOutcome{}, nil
	}

	ids := make([]uuid.UUID, 0, len(tenders))
	for _, t := range tenders {
		ids = append(ids, t.ID)
	}

	type eventRow struct {
		TargetID   uuid.UUID
		OccurredAt time.Time
	}
	var events []eventRow
	err = r.db.WithContext(ctx).Model(&domain.HistoryEntry{}).
		Select("target_id, occurred_at").
		Where("target_type = ? AND action = ?", domain.HistoryTargetTender, domain.HistoryActionStatusChanged).
		Where("target_id IN ?", ids).
		Order("occurred_at ASC").
		Scan(&events).Error
	if err != nil {
		return nil, err
	}

	// Ascending order, so the last write per tender is its most recent
	// status change.
	closedAt := make(map[uuid.UUID]time.Time, len(events))
	for _, e := range events {
		closedAt[e.TargetID] = e.OccurredAt
	}

	type closing struct {
		status domain.TenderStatus
		at     time.Time
	}
	var closings []closing
	for _, t := range tenders {
		at, ok := closedAt[t.ID]
		if !ok {
			if t.Deadline == nil {
				continue
			}
			at = *t.Deadline
		}
		if at.Before(since) {
			continue
		}
		closings = append(closings, closing{status: t.Status, at: at})
	}
	sort.Slice(closings, func(i, j int) bool { return closings[i].at.Before(closings[j].at) })

	byPeriod := make(map[string]*MonthlyOutcome)
	var order []string
	for _, row := range closings {
		period := row.at.UTC().Format("2006-01")
		outcome, ok := byPeriod[period]
		if !ok {
			outcome = &MonthlyOutcome{Period: period}
			byPeriod[period] = outcome
			order = append(order, period)
		}
		if row.status == domain.TenderStatusWon {
			outcome.Won++
		} else {
			outcome.Lost++
		}
	}

	results := make([]MonthlyOutcome, 0, len(order))
	for _, period := range order {
		results = append(results, *byPeriod[period])
	}
	return results, nil
}

// CategoryOutcome holds closed-tender counts for one item category
type CategoryOutcome struct {
	Category string
	Total    int
	Won      int
}

// GetCategoryOutcomes returns won vs total closed counts per item category
func (r *TenderRepository) GetCategoryOutcomes(ctx context.Context) ([]CategoryOutcome, error) {
	var results []CategoryOutcome
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select(`item_category as category,
			COUNT(*) as total,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as won`, domain.TenderStatusWon).
		Where("status IN ?", []domain.TenderStatus{domain.TenderStatusWon, domain.TenderStatusLost}).
		Where("item_category <> ''").
		Group("item_category").
		Order("total DESC").
		Scan(&results).Error
	return results, err
}

// ClientOutcome holds win/loss counts for one client
type ClientOutcome struct {
	ClientID uuid.UUID
	Won      int
	Lost     int
	Open     int
}

// GetClientOutcomes returns per-client won/lost/open tender counts
func (r *TenderRepository) GetClientOutcomes(ctx context.Context) ([]ClientOutcome, error) {
	var results []ClientOutcome
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select(`client_id,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as won,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as lost,
			SUM(CASE WHEN status NOT IN ? THEN 1 ELSE 0 END) as open`,
			domain.TenderStatusWon, domain.TenderStatusLost,
			[]domain.TenderStatus{domain.TenderStatusWon, domain.TenderStatusLost}).
		Where("client_id IS NOT NULL").
		Group("client_id").
		Scan(&results).Error
	return results, err
}

// GetClientOutcome returns won/lost/open counts for a single client
func (r *TenderRepository) GetClientOutcome(ctx context.Context, clientID uuid.UUID) (*ClientOutcome, error) {
	result := &ClientOutcome{ClientID: clientID}
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Select(`SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as won,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as lost,
			SUM(CASE WHEN status NOT IN ? THEN 1 ELSE 0 END) as open`,
			domain.TenderStatusWon, domain.TenderStatusLost,
			[]domain.TenderStatus{domain.TenderStatusWon, domain.TenderStatusLost}).
		Where("client_id = ?", clientID).
		Scan(result).Error
	return result, err
}

// GetTotalPipelineValue returns the total value of all open tenders
func (r *TenderRepository) GetTotalPipelineValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).
		Where("status IN ?", openStatuses).
		Select("COALESCE(SUM(value), 0)").
		Scan(&total).Error
	return total, err
}

// WithTransaction executes operations within a transaction
func (r *TenderRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// applyFilters applies all filter criteria to the query
func (r *TenderRepository) applyFilters(query *gorm.DB, filters *TenderFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.Stage != nil {
		query = query.Where("workflow_stage = ?", *filters.Stage)
	}

	if filters.ClientID != nil {
		query = query.Where("client_id = ?", *filters.ClientID)
	}

	if filters.OEMID != nil {
		query = query.Where("oem_id = ?", *filters.OEMID)
	}

	if filters.ItemCategory != nil {
		query = query.Where("item_category = ?", *filters.ItemCategory)
	}

	if filters.AssigneeID != nil {
		query = query.Where("id IN (?)", r.db.Model(&domain.TenderAssignment{}).
			Select("tender_id").
			Where("user_id = ?", *filters.AssigneeID))
	}

	if filters.MinValue != nil {
		query = query.Where("value >= ?", *filters.MinValue)
	}

	if filters.MaxValue != nil {
		query = query.Where("value <= ?", *filters.MaxValue)
	}

	if filters.DeadlineAfter != nil {
		query = query.Where("deadline >= ?", *filters.DeadlineAfter)
	}

	if filters.DeadlineBefore != nil {
		query = query.Where("deadline <= ?", *filters.DeadlineBefore)
	}

	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}

	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(reference_number) LIKE ? OR LOWER(authority) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	return query
}

// applySorting applies the sorting option to the query
func (r *TenderRepository) applySorting(query *gorm.DB, sortBy TenderSortOption) *gorm.DB {
	switch sortBy {
	case TenderSortByCreatedAsc:
		return query.Order("created_at ASC")
	case TenderSortByDeadlineAsc:
		return query.Order("deadline ASC NULLS LAST")
	case TenderSortByDeadlineDesc:
		return query.Order("deadline DESC NULLS LAST")
	case TenderSortByValueDesc:
		return query.Order("value DESC")
	case TenderSortByValueAsc:
		return query.Order("value ASC")
	default: // TenderSortByCreatedDesc
		return query.Order("created_at DESC")
	}
}
