package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/logger"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
)

// InstrumentExpiryJobName is the name of the instrument expiry job
const InstrumentExpiryJobName = "instrument_expiry"

// expiryLookahead is how far ahead the scan looks for expiring instruments
const expiryLookahead = 30 * 24 * time.Hour

// InstrumentExpiryJob scans processed EMD and PBG instruments approaching
// their expiry date and notifies the requester so funds get recovered.
type InstrumentExpiryJob struct {
	financialRepo    *repository.FinancialRequestRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
	timeout          time.Duration
}

// NewInstrumentExpiryJob creates a new instrument expiry job.
func NewInstrumentExpiryJob(
	financialRepo *repository.FinancialRequestRepository,
	notificationRepo *repository.NotificationRepository,
	log *zap.Logger,
	timeout time.Duration,
) *InstrumentExpiryJob {
	return &InstrumentExpiryJob{
		financialRepo:    financialRepo,
		notificationRepo: notificationRepo,
		logger:           logger.ForJob(log, InstrumentExpiryJobName),
		timeout:          timeout,
	}
}

// Run executes the expiry scan.
func (j *InstrumentExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	cutoff := now.Add(expiryLookahead)

	requests, err := j.financialRepo.GetExpiringInstruments(ctx, now, cutoff)
	if err != nil {
		j.logger.Error("instrument expiry scan failed", zap.Error(err))
		return
	}

	var sent int
	for i := range requests {
		if j.notify(ctx, &requests[i], now) {
			sent++
		}
	}

	j.logger.Info("instrument expiry run finished",
		zap.Int("instruments_in_window", len(requests)),
		zap.Int("notifications_sent", sent))
}

func (j *InstrumentExpiryJob) notify(ctx context.Context, request *domain.FinancialRequest, now time.Time) bool {
	if request.ExpiryDate == nil {
		return false
	}

	userID, err := uuid.Parse(request.RequestedByID)
	if err != nil {
		return false
	}

	exists, err := j.notificationRepo.ExistsRecent(ctx, userID,
		string(domain.NotificationTypeInstrumentExpiry), request.ID, dedupeWindow)
	if err != nil {
		j.logger.Warn("expiry dedupe check failed",
			zap.String("request_id", request.ID.String()), zap.Error(err))
		return false
	}
	if exists {
		return false
	}

	days := int(request.ExpiryDate.Sub(now).Hours() / 24)
	requestID := request.ID
	notification := &domain.Notification{
		UserID: userID,
		Type:   string(domain.NotificationTypeInstrumentExpiry),
		Title:  "Instrument expiring",
		Message: fmt.Sprintf("%s of %.2f %s for %s expires in %d days",
			strings.ToUpper(string(request.Type)), request.Amount, request.Currency, request.TenderTitle, days),
		EntityID:   &requestID,
		EntityType: "FinancialRequest",
	}
	if err := j.notificationRepo.Create(ctx, notification); err != nil {
		j.logger.Warn("failed to create expiry notification",
			zap.String("request_id", request.ID.String()), zap.Error(err))
		return false
	}

	return true
}
