package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tendersuite/tender-api/internal/domain"
	"github.com/tendersuite/tender-api/internal/logger"
	"github.com/tendersuite/tender-api/internal/repository"
	"go.uber.org/zap"
)

// DeadlineReminderJobName is the name of the deadline reminder job
const DeadlineReminderJobName = "deadline_reminder"

// dedupeWindow suppresses repeat reminders for the same tender and user
// between consecutive runs.
const dedupeWindow = 20 * time.Hour

// DeadlineReminderJob scans open tenders and notifies assignees whose
// submission deadline falls within the next 7 days. Tenders inside the
// 48 hour window get an urgent wording.
type DeadlineReminderJob struct {
	tenderRepo       *repository.TenderRepository
	assignmentRepo   *repository.AssignmentRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
	timeout          time.Duration
}

// NewDeadlineReminderJob creates a new deadline reminder job.
func NewDeadlineReminderJob(
	tenderRepo *repository.TenderRepository,
	assignmentRepo *repository.AssignmentRepository,
	notificationRepo *repository.NotificationRepository,
	log *zap.Logger,
	timeout time.Duration,
) *DeadlineReminderJob {
	return &DeadlineReminderJob{
		tenderRepo:       tenderRepo,
		assignmentRepo:   assignmentRepo,
		notificationRepo: notificationRepo,
		logger:           logger.ForJob(log, DeadlineReminderJobName),
		timeout:          timeout,
	}
}

// Run executes the deadline scan.
func (j *DeadlineReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	cutoff := now.Add(7 * 24 * time.Hour)

	tenders, err := j.tenderRepo.GetOpenWithDeadlineBefore(ctx, now, cutoff)
	if err != nil {
		j.logger.Error("deadline scan failed", zap.Error(err))
		return
	}

	var sent int
	for i := range tenders {
		sent += j.remind(ctx, &tenders[i], now)
	}

	j.logger.Info("deadline reminder run finished",
		zap.Int("tenders_in_window", len(tenders)),
		zap.Int("notifications_sent", sent))
}

func (j *DeadlineReminderJob) remind(ctx context.Context, tender *domain.Tender, now time.Time) int {
	if tender.Deadline == nil {
		return 0
	}
	remaining := tender.Deadline.Sub(now)
	if remaining < 0 {
		return 0
	}

	title := "Tender deadline approaching"
	message := fmt.Sprintf("%s (%s) closes in %d days", tender.Title, tender.ReferenceNumber, int(remaining.Hours()/24)+1)
	if remaining <= 48*time.Hour {
		title = "Tender deadline imminent"
		message = fmt.Sprintf("%s (%s) closes in %d hours", tender.Title, tender.ReferenceNumber, int(remaining.Hours()))
	}

	assignments, err := j.assignmentRepo.GetByTender(ctx, tender.ID)
	if err != nil {
		j.logger.Warn("failed to load assignments for reminder",
			zap.String("tender_id", tender.ID.String()), zap.Error(err))
		return 0
	}

	var sent int
	for _, assignment := range assignments {
		if assignment.Status == domain.AssignmentStatusDeclined {
			continue
		}

		exists, err := j.notificationRepo.ExistsRecent(ctx, assignment.UserID,
			string(domain.NotificationTypeDeadline), tender.ID, dedupeWindow)
		if err != nil {
			j.logger.Warn("reminder dedupe check failed",
				zap.String("tender_id", tender.ID.String()), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		tenderID := tender.ID
		notification := &domain.Notification{
			UserID:     assignment.UserID,
			Type:       string(domain.NotificationTypeDeadline),
			Title:      title,
			Message:    message,
			EntityID:   &tenderID,
			EntityType: "Tender",
		}
		if err := j.notificationRepo.Create(ctx, notification); err != nil {
			j.logger.Warn("failed to create deadline notification",
				zap.String("tender_id", tender.ID.String()),
				zap.String("user_id", assignment.UserID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	return sent
}
