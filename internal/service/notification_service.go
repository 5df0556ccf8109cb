package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/observability"
	"github.com/spec-kit/campus-resource-service/internal/realtime"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

// Pusher is the live delivery surface the service needs; *realtime.Registry
// satisfies it.
type Pusher interface {
	Push(userID string, event realtime.Event) bool
}

// NotificationInput describes a notification to create.
type NotificationInput struct {
	RecipientID   string
	RecipientKind domain.RecipientKind
	Title         string
	Message       string
	Category      domain.NotificationCategory
	RelatedID     *string
}

// Pagination describes a page of results.
type Pagination struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// NotificationService persists notifications and attempts a best-effort
// live push. The persisted record is the source of truth; a failed or
// missed push is never an error and is never retried.
type NotificationService struct {
	repo    repository.NotificationRepository
	pusher  Pusher
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNotificationService builds the service.
func NewNotificationService(repo repository.NotificationRepository, pusher Pusher, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, metrics: metrics, logger: logger}
}

// Create persists one notification, then pushes it to the recipient if a
// live connection is registered. There is no rollback on push failure.
func (s *NotificationService) Create(ctx context.Context, input NotificationInput) (*domain.Notification, error) {
	notification := &domain.Notification{
		RecipientID:   input.RecipientID,
		RecipientKind: input.RecipientKind,
		Title:         input.Title,
		Message:       input.Message,
		Category:      input.Category,
		RelatedID:     input.RelatedID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.push(*notification)
	return notification, nil
}

// CreateBatch persists all notifications in one batched insert, then pushes
// to each recipient that is online. Used by cohort fan-outs so a large
// cohort costs one store round-trip instead of n sequential writes.
func (s *NotificationService) CreateBatch(ctx context.Context, inputs []NotificationInput) ([]domain.Notification, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	notifications := make([]domain.Notification, len(inputs))
	for i, input := range inputs {
		notifications[i] = domain.Notification{
			RecipientID:   input.RecipientID,
			RecipientKind: input.RecipientKind,
			Title:         input.Title,
			Message:       input.Message,
			Category:      input.Category,
			RelatedID:     input.RelatedID,
		}
	}

	stored, err := s.repo.CreateBatch(ctx, notifications)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, n := range stored {
		s.push(n)
	}
	return stored, nil
}

// List returns a page of the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string, kind domain.RecipientKind, page, limit int) ([]domain.Notification, *Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	notifications, total, err := s.repo.ListByRecipient(ctx, recipientID, kind, limit, offset)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	totalPages := (total + limit - 1) / limit
	return notifications, &Pagination{
		Current: page,
		Total:   totalPages,
		HasMore: offset+len(notifications) < total,
	}, nil
}

// MarkRead flips the read flag on one notification owned by the recipient.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

// MarkAllRead flips every unread notification for the recipient + kind pair.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string, kind domain.RecipientKind) error {
	if err := s.repo.MarkAllRead(ctx, recipientID, kind); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes a notification owned by the recipient.
func (s *NotificationService) Delete(ctx context.Context, id, recipientID string) error {
	if err := s.repo.Delete(ctx, id, recipientID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *NotificationService) push(n domain.Notification) {
	if s.pusher == nil {
		return
	}
	delivered := s.pusher.Push(n.RecipientID, realtime.Event{
		Type: realtime.EventNewNotification,
		Data: n,
	})
	s.metrics.RecordPush(delivered)
	if !delivered {
		s.logger.Debug("recipient offline; notification persisted only",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
		)
	}
}
