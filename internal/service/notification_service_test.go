package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/observability"
	"github.com/spec-kit/campus-resource-service/internal/realtime"
)

type fakeNotificationRepo struct {
	seq       int
	stored    []domain.Notification
	readAll   []string
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	notification.ID = fmt.Sprintf("n-%d", r.seq)
	r.stored = append(r.stored, *notification)
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(_ context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	result := make([]domain.Notification, len(notifications))
	for i, n := range notifications {
		r.seq++
		n.ID = fmt.Sprintf("n-%d", r.seq)
		r.stored = append(r.stored, n)
		result[i] = n
	}
	return result, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, kind domain.RecipientKind, limit, offset int) ([]domain.Notification, int, error) {
	var owned []domain.Notification
	for _, n := range r.stored {
		if n.RecipientID == recipientID && n.RecipientKind == kind {
			owned = append(owned, n)
		}
	}
	total := len(owned)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) (*domain.Notification, error) {
	for i, n := range r.stored {
		if n.ID == id && n.RecipientID == recipientID {
			r.stored[i].Read = true
			return &r.stored[i], nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string, kind domain.RecipientKind) error {
	r.readAll = append(r.readAll, recipientID+"/"+string(kind))
	for i, n := range r.stored {
		if n.RecipientID == recipientID && n.RecipientKind == kind {
			r.stored[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, recipientID string) error {
	for i, n := range r.stored {
		if n.ID == id && n.RecipientID == recipientID {
			r.stored = append(r.stored[:i], r.stored[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("not found")
}

type fakePusher struct {
	online map[string]bool
	pushed []realtime.Event
}

func (p *fakePusher) Push(userID string, event realtime.Event) bool {
	if !p.online[userID] {
		return false
	}
	p.pushed = append(p.pushed, event)
	return true
}

func newNotificationService(repo *fakeNotificationRepo, pusher *fakePusher) *NotificationService {
	return NewNotificationService(repo, pusher, observability.NewMetrics(), zap.NewNop())
}

func TestCreatePersistsAndPushesWhenOnline(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{online: map[string]bool{"student-1": true}}
	svc := newNotificationService(repo, pusher)

	notification, err := svc.Create(context.Background(), NotificationInput{
		RecipientID:   "student-1",
		RecipientKind: domain.RecipientStudent,
		Title:         "New Notes",
		Message:       "Notes uploaded",
		Category:      domain.NotificationNote,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, notification.ID)
	assert.Len(t, repo.stored, 1)
	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, realtime.EventNewNotification, pusher.pushed[0].Type)
}

func TestCreatePersistsWhenRecipientOffline(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{online: map[string]bool{}}
	svc := newNotificationService(repo, pusher)

	_, err := svc.Create(context.Background(), NotificationInput{
		RecipientID:   "student-1",
		RecipientKind: domain.RecipientStudent,
		Title:         "New Notes",
		Message:       "Notes uploaded",
		Category:      domain.NotificationNote,
	})
	require.NoError(t, err)

	assert.Len(t, repo.stored, 1, "missed push must not discard the record")
	assert.Empty(t, pusher.pushed)
}

func TestCreateBatchPushesOnlyToOnlineRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	pusher := &fakePusher{online: map[string]bool{"s-2": true}}
	svc := newNotificationService(repo, pusher)

	inputs := []NotificationInput{
		{RecipientID: "s-1", RecipientKind: domain.RecipientStudent, Title: "t", Message: "m", Category: domain.NotificationAssignment},
		{RecipientID: "s-2", RecipientKind: domain.RecipientStudent, Title: "t", Message: "m", Category: domain.NotificationAssignment},
		{RecipientID: "s-3", RecipientKind: domain.RecipientStudent, Title: "t", Message: "m", Category: domain.NotificationAssignment},
	}
	stored, err := svc.CreateBatch(context.Background(), inputs)
	require.NoError(t, err)

	assert.Len(t, stored, 3)
	assert.Len(t, repo.stored, 3)
	assert.Len(t, pusher.pushed, 1)
}

func TestCreateBatchEmptyInputIsNoop(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newNotificationService(repo, &fakePusher{})

	stored, err := svc.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, repo.stored)
}

func TestListPaginates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newNotificationService(repo, &fakePusher{})

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), NotificationInput{
			RecipientID:   "student-1",
			RecipientKind: domain.RecipientStudent,
			Title:         "t",
			Message:       "m",
			Category:      domain.NotificationNotice,
		})
		require.NoError(t, err)
	}

	page1, pagination, err := svc.List(context.Background(), "student-1", domain.RecipientStudent, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, 1, pagination.Current)
	assert.Equal(t, 3, pagination.Total)
	assert.True(t, pagination.HasMore)

	page3, pagination, err := svc.List(context.Background(), "student-1", domain.RecipientStudent, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.False(t, pagination.HasMore)
}

func TestMarkAllReadScopedToRecipientAndKind(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newNotificationService(repo, &fakePusher{})

	_, err := svc.Create(context.Background(), NotificationInput{
		RecipientID: "u-1", RecipientKind: domain.RecipientStudent, Title: "t", Message: "m", Category: domain.NotificationNote,
	})
	require.NoError(t, err)
	// same id, faculty variant: must stay unread
	_, err = svc.Create(context.Background(), NotificationInput{
		RecipientID: "u-1", RecipientKind: domain.RecipientFaculty, Title: "t", Message: "m", Category: domain.NotificationNote,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkAllRead(context.Background(), "u-1", domain.RecipientStudent))

	assert.True(t, repo.stored[0].Read)
	assert.False(t, repo.stored[1].Read)
}
