package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/observability"
)

// immediateScheduler runs every job inline, regardless of fire time.
type immediateScheduler struct {
	scheduled int
}

func (s *immediateScheduler) At(_ time.Time, fn func()) {
	s.scheduled++
	fn()
}

func (s *immediateScheduler) Stop() {}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func TestRemindersTargetOnlyPendingStudents(t *testing.T) {
	pending := &domain.User{
		ID: "stu-1", Name: "Asha", Email: "asha@example.edu",
		Role: domain.RoleStudent, IsActive: true,
		CourseID: strPtr("course-1"), Semester: intPtr(3),
	}
	done := &domain.User{
		ID: "stu-2", Name: "Ravi", Email: "ravi@example.edu",
		Role: domain.RoleStudent, IsActive: true,
		CourseID: strPtr("course-1"), Semester: intPtr(3),
	}
	users := &fakeUserRepo{users: map[string]*domain.User{
		pending.ID: pending,
		done.ID:    done,
	}}

	submissions := newFakeSubmissionRepo()
	require.NoError(t, submissions.Create(context.Background(), &domain.AssignmentSubmission{
		AssignmentID: "asg-1",
		StudentID:    done.ID,
		FileID:       "f-1",
	}))

	notifRepo := &fakeNotificationRepo{}
	notifications := NewNotificationService(notifRepo, &fakePusher{}, observability.NewMetrics(), zap.NewNop())
	mailer := &recordingMailer{}
	sched := &immediateScheduler{}

	svc := NewReminderService(users, submissions, notifications, mailer, sched, zap.NewNop())

	due := time.Now().Add(48 * time.Hour)
	svc.ScheduleAssignmentReminders(domain.Resource{
		ID:       "asg-1",
		Title:    "Sorting homework",
		Type:     domain.ResourceTypeAssignment,
		CourseID: "course-1",
		Semester: 3,
		DueDate:  &due,
	})

	assert.Equal(t, 2, sched.scheduled, "one job per reminder offset")
	// two firings, each targeting only the pending student
	assert.Len(t, notifRepo.stored, 2)
	for _, n := range notifRepo.stored {
		assert.Equal(t, pending.ID, n.RecipientID)
		assert.Equal(t, domain.NotificationAssignment, n.Category)
	}
	assert.Equal(t, []string{pending.Email, pending.Email}, mailer.sent)
}

func TestRemindersSkipNonAssignments(t *testing.T) {
	sched := &immediateScheduler{}
	svc := NewReminderService(nil, nil, nil, nil, sched, zap.NewNop())

	svc.ScheduleAssignmentReminders(domain.Resource{
		ID:   "res-1",
		Type: domain.ResourceTypeNotes,
	})
	svc.ScheduleAssignmentReminders(domain.Resource{
		ID:   "asg-1",
		Type: domain.ResourceTypeAssignment,
		// no due date
	})

	assert.Zero(t, sched.scheduled)
}
