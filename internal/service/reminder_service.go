package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/mail"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/internal/scheduler"
)

// reminder offsets before an assignment deadline.
var reminderOffsets = []time.Duration{24 * time.Hour, time.Hour}

// ReminderService schedules deadline reminders for assignments. Jobs are
// process scoped; a restart drops pending reminders.
type ReminderService struct {
	users         repository.UserRepository
	submissions   repository.SubmissionRepository
	notifications *NotificationService
	mailer        mail.Mailer
	sched         scheduler.Scheduler
	logger        *zap.Logger
}

// NewReminderService builds the service.
func NewReminderService(
	users repository.UserRepository,
	submissions repository.SubmissionRepository,
	notifications *NotificationService,
	mailer mail.Mailer,
	sched scheduler.Scheduler,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		users:         users,
		submissions:   submissions,
		notifications: notifications,
		mailer:        mailer,
		sched:         sched,
		logger:        logger,
	}
}

// ScheduleAssignmentReminders books one job per offset before the due
// date. Offsets already in the past are skipped by the scheduler.
func (s *ReminderService) ScheduleAssignmentReminders(assignment domain.Resource) {
	if assignment.Type != domain.ResourceTypeAssignment || assignment.DueDate == nil {
		return
	}
	due := *assignment.DueDate
	for _, offset := range reminderOffsets {
		offset := offset
		s.sched.At(due.Add(-offset), func() {
			s.remind(assignment, offset)
		})
	}
}

// remind alerts cohort students who have not yet submitted. Failures are
// logged only; reminders are best-effort.
func (s *ReminderService) remind(assignment domain.Resource, remaining time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cohort := domain.Cohort{CourseID: assignment.CourseID, Semester: assignment.Semester}
	students, err := s.users.ListStudentsByCohort(ctx, cohort, true)
	if err != nil {
		s.logger.Error("reminder cohort lookup failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return
	}

	submitted, err := s.submissions.SubmittedStudentIDs(ctx, assignment.ID)
	if err != nil {
		s.logger.Error("reminder submission lookup failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return
	}

	var inputs []NotificationInput
	var pending []domain.User
	for _, student := range students {
		if _, ok := submitted[student.ID]; ok {
			continue
		}
		pending = append(pending, student)
		inputs = append(inputs, NotificationInput{
			RecipientID:   student.ID,
			RecipientKind: domain.RecipientStudent,
			Title:         "Assignment Reminder",
			Message:       fmt.Sprintf("Assignment %q is due in %s. Don't forget to submit!", assignment.Title, formatRemaining(remaining)),
			Category:      domain.NotificationAssignment,
			RelatedID:     &assignment.ID,
		})
	}

	if _, err := s.notifications.CreateBatch(ctx, inputs); err != nil {
		s.logger.Error("reminder notifications failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
	}

	for _, student := range pending {
		subject, html := mail.AssignmentReminderHTML(student.Name, assignment.Title, *assignment.DueDate)
		if err := s.mailer.Send(ctx, student.Email, subject, html); err != nil {
			s.logger.Warn("reminder mail failed", zap.String("email", student.Email), zap.Error(err))
		}
	}
}

func formatRemaining(d time.Duration) string {
	if d >= 24*time.Hour {
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
