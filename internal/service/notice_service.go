package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/files"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// CreateNoticeInput carries a new announcement. Attachment is optional.
type CreateNoticeInput struct {
	Title          string
	Content        string
	Priority       domain.NoticePriority
	ExpiresAt      time.Time
	Audience       []domain.Cohort
	AttachmentName string
	Attachment     io.Reader
}

// NoticeService governs announcements and their cohort fan-out.
type NoticeService struct {
	notices       repository.NoticeRepository
	users         repository.UserRepository
	notifications *NotificationService
	store         files.Store
	logger        *zap.Logger
}

// NewNoticeService wires dependencies.
func NewNoticeService(
	notices repository.NoticeRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	store files.Store,
	logger *zap.Logger,
) *NoticeService {
	return &NoticeService{
		notices:       notices,
		users:         users,
		notifications: notifications,
		store:         store,
		logger:        logger,
	}
}

// Create persists the notice with its audience rows, uploads the optional
// attachment and notifies every active student in the addressed cohorts.
func (s *NoticeService) Create(ctx context.Context, author *domain.User, input CreateNoticeInput) (*domain.Notice, error) {
	if len(input.Audience) == 0 {
		return nil, util.NewValidationError("at least one cohort is required", nil)
	}
	if !input.ExpiresAt.After(time.Now()) {
		return nil, util.NewValidationError("expiry must be in the future", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.NoticePriorityNormal
	}

	notice := &domain.Notice{
		Title:     input.Title,
		Content:   input.Content,
		Priority:  input.Priority,
		PostedBy:  author.ID,
		ExpiresAt: input.ExpiresAt,
		Audience:  input.Audience,
	}

	if input.Attachment != nil {
		stored, err := s.store.Upload(ctx, input.AttachmentName, input.Attachment)
		if err != nil {
			return nil, util.NewInternalError(fmt.Errorf("upload attachment: %w", err))
		}
		notice.AttachmentFileID = &stored.FileID
		notice.AttachmentURL = &stored.URL
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		if notice.AttachmentFileID != nil {
			if delErr := s.store.Delete(context.WithoutCancel(ctx), *notice.AttachmentFileID); delErr != nil {
				s.logger.Warn("orphaned attachment cleanup failed", zap.String("file_id", *notice.AttachmentFileID), zap.Error(delErr))
			}
		}
		return nil, util.MapError(err)
	}

	s.notifyAudience(ctx, notice)
	return notice, nil
}

// Get returns one notice by id.
func (s *NoticeService) Get(ctx context.Context, id string) (*domain.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	return notice, nil
}

// ListForUser returns unexpired notices addressed to the caller's cohort.
// Faculty and admins see notices they are cohort-agnostic about through
// the explicit cohort parameters instead.
func (s *NoticeService) ListForUser(ctx context.Context, caller *domain.User, courseID string, semester, limit, offset int) ([]domain.Notice, error) {
	cohort := domain.Cohort{CourseID: courseID, Semester: semester}
	if caller.Role == domain.RoleStudent {
		if caller.CourseID == nil || caller.Semester == nil {
			return nil, util.NewValidationError("student profile has no cohort", nil)
		}
		cohort = domain.Cohort{CourseID: *caller.CourseID, Semester: *caller.Semester}
	} else if cohort.CourseID == "" {
		return nil, util.NewValidationError("course and semester are required", nil)
	}
	result, err := s.notices.ListForCohort(ctx, cohort, limit, offset)
	if err != nil {
		return nil, util.MapError(err)
	}
	return result, nil
}

// Delete removes a notice. Only the author or an admin may delete.
func (s *NoticeService) Delete(ctx context.Context, caller *domain.User, id string) error {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && notice.PostedBy != caller.ID {
		return util.NewForbidden("you can only delete notices you posted")
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	if notice.AttachmentFileID != nil {
		if err := s.store.Delete(ctx, *notice.AttachmentFileID); err != nil {
			s.logger.Warn("attachment removal failed", zap.String("file_id", *notice.AttachmentFileID), zap.Error(err))
		}
	}
	return nil
}

// notifyAudience fans one notification per active student across all
// addressed cohorts. Failures never fail the notice.
func (s *NoticeService) notifyAudience(ctx context.Context, notice *domain.Notice) {
	seen := make(map[string]struct{})
	var inputs []NotificationInput
	for _, cohort := range notice.Audience {
		students, err := s.users.ListStudentsByCohort(ctx, cohort, true)
		if err != nil {
			s.logger.Error("notice cohort lookup failed",
				zap.String("notice_id", notice.ID),
				zap.String("course_id", cohort.CourseID),
				zap.Error(err))
			continue
		}
		for _, student := range students {
			if _, ok := seen[student.ID]; ok {
				continue
			}
			seen[student.ID] = struct{}{}
			inputs = append(inputs, NotificationInput{
				RecipientID:   student.ID,
				RecipientKind: domain.RecipientStudent,
				Title:         "New Notice",
				Message:       fmt.Sprintf("Notice posted: %s", notice.Title),
				Category:      domain.NotificationNotice,
				RelatedID:     &notice.ID,
			})
		}
	}
	if _, err := s.notifications.CreateBatch(ctx, inputs); err != nil {
		s.logger.Error("notice fan-out failed", zap.String("notice_id", notice.ID), zap.Error(err))
	}
}
