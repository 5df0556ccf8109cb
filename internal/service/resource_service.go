package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/files"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

// CreateResourceInput carries a new upload through the service layer.
type CreateResourceInput struct {
	Title     string
	Type      domain.ResourceType
	SubjectID *string
	Semester  int
	CourseID  string
	Year      *int
	DueDate   *time.Time
	FileName  string
	File      io.Reader
}

// SubmitAssignmentInput carries a student's answer upload.
type SubmitAssignmentInput struct {
	AssignmentID string
	StudentID    string
	FileName     string
	File         io.Reader
}

// ResourceService governs the notes/pyq/assignment lifecycle: upload,
// listing, cohort fan-out and the assignment submission flow.
type ResourceService struct {
	resources     repository.ResourceRepository
	submissions   repository.SubmissionRepository
	subjects      repository.SubjectRepository
	users         repository.UserRepository
	notifications *NotificationService
	reminders     *ReminderService
	store         files.Store
	logger        *zap.Logger
}

// NewResourceService wires dependencies.
func NewResourceService(
	resources repository.ResourceRepository,
	submissions repository.SubmissionRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	reminders *ReminderService,
	store files.Store,
	logger *zap.Logger,
) *ResourceService {
	return &ResourceService{
		resources:     resources,
		submissions:   submissions,
		subjects:      subjects,
		users:         users,
		notifications: notifications,
		reminders:     reminders,
		store:         store,
		logger:        logger,
	}
}

// Create uploads the file, persists the record, fans a notification out to
// the cohort and, for assignments, books deadline reminders. The uploader
// must be a faculty member teaching the target subject, or an admin.
func (s *ResourceService) Create(ctx context.Context, uploader *domain.User, input CreateResourceInput) (*domain.Resource, error) {
	if !input.Type.Valid() {
		return nil, util.NewValidationError("unknown resource type", map[string]any{"type": input.Type})
	}
	switch input.Type {
	case domain.ResourceTypePYQ:
		if input.Year == nil {
			return nil, util.NewValidationError("year is required for previous year questions", nil)
		}
	case domain.ResourceTypeAssignment:
		if input.DueDate == nil {
			return nil, util.NewValidationError("due date is required for assignments", nil)
		}
		if input.DueDate.Before(time.Now()) {
			return nil, util.NewValidationError("due date must be in the future", nil)
		}
	}

	if input.SubjectID != nil {
		subject, err := s.subjects.GetByID(ctx, *input.SubjectID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if uploader.Role == domain.RoleFaculty {
			if subject.FacultyID == nil || *subject.FacultyID != uploader.ID {
				return nil, util.NewForbidden("you can only upload resources for subjects you teach")
			}
		}
	} else if uploader.Role == domain.RoleFaculty {
		return nil, util.NewValidationError("subject is required", nil)
	}

	stored, err := s.store.Upload(ctx, input.FileName, input.File)
	if err != nil {
		return nil, util.NewInternalError(fmt.Errorf("upload file: %w", err))
	}

	resource := &domain.Resource{
		Title:      input.Title,
		Type:       input.Type,
		FileID:     stored.FileID,
		FileURL:    stored.URL,
		SubjectID:  input.SubjectID,
		Semester:   input.Semester,
		CourseID:   input.CourseID,
		Year:       input.Year,
		DueDate:    input.DueDate,
		UploadedBy: uploader.ID,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		// keep the store consistent with the database
		if delErr := s.store.Delete(context.WithoutCancel(ctx), stored.FileID); delErr != nil {
			s.logger.Warn("orphaned file cleanup failed", zap.String("file_id", stored.FileID), zap.Error(delErr))
		}
		return nil, util.MapError(err)
	}

	s.notifyCohort(ctx, resource)
	if resource.Type == domain.ResourceTypeAssignment && s.reminders != nil {
		s.reminders.ScheduleAssignmentReminders(*resource)
	}
	return resource, nil
}

// UpdateResourceInput carries the mutable metadata of a resource. Nil
// fields are left unchanged; the stored file is immutable.
type UpdateResourceInput struct {
	Title   *string
	Year    *int
	DueDate *time.Time
}

// Update changes resource metadata. Only the uploader or an admin may do
// so, and an assignment deadline can only move to a future instant.
func (s *ResourceService) Update(ctx context.Context, caller *domain.User, id string, input UpdateResourceInput) (*domain.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && resource.UploadedBy != caller.ID {
		return nil, util.NewForbidden("you can only update resources you uploaded")
	}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, util.NewValidationError("title cannot be empty", nil)
		}
		resource.Title = *input.Title
	}
	if input.Year != nil {
		resource.Year = input.Year
	}
	if input.DueDate != nil {
		if resource.Type != domain.ResourceTypeAssignment {
			return nil, util.NewValidationError("only assignments carry a due date", nil)
		}
		if !input.DueDate.After(time.Now()) {
			return nil, util.NewValidationError("due date must be in the future", nil)
		}
		resource.DueDate = input.DueDate
	}
	if err := s.resources.Update(ctx, resource); err != nil {
		return nil, util.MapError(err)
	}
	return resource, nil
}

// Get returns one resource by id.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	return resource, nil
}

// List applies the caller's filter. Students are pinned to their own
// cohort regardless of the requested filter.
func (s *ResourceService) List(ctx context.Context, caller *domain.User, filter repository.ResourceFilter) ([]domain.Resource, error) {
	if caller.Role == domain.RoleStudent {
		filter.CourseID = caller.CourseID
		filter.Semester = caller.Semester
	}
	result, err := s.resources.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return result, nil
}

// Search matches resource titles case-insensitively, restricted to the
// caller's subjects: the ones a faculty member teaches, or the ones of a
// student's cohort. Admins search everything.
func (s *ResourceService) Search(ctx context.Context, caller *domain.User, query string, filter repository.ResourceFilter) ([]domain.Resource, error) {
	if query == "" {
		return nil, util.NewValidationError("query is required", nil)
	}
	filter.Query = &query

	switch caller.Role {
	case domain.RoleFaculty:
		subjects, err := s.subjects.ListByFaculty(ctx, caller.ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if len(subjects) == 0 {
			return nil, nil
		}
		filter.SubjectIDs = subjectIDs(subjects)
	case domain.RoleStudent:
		if caller.CourseID == nil || caller.Semester == nil {
			return nil, util.NewForbidden("account is not enrolled in a cohort")
		}
		cohort := domain.Cohort{CourseID: *caller.CourseID, Semester: *caller.Semester}
		subjects, err := s.subjects.ListByCohort(ctx, cohort)
		if err != nil {
			return nil, util.MapError(err)
		}
		if len(subjects) == 0 {
			return nil, nil
		}
		filter.SubjectIDs = subjectIDs(subjects)
	}

	result, err := s.resources.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return result, nil
}

func subjectIDs(subjects []domain.Subject) []string {
	ids := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.ID)
	}
	return ids
}

// DownloadLink resolves a short-lived download URL for the stored file.
func (s *ResourceService) DownloadLink(ctx context.Context, id string) (string, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return "", util.MapError(err)
	}
	link, err := s.store.DownloadLink(ctx, resource.FileID)
	if err != nil {
		return "", util.NewInternalError(fmt.Errorf("resolve download link: %w", err))
	}
	return link, nil
}

// Delete removes the record and its stored file. Faculty may delete only
// their own uploads; admins may delete anything.
func (s *ResourceService) Delete(ctx context.Context, caller *domain.User, id string) error {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && resource.UploadedBy != caller.ID {
		return util.NewForbidden("you can only delete resources you uploaded")
	}

	// Submission rows cascade with the assignment; collect their file ids
	// first so the stored files can be cleaned up too.
	var submissions []domain.AssignmentSubmission
	if resource.Type == domain.ResourceTypeAssignment {
		submissions, err = s.submissions.ListByAssignment(ctx, id)
		if err != nil {
			return util.MapError(err)
		}
	}

	if err := s.resources.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	if err := s.store.Delete(ctx, resource.FileID); err != nil {
		s.logger.Warn("stored file removal failed", zap.String("file_id", resource.FileID), zap.Error(err))
	}
	for _, submission := range submissions {
		if err := s.store.Delete(ctx, submission.FileID); err != nil {
			s.logger.Warn("submission file removal failed", zap.String("file_id", submission.FileID), zap.Error(err))
		}
	}
	return nil
}

// SubmitAssignment uploads a student's answer. A resubmission before the
// deadline replaces the previous file and is flagged as modified; the
// first submission notifies the assignment's uploader.
func (s *ResourceService) SubmitAssignment(ctx context.Context, student *domain.User, input SubmitAssignmentInput) (*domain.AssignmentSubmission, error) {
	assignment, err := s.resources.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if assignment.Type != domain.ResourceTypeAssignment {
		return nil, util.NewValidationError("resource is not an assignment", nil)
	}
	if assignment.DeadlinePassed(time.Now()) {
		return nil, util.NewValidationError("assignment deadline has passed", nil)
	}
	if student.CourseID == nil || *student.CourseID != assignment.CourseID ||
		student.Semester == nil || *student.Semester != assignment.Semester {
		return nil, util.NewForbidden("assignment does not belong to your cohort")
	}

	stored, err := s.store.Upload(ctx, input.FileName, input.File)
	if err != nil {
		return nil, util.NewInternalError(fmt.Errorf("upload submission: %w", err))
	}

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, input.AssignmentID, student.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}

	if existing != nil {
		previousFileID := existing.FileID
		existing.FileID = stored.FileID
		existing.FileURL = stored.URL
		existing.Modified = true
		if err := s.submissions.Update(ctx, existing); err != nil {
			return nil, util.MapError(err)
		}
		if err := s.store.Delete(ctx, previousFileID); err != nil {
			s.logger.Warn("previous submission file removal failed", zap.String("file_id", previousFileID), zap.Error(err))
		}
		return existing, nil
	}

	submission := &domain.AssignmentSubmission{
		AssignmentID: input.AssignmentID,
		StudentID:    student.ID,
		FileID:       stored.FileID,
		FileURL:      stored.URL,
		SubjectID:    assignment.SubjectID,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), stored.FileID); delErr != nil {
			s.logger.Warn("orphaned submission cleanup failed", zap.String("file_id", stored.FileID), zap.Error(delErr))
		}
		return nil, util.MapError(err)
	}

	if _, err := s.notifications.Create(ctx, NotificationInput{
		RecipientID:   assignment.UploadedBy,
		RecipientKind: domain.RecipientFaculty,
		Title:         "New Assignment Submission",
		Message:       fmt.Sprintf("%s submitted %q.", student.Name, assignment.Title),
		Category:      domain.NotificationAssignment,
		RelatedID:     &assignment.ID,
	}); err != nil {
		s.logger.Warn("submission notification failed", zap.String("assignment_id", assignment.ID), zap.Error(err))
	}
	return submission, nil
}

// ListSubmissions returns all submissions for an assignment. Only the
// uploader or an admin may inspect them.
func (s *ResourceService) ListSubmissions(ctx context.Context, caller *domain.User, assignmentID string) ([]domain.AssignmentSubmission, error) {
	assignment, err := s.resources.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if caller.Role != domain.RoleAdmin && assignment.UploadedBy != caller.ID {
		return nil, util.NewForbidden("you can only view submissions for your own assignments")
	}
	result, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return result, nil
}

// DeleteSubmission lets a student withdraw their own answer before the
// deadline.
func (s *ResourceService) DeleteSubmission(ctx context.Context, student *domain.User, id string) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return util.MapError(err)
	}
	if submission.StudentID != student.ID {
		return util.NewForbidden("you can only delete your own submission")
	}
	assignment, err := s.resources.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return util.MapError(err)
	}
	if assignment.DeadlinePassed(time.Now()) {
		return util.NewValidationError("assignment deadline has passed", nil)
	}
	if err := s.submissions.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	if err := s.store.Delete(ctx, submission.FileID); err != nil {
		s.logger.Warn("submission file removal failed", zap.String("file_id", submission.FileID), zap.Error(err))
	}
	return nil
}

// notifyCohort fans one notification per active cohort student. Failures
// never fail the upload.
func (s *ResourceService) notifyCohort(ctx context.Context, resource *domain.Resource) {
	cohort := domain.Cohort{CourseID: resource.CourseID, Semester: resource.Semester}
	students, err := s.users.ListStudentsByCohort(ctx, cohort, true)
	if err != nil {
		s.logger.Error("cohort lookup for fan-out failed", zap.String("resource_id", resource.ID), zap.Error(err))
		return
	}

	category := categoryForResource(resource.Type)
	title, message := fanOutText(resource)
	inputs := make([]NotificationInput, 0, len(students))
	for _, student := range students {
		inputs = append(inputs, NotificationInput{
			RecipientID:   student.ID,
			RecipientKind: domain.RecipientStudent,
			Title:         title,
			Message:       message,
			Category:      category,
			RelatedID:     &resource.ID,
		})
	}
	if _, err := s.notifications.CreateBatch(ctx, inputs); err != nil {
		s.logger.Error("cohort fan-out failed", zap.String("resource_id", resource.ID), zap.Error(err))
	}
}

func categoryForResource(t domain.ResourceType) domain.NotificationCategory {
	switch t {
	case domain.ResourceTypePYQ:
		return domain.NotificationPYQ
	case domain.ResourceTypeAssignment:
		return domain.NotificationAssignment
	default:
		return domain.NotificationNote
	}
}

func fanOutText(resource *domain.Resource) (title, message string) {
	switch resource.Type {
	case domain.ResourceTypeAssignment:
		return "New Assignment", fmt.Sprintf("Assignment %q has been posted. Due %s.", resource.Title, resource.DueDate.Format("Jan 2, 2006 15:04"))
	case domain.ResourceTypePYQ:
		return "New Question Paper", fmt.Sprintf("Previous year questions %q (%d) are available.", resource.Title, *resource.Year)
	default:
		return "New Notes", fmt.Sprintf("Notes %q have been uploaded.", resource.Title)
	}
}
