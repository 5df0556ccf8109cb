package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/cache"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

const (
	cacheKeyCourses   = "catalog:courses"
	cacheKeySemesters = "catalog:semesters"
)

// CatalogService manages courses, semesters and subjects. List reads go
// through the cache wrapper; writes invalidate.
type CatalogService struct {
	courses       repository.CourseRepository
	semesters     repository.SemesterRepository
	subjects      repository.SubjectRepository
	users         repository.UserRepository
	notifications *NotificationService
	cache         *cache.Cache
	logger        *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(
	courses repository.CourseRepository,
	semesters repository.SemesterRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	store *cache.Cache,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		courses:       courses,
		semesters:     semesters,
		subjects:      subjects,
		users:         users,
		notifications: notifications,
		cache:         store,
		logger:        logger,
	}
}

// CreateCourse registers a course; duplicate code is a conflict.
func (s *CatalogService) CreateCourse(ctx context.Context, course *domain.Course) error {
	if _, err := s.courses.GetByCode(ctx, course.Code); err == nil {
		return apperrors.NewConflict("course already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeyCourses)
	return nil
}

// GetCourse fetches one course.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("course", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

// ListCourses returns all courses, cached.
func (s *CatalogService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var cached []domain.Course
	if err := s.cache.Get(ctx, cacheKeyCourses, &cached); err == nil {
		return cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, cacheKeyCourses, courses)
	return courses, nil
}

// UpdateCourse stores changed course fields.
func (s *CatalogService) UpdateCourse(ctx context.Context, course *domain.Course) error {
	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("course", nil)
		}
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeyCourses)
	return nil
}

// DeleteCourse removes a course.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("course", nil)
		}
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeyCourses)
	return nil
}

// CreateSemester registers a semester; duplicate name/code is a conflict.
func (s *CatalogService) CreateSemester(ctx context.Context, semester *domain.Semester) error {
	if err := s.semesters.Create(ctx, semester); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeySemesters)
	return nil
}

// GetSemester fetches one semester.
func (s *CatalogService) GetSemester(ctx context.Context, id string) (*domain.Semester, error) {
	semester, err := s.semesters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("semester", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return semester, nil
}

// ListSemesters returns all semesters, cached.
func (s *CatalogService) ListSemesters(ctx context.Context) ([]domain.Semester, error) {
	var cached []domain.Semester
	if err := s.cache.Get(ctx, cacheKeySemesters, &cached); err == nil {
		return cached, nil
	}

	semesters, err := s.semesters.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, cacheKeySemesters, semesters)
	return semesters, nil
}

// UpdateSemester stores changed semester fields.
func (s *CatalogService) UpdateSemester(ctx context.Context, semester *domain.Semester) error {
	if err := s.semesters.Update(ctx, semester); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("semester", nil)
		}
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeySemesters)
	return nil
}

// DeleteSemester removes a semester.
func (s *CatalogService) DeleteSemester(ctx context.Context, id string) error {
	if err := s.semesters.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("semester", nil)
		}
		return apperrors.MapError(err)
	}
	s.cache.Del(ctx, cacheKeySemesters)
	return nil
}

// CreateSubject registers a subject and alerts the assigned faculty member.
func (s *CatalogService) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	if _, err := s.subjects.GetByCode(ctx, subject.Code); err == nil {
		return apperrors.NewConflict("subject already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}

	if subject.FacultyID != nil {
		faculty, err := s.users.GetByID(ctx, *subject.FacultyID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("faculty", nil)
			}
			return apperrors.MapError(err)
		}
		if !faculty.IsFaculty() {
			return apperrors.NewValidationError("subjectFaculty must reference a faculty account", nil)
		}
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		return apperrors.MapError(err)
	}

	if subject.FacultyID != nil {
		if _, err := s.notifications.Create(ctx, NotificationInput{
			RecipientID:   *subject.FacultyID,
			RecipientKind: domain.RecipientFaculty,
			Title:         "New Subject Assigned",
			Message:       fmt.Sprintf("You have been assigned a new subject: %s", subject.Name),
			Category:      domain.NotificationNotice,
			RelatedID:     &subject.ID,
		}); err != nil {
			s.logger.Warn("subject assignment notification failed", zap.String("subject_id", subject.ID), zap.Error(err))
		}
	}
	return nil
}

// GetSubject fetches one subject.
func (s *CatalogService) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subject", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return subject, nil
}

// ListSubjects returns all subjects.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subjects, nil
}

// UpdateSubject stores changed subject fields.
func (s *CatalogService) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	if err := s.subjects.Update(ctx, subject); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("subject", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// DeleteSubject removes a subject.
func (s *CatalogService) DeleteSubject(ctx context.Context, id string) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("subject", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
