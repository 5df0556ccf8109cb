package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/cache"
	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/observability"
)

type fakeCourseRepo struct {
	items map[string]*domain.Course
}

func (r *fakeCourseRepo) Create(_ context.Context, course *domain.Course) error {
	course.ID = fmt.Sprintf("course-%d", len(r.items)+1)
	r.items[course.ID] = course
	return nil
}
func (r *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error { return nil }
func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	course, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return course, nil
}
func (r *fakeCourseRepo) GetByCode(_ context.Context, code string) (*domain.Course, error) {
	for _, course := range r.items {
		if course.Code == code {
			return course, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (r *fakeCourseRepo) List(_ context.Context) ([]domain.Course, error) { return nil, nil }
func (r *fakeCourseRepo) Delete(_ context.Context, id string) error      { return nil }

type fakeSemesterRepo struct{}

func (r *fakeSemesterRepo) Create(_ context.Context, semester *domain.Semester) error { return nil }
func (r *fakeSemesterRepo) Update(_ context.Context, semester *domain.Semester) error { return nil }
func (r *fakeSemesterRepo) GetByID(_ context.Context, id string) (*domain.Semester, error) {
	return nil, pgx.ErrNoRows
}
func (r *fakeSemesterRepo) List(_ context.Context) ([]domain.Semester, error) { return nil, nil }
func (r *fakeSemesterRepo) Delete(_ context.Context, id string) error         { return nil }

func newCatalogFixture(notifRepo *fakeNotificationRepo) (*CatalogService, *fakeSubjectRepo) {
	subjects := &fakeSubjectRepo{items: map[string]*domain.Subject{}}
	users := &fakeUserRepo{users: map[string]*domain.User{
		"fac-1": {ID: "fac-1", Name: "Dr. Rao", Role: domain.RoleFaculty, IsActive: true, FacultyCode: strPtr("F-100")},
	}}
	notifications := NewNotificationService(notifRepo, &fakePusher{online: map[string]bool{}}, observability.NewMetrics(), zap.NewNop())
	svc := NewCatalogService(
		&fakeCourseRepo{items: map[string]*domain.Course{}},
		&fakeSemesterRepo{},
		subjects,
		users,
		notifications,
		cache.New(nil, zap.NewNop(), time.Minute),
		zap.NewNop(),
	)
	return svc, subjects
}

func TestCreateSubjectNotifiesAssignedFaculty(t *testing.T) {
	notifRepo := &fakeNotificationRepo{}
	svc, _ := newCatalogFixture(notifRepo)

	subject := &domain.Subject{Name: "Algorithms", Code: "CS301", FacultyID: strPtr("fac-1"), CourseID: strPtr("course-1"), Semester: 3}
	require.NoError(t, svc.CreateSubject(context.Background(), subject))

	require.Len(t, notifRepo.stored, 1)
	assert.Equal(t, "fac-1", notifRepo.stored[0].RecipientID)
	assert.Equal(t, domain.RecipientFaculty, notifRepo.stored[0].RecipientKind)
}

func TestCreateSubjectSucceedsWhenNotificationFails(t *testing.T) {
	notifRepo := &fakeNotificationRepo{createErr: fmt.Errorf("store down")}
	svc, _ := newCatalogFixture(notifRepo)

	subject := &domain.Subject{Name: "Databases", Code: "CS302", FacultyID: strPtr("fac-1"), CourseID: strPtr("course-1"), Semester: 3}
	err := svc.CreateSubject(context.Background(), subject)

	require.NoError(t, err, "a failed faculty alert must not fail subject creation")
	assert.Empty(t, notifRepo.stored)
}
