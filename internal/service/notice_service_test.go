package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/files"
	"github.com/spec-kit/campus-resource-service/internal/observability"
)

type fakeNoticeRepo struct {
	seq   int
	items map[string]*domain.Notice
}

func newFakeNoticeRepo() *fakeNoticeRepo {
	return &fakeNoticeRepo{items: make(map[string]*domain.Notice)}
}

func (r *fakeNoticeRepo) Create(_ context.Context, notice *domain.Notice) error {
	r.seq++
	notice.ID = fmt.Sprintf("notice-%d", r.seq)
	notice.CreatedAt = time.Now()
	clone := *notice
	r.items[notice.ID] = &clone
	return nil
}

func (r *fakeNoticeRepo) GetByID(_ context.Context, id string) (*domain.Notice, error) {
	notice, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *notice
	return &clone, nil
}

func (r *fakeNoticeRepo) ListForCohort(_ context.Context, cohort domain.Cohort, _, _ int) ([]domain.Notice, error) {
	var result []domain.Notice
	now := time.Now()
	for _, notice := range r.items {
		if notice.Expired(now) {
			continue
		}
		for _, c := range notice.Audience {
			if c == cohort {
				result = append(result, *notice)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeNoticeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type noticeFixture struct {
	svc       *NoticeService
	notices   *fakeNoticeRepo
	notifRepo *fakeNotificationRepo
	store     *files.MemoryStore
	faculty   *domain.User
}

func newNoticeFixture(t *testing.T) *noticeFixture {
	t.Helper()

	faculty := &domain.User{ID: "fac-1", Role: domain.RoleFaculty, IsActive: true}
	students := map[string]*domain.User{
		"stu-1": {ID: "stu-1", Role: domain.RoleStudent, IsActive: true, CourseID: strPtr("course-1"), Semester: intPtr(3)},
		"stu-2": {ID: "stu-2", Role: domain.RoleStudent, IsActive: true, CourseID: strPtr("course-1"), Semester: intPtr(5)},
		"stu-3": {ID: "stu-3", Role: domain.RoleStudent, IsActive: false, CourseID: strPtr("course-1"), Semester: intPtr(3)},
	}
	users := &fakeUserRepo{users: students}
	notices := newFakeNoticeRepo()
	notifRepo := &fakeNotificationRepo{}
	notifications := NewNotificationService(notifRepo, &fakePusher{}, observability.NewMetrics(), zap.NewNop())
	store := files.NewMemoryStore()

	svc := NewNoticeService(notices, users, notifications, store, zap.NewNop())
	return &noticeFixture{svc: svc, notices: notices, notifRepo: notifRepo, store: store, faculty: faculty}
}

func TestCreateNoticeFansOutPerCohortWithoutDuplicates(t *testing.T) {
	f := newNoticeFixture(t)

	notice, err := f.svc.Create(context.Background(), f.faculty, CreateNoticeInput{
		Title:     "Exam schedule",
		Content:   "Finals start May 12",
		Priority:  domain.NoticePriorityHigh,
		ExpiresAt: time.Now().Add(72 * time.Hour),
		Audience: []domain.Cohort{
			{CourseID: "course-1", Semester: 3},
			{CourseID: "course-1", Semester: 5},
			{CourseID: "course-1", Semester: 3}, // duplicate cohort must not double-notify
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, notice.ID)

	// active students of both cohorts, once each; inactive stu-3 excluded
	require.Len(t, f.notifRepo.stored, 2)
	recipients := map[string]bool{}
	for _, n := range f.notifRepo.stored {
		recipients[n.RecipientID] = true
		assert.Equal(t, domain.NotificationNotice, n.Category)
	}
	assert.True(t, recipients["stu-1"])
	assert.True(t, recipients["stu-2"])
}

func TestCreateNoticeValidation(t *testing.T) {
	f := newNoticeFixture(t)

	_, err := f.svc.Create(context.Background(), f.faculty, CreateNoticeInput{
		Title:     "No audience",
		Content:   "x",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)

	_, err = f.svc.Create(context.Background(), f.faculty, CreateNoticeInput{
		Title:     "Already expired",
		Content:   "x",
		ExpiresAt: time.Now().Add(-time.Hour),
		Audience:  []domain.Cohort{{CourseID: "course-1", Semester: 3}},
	})
	require.Error(t, err)
}

func TestDeleteNoticeRemovesAttachmentAndChecksOwnership(t *testing.T) {
	f := newNoticeFixture(t)

	notice, err := f.svc.Create(context.Background(), f.faculty, CreateNoticeInput{
		Title:          "Holiday",
		Content:        "Campus closed Friday",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		Audience:       []domain.Cohort{{CourseID: "course-1", Semester: 3}},
		AttachmentName: "circular.pdf",
		Attachment:     strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	require.NotNil(t, notice.AttachmentFileID)

	other := &domain.User{ID: "fac-2", Role: domain.RoleFaculty}
	err = f.svc.Delete(context.Background(), other, notice.ID)
	require.Error(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.faculty, notice.ID))
	assert.Contains(t, f.store.Deleted, *notice.AttachmentFileID)
}
