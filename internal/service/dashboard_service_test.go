package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

type dashboardFixture struct {
	svc         *DashboardService
	resources   *fakeResourceRepo
	submissions *fakeSubmissionRepo
	notices     *fakeNoticeRepo
	faculty     *domain.User
	student     *domain.User
	second      *domain.User
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()

	faculty := &domain.User{
		ID: "fac-1", Name: "Dr. Rao", Role: domain.RoleFaculty, IsActive: true,
		FacultyCode: strPtr("F-100"),
	}
	student := &domain.User{
		ID: "stu-1", Name: "Asha", Role: domain.RoleStudent, IsActive: true,
		RollNumber: strPtr("21CS042"), CourseID: strPtr("course-1"), Semester: intPtr(3),
	}
	second := &domain.User{
		ID: "stu-2", Name: "Bala", Role: domain.RoleStudent, IsActive: true,
		RollNumber: strPtr("21CS043"), CourseID: strPtr("course-1"), Semester: intPtr(3),
	}

	resources := newFakeResourceRepo()
	submissions := newFakeSubmissionRepo()
	subjects := &fakeSubjectRepo{items: map[string]*domain.Subject{
		"subj-1": {ID: "subj-1", Name: "Algorithms", Code: "CS301", FacultyID: strPtr("fac-1"), CourseID: strPtr("course-1"), Semester: 3},
		"subj-2": {ID: "subj-2", Name: "Databases", Code: "CS302", FacultyID: strPtr("fac-other"), CourseID: strPtr("course-1"), Semester: 3},
	}}
	users := &fakeUserRepo{users: map[string]*domain.User{
		faculty.ID: faculty,
		student.ID: student,
		second.ID:  second,
	}}
	notices := newFakeNoticeRepo()

	svc := NewDashboardService(resources, submissions, subjects, users, notices)
	return &dashboardFixture{
		svc:         svc,
		resources:   resources,
		submissions: submissions,
		notices:     notices,
		faculty:     faculty,
		student:     student,
		second:      second,
	}
}

func (f *dashboardFixture) seedResource(t *testing.T, title string, resourceType domain.ResourceType, subjectID, uploadedBy string, due *time.Time) *domain.Resource {
	t.Helper()
	resource := &domain.Resource{
		Title:      title,
		Type:       resourceType,
		SubjectID:  strPtr(subjectID),
		Semester:   3,
		CourseID:   "course-1",
		DueDate:    due,
		UploadedBy: uploadedBy,
	}
	require.NoError(t, f.resources.Create(context.Background(), resource))
	return resource
}

func TestFacultyOverviewAggregatesSubjectsAndStats(t *testing.T) {
	f := newDashboardFixture(t)
	due := time.Now().Add(48 * time.Hour)

	assignment := f.seedResource(t, "Sorting homework", domain.ResourceTypeAssignment, "subj-1", f.faculty.ID, &due)
	f.seedResource(t, "Graph notes", domain.ResourceTypeNotes, "subj-1", f.faculty.ID, nil)
	// another faculty's subject must not leak into the overview
	f.seedResource(t, "SQL notes", domain.ResourceTypeNotes, "subj-2", "fac-other", nil)

	require.NoError(t, f.submissions.Create(context.Background(), &domain.AssignmentSubmission{
		AssignmentID: assignment.ID, StudentID: f.student.ID, FileID: "file-1", SubjectID: strPtr("subj-1"),
	}))

	overview, err := f.svc.FacultyOverview(context.Background(), f.faculty)
	require.NoError(t, err)

	require.Len(t, overview.Subjects, 1)
	assert.Equal(t, "subj-1", overview.Subjects[0].ID)
	assert.Len(t, overview.RecentUploads, 2)
	require.Len(t, overview.OpenAssignments, 1)
	assert.Equal(t, assignment.ID, overview.OpenAssignments[0].Assignment.ID)
	assert.Equal(t, 1, overview.OpenAssignments[0].Submissions)
	assert.Equal(t, UploadStats{Notes: 1, Assignments: 1}, overview.Stats)
}

func TestStudentOverviewExcludesSubmittedAssignments(t *testing.T) {
	f := newDashboardFixture(t)
	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	done := f.seedResource(t, "Sorting homework", domain.ResourceTypeAssignment, "subj-1", f.faculty.ID, &later)
	pending := f.seedResource(t, "Joins homework", domain.ResourceTypeAssignment, "subj-2", "fac-other", &soon)
	f.seedResource(t, "Graph notes", domain.ResourceTypeNotes, "subj-1", f.faculty.ID, nil)

	require.NoError(t, f.submissions.Create(context.Background(), &domain.AssignmentSubmission{
		AssignmentID: done.ID, StudentID: f.student.ID, FileID: "file-1", SubjectID: strPtr("subj-1"),
	}))

	f.notices.items["not-1"] = &domain.Notice{
		ID: "not-1", Title: "Exam schedule", PostedBy: f.faculty.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		Audience:  []domain.Cohort{{CourseID: "course-1", Semester: 3}},
	}

	overview, err := f.svc.StudentOverview(context.Background(), f.student)
	require.NoError(t, err)

	assert.Len(t, overview.Subjects, 2)
	require.Len(t, overview.PendingAssignments, 1)
	assert.Equal(t, pending.ID, overview.PendingAssignments[0].ID)
	require.Len(t, overview.RecentNotices, 1)
	assert.Equal(t, "Exam schedule", overview.RecentNotices[0].Title)
	assert.Len(t, overview.RecentNotes, 1)
	assert.Empty(t, overview.RecentPYQs)
}

func TestStudentOverviewRequiresCohort(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.StudentOverview(context.Background(), &domain.User{ID: "stu-x", Role: domain.RoleStudent})
	require.Error(t, err)
	assert.Equal(t, 403, util.ToDomainError(err).HTTPStatus)
}

func TestSubjectAnalyticsHiddenFromOtherFaculty(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.SubjectAnalytics(context.Background(), f.faculty, "subj-2", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)

	_, err = f.svc.SubjectAnalytics(context.Background(), f.faculty, "missing", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Equal(t, 404, util.ToDomainError(err).HTTPStatus)
}

func TestSubjectAnalyticsComputesSubmissionStats(t *testing.T) {
	f := newDashboardFixture(t)
	due := time.Now().Add(time.Hour)

	assignment := f.seedResource(t, "Sorting homework", domain.ResourceTypeAssignment, "subj-1", f.faculty.ID, &due)
	f.seedResource(t, "Graph notes", domain.ResourceTypeNotes, "subj-1", f.faculty.ID, nil)

	onTime := &domain.AssignmentSubmission{AssignmentID: assignment.ID, StudentID: f.student.ID, FileID: "file-1", SubjectID: strPtr("subj-1")}
	require.NoError(t, f.submissions.Create(context.Background(), onTime))
	late := &domain.AssignmentSubmission{AssignmentID: assignment.ID, StudentID: f.second.ID, FileID: "file-2", SubjectID: strPtr("subj-1")}
	require.NoError(t, f.submissions.Create(context.Background(), late))
	f.submissions.items[late.ID].SubmittedAt = due.Add(30 * time.Minute)

	analytics, err := f.svc.SubjectAnalytics(context.Background(), f.faculty, "subj-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, analytics.Notes)
	assert.Zero(t, analytics.PYQs)
	require.Len(t, analytics.Assignments, 1)
	assert.Equal(t, 2, analytics.Assignments[0].Total)
	assert.Equal(t, 1, analytics.Assignments[0].OnTime)

	// both cohort students submitted the only assignment
	require.Len(t, analytics.Engagement, 2)
	for _, entry := range analytics.Engagement {
		assert.InDelta(t, 100.0, entry.SubmissionRate, 0.001)
	}
}

func TestSubjectAnalyticsEngagementCountsMissingStudents(t *testing.T) {
	f := newDashboardFixture(t)
	due := time.Now().Add(time.Hour)

	assignment := f.seedResource(t, "Sorting homework", domain.ResourceTypeAssignment, "subj-1", f.faculty.ID, &due)
	require.NoError(t, f.submissions.Create(context.Background(), &domain.AssignmentSubmission{
		AssignmentID: assignment.ID, StudentID: f.student.ID, FileID: "file-1", SubjectID: strPtr("subj-1"),
	}))

	analytics, err := f.svc.SubjectAnalytics(context.Background(), f.faculty, "subj-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	require.Len(t, analytics.Engagement, 2)
	rates := map[string]float64{}
	for _, entry := range analytics.Engagement {
		rates[entry.StudentID] = entry.SubmissionRate
	}
	assert.InDelta(t, 100.0, rates[f.student.ID], 0.001)
	assert.InDelta(t, 0.0, rates[f.second.ID], 0.001)
}
