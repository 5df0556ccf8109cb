package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/repository"
	"github.com/spec-kit/campus-resource-service/pkg/util"
)

const (
	dashboardWindow    = 30 * 24 * time.Hour
	dashboardListLimit = 5
	recentUploadLimit  = 3
)

// UploadStats counts a faculty member's uploads per resource type.
type UploadStats struct {
	Notes       int
	PYQs        int
	Assignments int
}

// AssignmentProgress pairs an open assignment with its submission count.
type AssignmentProgress struct {
	Assignment  domain.Resource
	Submissions int
}

// FacultyOverview is the faculty landing-page aggregate.
type FacultyOverview struct {
	Subjects        []domain.Subject
	RecentUploads   []domain.Resource
	OpenAssignments []AssignmentProgress
	Stats           UploadStats
}

// StudentOverview is the student landing-page aggregate.
type StudentOverview struct {
	Subjects           []domain.Subject
	PendingAssignments []domain.Resource
	RecentNotices      []domain.Notice
	RecentNotes        []domain.Resource
	RecentPYQs         []domain.Resource
}

// AssignmentAnalytics summarizes submission behavior for one assignment.
type AssignmentAnalytics struct {
	AssignmentID string
	Title        string
	DueDate      *time.Time
	Total        int
	OnTime       int
}

// StudentEngagement reports one student's submission rate for a subject.
type StudentEngagement struct {
	StudentID      string
	Name           string
	RollNumber     string
	SubmissionRate float64
}

// SubjectAnalytics aggregates a subject's activity inside a time window.
type SubjectAnalytics struct {
	Subject     domain.Subject
	Assignments []AssignmentAnalytics
	Notes       int
	PYQs        int
	Engagement  []StudentEngagement
}

// DashboardService builds the read-model aggregates behind the dashboard
// and analytics endpoints. Everything is computed from the repositories at
// request time; nothing is cached or denormalized.
type DashboardService struct {
	resources   repository.ResourceRepository
	submissions repository.SubmissionRepository
	subjects    repository.SubjectRepository
	users       repository.UserRepository
	notices     repository.NoticeRepository
}

// NewDashboardService wires dependencies.
func NewDashboardService(
	resources repository.ResourceRepository,
	submissions repository.SubmissionRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	notices repository.NoticeRepository,
) *DashboardService {
	return &DashboardService{
		resources:   resources,
		submissions: submissions,
		subjects:    subjects,
		users:       users,
		notices:     notices,
	}
}

// FacultyOverview returns the subjects a faculty member teaches, their
// uploads of the last thirty days, open assignments with submission counts
// and lifetime upload totals.
func (s *DashboardService) FacultyOverview(ctx context.Context, faculty *domain.User) (*FacultyOverview, error) {
	subjects, err := s.subjects.ListByFaculty(ctx, faculty.ID)
	if err != nil {
		return nil, util.MapError(err)
	}

	overview := &FacultyOverview{Subjects: subjects}

	counts, err := s.resources.CountByUploader(ctx, faculty.ID)
	if err != nil {
		return nil, util.MapError(err)
	}
	overview.Stats = UploadStats{
		Notes:       counts[domain.ResourceTypeNotes],
		PYQs:        counts[domain.ResourceTypePYQ],
		Assignments: counts[domain.ResourceTypeAssignment],
	}

	if len(subjects) == 0 {
		return overview, nil
	}
	ids := subjectIDs(subjects)
	now := time.Now()

	since := now.Add(-dashboardWindow)
	recent, err := s.resources.ListWithFilter(ctx, repository.ResourceFilter{
		SubjectIDs:   ids,
		CreatedAfter: &since,
		Limit:        dashboardListLimit,
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	overview.RecentUploads = recent

	assignmentType := domain.ResourceTypeAssignment
	open, err := s.resources.ListWithFilter(ctx, repository.ResourceFilter{
		SubjectIDs: ids,
		Type:       &assignmentType,
		DueAfter:   &now,
		Limit:      dashboardListLimit * 10,
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	for _, assignment := range open {
		count, err := s.submissions.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		overview.OpenAssignments = append(overview.OpenAssignments, AssignmentProgress{
			Assignment:  assignment,
			Submissions: count,
		})
	}
	sort.Slice(overview.OpenAssignments, func(i, j int) bool {
		a, b := overview.OpenAssignments[i].Assignment.DueDate, overview.OpenAssignments[j].Assignment.DueDate
		if a == nil || b == nil {
			return b == nil
		}
		return a.Before(*b)
	})
	return overview, nil
}

// StudentOverview returns the student's subjects, assignments still open
// that they have not submitted, current notices and the latest uploads for
// their cohort.
func (s *DashboardService) StudentOverview(ctx context.Context, student *domain.User) (*StudentOverview, error) {
	if student.CourseID == nil || student.Semester == nil {
		return nil, util.NewForbidden("account is not enrolled in a cohort")
	}
	cohort := domain.Cohort{CourseID: *student.CourseID, Semester: *student.Semester}

	subjects, err := s.subjects.ListByCohort(ctx, cohort)
	if err != nil {
		return nil, util.MapError(err)
	}
	overview := &StudentOverview{Subjects: subjects}

	now := time.Now()
	assignmentType := domain.ResourceTypeAssignment
	open, err := s.resources.ListWithFilter(ctx, repository.ResourceFilter{
		CourseID: &cohort.CourseID,
		Semester: &cohort.Semester,
		Type:     &assignmentType,
		DueAfter: &now,
		Limit:    dashboardListLimit * 10,
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	for _, assignment := range open {
		submitted, err := s.submissions.SubmittedStudentIDs(ctx, assignment.ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if _, done := submitted[student.ID]; done {
			continue
		}
		overview.PendingAssignments = append(overview.PendingAssignments, assignment)
	}
	sort.Slice(overview.PendingAssignments, func(i, j int) bool {
		a, b := overview.PendingAssignments[i].DueDate, overview.PendingAssignments[j].DueDate
		if a == nil || b == nil {
			return b == nil
		}
		return a.Before(*b)
	})

	notices, err := s.notices.ListForCohort(ctx, cohort, dashboardListLimit, 0)
	if err != nil {
		return nil, util.MapError(err)
	}
	overview.RecentNotices = notices

	notesType := domain.ResourceTypeNotes
	notes, err := s.resources.ListWithFilter(ctx, repository.ResourceFilter{
		CourseID: &cohort.CourseID,
		Semester: &cohort.Semester,
		Type:     &notesType,
		Limit:    recentUploadLimit,
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	overview.RecentNotes = notes

	pyqType := domain.ResourceTypePYQ
	pyqs, err := s.resources.ListWithFilter(ctx, repository.ResourceFilter{
		CourseID: &cohort.CourseID,
		Semester: &cohort.Semester,
		Type:     &pyqType,
		Limit:    recentUploadLimit,
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	overview.RecentPYQs = pyqs
	return overview, nil
}

// SubjectAnalytics aggregates submission statistics, upload counts and
// per-student engagement for a subject the caller teaches. A zero since or
// until defaults to the last thirty days ending now.
func (s *DashboardService) SubjectAnalytics(ctx context.Context, faculty *domain.User, subjectID string, since, until time.Time) (*SubjectAnalytics, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("subject", nil)
		}
		return nil, util.MapError(err)
	}
	if subject.FacultyID == nil || *subject.FacultyID != faculty.ID {
		return nil, util.NewNotFound("subject", nil)
	}

	if until.IsZero() {
		until = time.Now()
	}
	if since.IsZero() {
		since = until.Add(-dashboardWindow)
	}
	if until.Before(since) {
		return nil, util.NewValidationError("end of window precedes its start", nil)
	}

	all, err := s.resources.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, util.MapError(err)
	}

	analytics := &SubjectAnalytics{Subject: *subject}
	var assignments []domain.Resource
	for _, resource := range all {
		if resource.Type == domain.ResourceTypeAssignment {
			assignments = append(assignments, resource)
		}
		if resource.CreatedAt.Before(since) || resource.CreatedAt.After(until) {
			continue
		}
		switch resource.Type {
		case domain.ResourceTypeNotes:
			analytics.Notes++
		case domain.ResourceTypePYQ:
			analytics.PYQs++
		case domain.ResourceTypeAssignment:
			detail, err := s.assignmentAnalytics(ctx, resource)
			if err != nil {
				return nil, err
			}
			analytics.Assignments = append(analytics.Assignments, *detail)
		}
	}

	engagement, err := s.subjectEngagement(ctx, subject, assignments)
	if err != nil {
		return nil, err
	}
	analytics.Engagement = engagement
	return analytics, nil
}

func (s *DashboardService) assignmentAnalytics(ctx context.Context, assignment domain.Resource) (*AssignmentAnalytics, error) {
	submissions, err := s.submissions.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, util.MapError(err)
	}
	detail := &AssignmentAnalytics{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		DueDate:      assignment.DueDate,
		Total:        len(submissions),
	}
	for _, submission := range submissions {
		if assignment.DueDate == nil || !submission.SubmittedAt.After(*assignment.DueDate) {
			detail.OnTime++
		}
	}
	return detail, nil
}

// subjectEngagement computes each cohort student's submission rate across
// the subject's full assignment history, not just the analytics window.
func (s *DashboardService) subjectEngagement(ctx context.Context, subject *domain.Subject, assignments []domain.Resource) ([]StudentEngagement, error) {
	if subject.CourseID == nil || len(assignments) == 0 {
		return nil, nil
	}
	cohort := domain.Cohort{CourseID: *subject.CourseID, Semester: subject.Semester}
	students, err := s.users.ListStudentsByCohort(ctx, cohort, true)
	if err != nil {
		return nil, util.MapError(err)
	}
	if len(students) == 0 {
		return nil, nil
	}

	submittedCount := make(map[string]int, len(students))
	for _, assignment := range assignments {
		submitted, err := s.submissions.SubmittedStudentIDs(ctx, assignment.ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		for id := range submitted {
			submittedCount[id]++
		}
	}

	engagement := make([]StudentEngagement, 0, len(students))
	for _, student := range students {
		entry := StudentEngagement{
			StudentID:      student.ID,
			Name:           student.Name,
			SubmissionRate: float64(submittedCount[student.ID]) / float64(len(assignments)) * 100,
		}
		if student.RollNumber != nil {
			entry.RollNumber = *student.RollNumber
		}
		engagement = append(engagement, entry)
	}
	sort.Slice(engagement, func(i, j int) bool { return engagement[i].RollNumber < engagement[j].RollNumber })
	return engagement, nil
}
