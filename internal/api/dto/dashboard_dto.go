package dto

import (
	"time"

	"github.com/spec-kit/campus-resource-service/internal/domain"
	"github.com/spec-kit/campus-resource-service/internal/service"
)

// UploadStatsResponse lifetime upload totals per resource type.
type UploadStatsResponse struct {
	Notes       int `json:"notes"`
	PYQs        int `json:"pyqs"`
	Assignments int `json:"assignments"`
}

// AssignmentProgressResponse an open assignment with its submission count.
type AssignmentProgressResponse struct {
	Assignment  ResourceResponse `json:"assignment"`
	Submissions int              `json:"submissions"`
}

// FacultyOverviewResponse the faculty dashboard payload.
type FacultyOverviewResponse struct {
	Subjects        []SubjectResponse            `json:"subjects"`
	RecentUploads   []ResourceResponse           `json:"recent_uploads"`
	OpenAssignments []AssignmentProgressResponse `json:"open_assignments"`
	Stats           UploadStatsResponse          `json:"stats"`
}

// NewFacultyOverviewResponse maps the aggregate.
func NewFacultyOverviewResponse(overview *service.FacultyOverview) FacultyOverviewResponse {
	response := FacultyOverviewResponse{
		Subjects:        newSubjectResponses(overview.Subjects),
		RecentUploads:   NewResourceResponses(overview.RecentUploads),
		OpenAssignments: make([]AssignmentProgressResponse, 0, len(overview.OpenAssignments)),
		Stats: UploadStatsResponse{
			Notes:       overview.Stats.Notes,
			PYQs:        overview.Stats.PYQs,
			Assignments: overview.Stats.Assignments,
		},
	}
	for i := range overview.OpenAssignments {
		response.OpenAssignments = append(response.OpenAssignments, AssignmentProgressResponse{
			Assignment:  NewResourceResponse(&overview.OpenAssignments[i].Assignment),
			Submissions: overview.OpenAssignments[i].Submissions,
		})
	}
	return response
}

// StudentOverviewResponse the student dashboard payload.
type StudentOverviewResponse struct {
	Subjects           []SubjectResponse  `json:"subjects"`
	PendingAssignments []ResourceResponse `json:"pending_assignments"`
	RecentNotices      []NoticeResponse   `json:"recent_notices"`
	RecentNotes        []ResourceResponse `json:"recent_notes"`
	RecentPYQs         []ResourceResponse `json:"recent_pyqs"`
}

// NewStudentOverviewResponse maps the aggregate.
func NewStudentOverviewResponse(overview *service.StudentOverview) StudentOverviewResponse {
	return StudentOverviewResponse{
		Subjects:           newSubjectResponses(overview.Subjects),
		PendingAssignments: NewResourceResponses(overview.PendingAssignments),
		RecentNotices:      NewNoticeResponses(overview.RecentNotices),
		RecentNotes:        NewResourceResponses(overview.RecentNotes),
		RecentPYQs:         NewResourceResponses(overview.RecentPYQs),
	}
}

// AssignmentAnalyticsResponse per-assignment submission stats.
type AssignmentAnalyticsResponse struct {
	AssignmentID string     `json:"assignment_id"`
	Title        string     `json:"title"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Total        int        `json:"total_submissions"`
	OnTime       int        `json:"on_time_submissions"`
}

// StudentEngagementResponse per-student submission rate.
type StudentEngagementResponse struct {
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	RollNumber     string  `json:"roll_number"`
	SubmissionRate float64 `json:"submission_rate"`
}

// SubjectAnalyticsResponse the subject analytics payload.
type SubjectAnalyticsResponse struct {
	Subject     SubjectResponse               `json:"subject"`
	Assignments []AssignmentAnalyticsResponse `json:"assignments"`
	Notes       int                           `json:"notes"`
	PYQs        int                           `json:"pyqs"`
	Engagement  []StudentEngagementResponse   `json:"student_engagement"`
}

// NewSubjectAnalyticsResponse maps the aggregate.
func NewSubjectAnalyticsResponse(analytics *service.SubjectAnalytics) SubjectAnalyticsResponse {
	response := SubjectAnalyticsResponse{
		Subject:     NewSubjectResponse(&analytics.Subject),
		Assignments: make([]AssignmentAnalyticsResponse, 0, len(analytics.Assignments)),
		Notes:       analytics.Notes,
		PYQs:        analytics.PYQs,
		Engagement:  make([]StudentEngagementResponse, 0, len(analytics.Engagement)),
	}
	for _, assignment := range analytics.Assignments {
		response.Assignments = append(response.Assignments, AssignmentAnalyticsResponse{
			AssignmentID: assignment.AssignmentID,
			Title:        assignment.Title,
			DueDate:      assignment.DueDate,
			Total:        assignment.Total,
			OnTime:       assignment.OnTime,
		})
	}
	for _, entry := range analytics.Engagement {
		response.Engagement = append(response.Engagement, StudentEngagementResponse{
			StudentID:      entry.StudentID,
			Name:           entry.Name,
			RollNumber:     entry.RollNumber,
			SubmissionRate: entry.SubmissionRate,
		})
	}
	return response
}

func newSubjectResponses(subjects []domain.Subject) []SubjectResponse {
	result := make([]SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, NewSubjectResponse(&subjects[i]))
	}
	return result
}
