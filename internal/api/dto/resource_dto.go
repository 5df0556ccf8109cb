package dto

import (
	"time"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// CreateResourceForm is the multipart form alongside the uploaded file.
type CreateResourceForm struct {
	Title     string  `form:"title" validate:"required,min=2"`
	Type      string  `form:"type" validate:"required,oneof=notes pyq assignment"`
	SubjectID *string `form:"subject_id" validate:"omitempty,uuid4"`
	Semester  int     `form:"semester" validate:"required,min=1,max=12"`
	CourseID  string  `form:"course_id" validate:"required,uuid4"`
	Year      *int    `form:"year" validate:"omitempty,min=2000,max=2100"`
	DueDate   *string `form:"due_date"`
}

// UpdateResourceRequest carries a partial metadata update.
type UpdateResourceRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=2"`
	Year    *int    `json:"year" validate:"omitempty,min=2000,max=2100"`
	DueDate *string `json:"due_date"`
}

// ResourceResponse public resource view.
type ResourceResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	FileURL   string     `json:"file_url"`
	SubjectID *string    `json:"subject_id,omitempty"`
	Semester  int        `json:"semester"`
	CourseID  string     `json:"course_id"`
	Year      *int       `json:"year,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewResourceResponse maps a resource.
func NewResourceResponse(resource *domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:        resource.ID,
		Title:     resource.Title,
		Type:      string(resource.Type),
		FileURL:   resource.FileURL,
		SubjectID: resource.SubjectID,
		Semester:  resource.Semester,
		CourseID:  resource.CourseID,
		Year:      resource.Year,
		DueDate:   resource.DueDate,
		CreatedBy: resource.UploadedBy,
		CreatedAt: resource.CreatedAt,
	}
}

// NewResourceResponses maps a slice.
func NewResourceResponses(resources []domain.Resource) []ResourceResponse {
	result := make([]ResourceResponse, 0, len(resources))
	for i := range resources {
		result = append(result, NewResourceResponse(&resources[i]))
	}
	return result
}

// SubmissionResponse public submission view.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	FileURL      string    `json:"file_url"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Modified     bool      `json:"modified"`
}

// NewSubmissionResponse maps a submission.
func NewSubmissionResponse(submission *domain.AssignmentSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		FileURL:      submission.FileURL,
		SubmittedAt:  submission.SubmittedAt,
		Modified:     submission.Modified,
	}
}

// NewSubmissionResponses maps a slice.
func NewSubmissionResponses(submissions []domain.AssignmentSubmission) []SubmissionResponse {
	result := make([]SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, NewSubmissionResponse(&submissions[i]))
	}
	return result
}
