package dto

import (
	"time"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// CourseRequest payload for course create/update.
type CourseRequest struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Code          string  `json:"code" validate:"required"`
	CoordinatorID *string `json:"coordinator_id" validate:"omitempty,uuid4"`
}

// CourseResponse public course view.
type CourseResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	CoordinatorID *string   `json:"coordinator_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCourseResponse maps a course.
func NewCourseResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:            course.ID,
		Name:          course.Name,
		Code:          course.Code,
		CoordinatorID: course.CoordinatorID,
		CreatedAt:     course.CreatedAt,
	}
}

// SemesterRequest payload for semester create/update.
type SemesterRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// SemesterResponse public semester view.
type SemesterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSemesterResponse maps a semester.
func NewSemesterResponse(semester *domain.Semester) SemesterResponse {
	return SemesterResponse{
		ID:        semester.ID,
		Name:      semester.Name,
		Code:      semester.Code,
		CreatedAt: semester.CreatedAt,
	}
}

// SubjectRequest payload for subject create/update.
type SubjectRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	Code      string  `json:"code" validate:"required"`
	FacultyID *string `json:"faculty_id" validate:"omitempty,uuid4"`
	CourseID  *string `json:"course_id" validate:"omitempty,uuid4"`
	Semester  int     `json:"semester" validate:"required,min=1,max=12"`
}

// SubjectResponse public subject view.
type SubjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	FacultyID *string   `json:"faculty_id,omitempty"`
	CourseID  *string   `json:"course_id,omitempty"`
	Semester  int       `json:"semester"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSubjectResponse maps a subject.
func NewSubjectResponse(subject *domain.Subject) SubjectResponse {
	return SubjectResponse{
		ID:        subject.ID,
		Name:      subject.Name,
		Code:      subject.Code,
		FacultyID: subject.FacultyID,
		CourseID:  subject.CourseID,
		Semester:  subject.Semester,
		CreatedAt: subject.CreatedAt,
	}
}
