package domain

import "time"

// ResourceType discriminates the unified resource record.
type ResourceType string

const (
	ResourceTypeNotes      ResourceType = "notes"
	ResourceTypePYQ        ResourceType = "pyq"
	ResourceTypeAssignment ResourceType = "assignment"
)

// Valid reports whether the type belongs to the closed set.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeNotes, ResourceTypePYQ, ResourceTypeAssignment:
		return true
	}
	return false
}

// Resource is the unified notes/pyq/assignment record. Year is required
// for pyq, DueDate for assignment.
type Resource struct {
	ID         string
	Title      string
	Type       ResourceType
	FileID     string
	FileURL    string
	SubjectID  *string
	Semester   int
	CourseID   string
	Year       *int
	DueDate    *time.Time
	UploadedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DeadlinePassed reports whether an assignment can no longer accept
// submissions at the given instant. Non-assignments never have a deadline.
func (r *Resource) DeadlinePassed(now time.Time) bool {
	return r.Type == ResourceTypeAssignment && r.DueDate != nil && now.After(*r.DueDate)
}

// AssignmentSubmission links a student's uploaded answer to an assignment
// resource. One row per (assignment, student); resubmission replaces the
// file and flips Modified.
type AssignmentSubmission struct {
	ID           string
	AssignmentID string
	StudentID    string
	FileID       string
	FileURL      string
	SubjectID    *string
	SubmittedAt  time.Time
	Modified     bool
}
