package dto

import (
	"time"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// CohortRef addresses one course/semester pair.
type CohortRef struct {
	CourseID string `json:"course_id" form:"course_id" validate:"required,uuid4"`
	Semester int    `json:"semester" form:"semester" validate:"required,min=1,max=12"`
}

// CreateNoticeForm is the multipart form for a new announcement. Audience
// arrives as a JSON array in the audience field.
type CreateNoticeForm struct {
	Title     string `form:"title" validate:"required,min=2"`
	Content   string `form:"content" validate:"required"`
	Priority  string `form:"priority" validate:"omitempty,oneof=NORMAL HIGH URGENT"`
	ExpiresAt string `form:"expires_at" validate:"required"`
	Audience  string `form:"audience" validate:"required"`
}

// NoticeResponse public notice view.
type NoticeResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Priority      string      `json:"priority"`
	PostedBy      string      `json:"posted_by"`
	AttachmentURL *string     `json:"attachment_url,omitempty"`
	ExpiresAt     time.Time   `json:"expires_at"`
	Audience      []CohortRef `json:"audience"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewNoticeResponse maps a notice.
func NewNoticeResponse(notice *domain.Notice) NoticeResponse {
	audience := make([]CohortRef, 0, len(notice.Audience))
	for _, cohort := range notice.Audience {
		audience = append(audience, CohortRef{CourseID: cohort.CourseID, Semester: cohort.Semester})
	}
	return NoticeResponse{
		ID:            notice.ID,
		Title:         notice.Title,
		Content:       notice.Content,
		Priority:      string(notice.Priority),
		PostedBy:      notice.PostedBy,
		AttachmentURL: notice.AttachmentURL,
		ExpiresAt:     notice.ExpiresAt,
		Audience:      audience,
		CreatedAt:     notice.CreatedAt,
	}
}

// NewNoticeResponses maps a slice.
func NewNoticeResponses(notices []domain.Notice) []NoticeResponse {
	result := make([]NoticeResponse, 0, len(notices))
	for i := range notices {
		result = append(result, NewNoticeResponse(&notices[i]))
	}
	return result
}
