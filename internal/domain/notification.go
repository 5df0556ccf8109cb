package domain

import "time"

// RecipientKind tells which user variant a notification's recipient id
// refers to.
type RecipientKind string

const (
	RecipientStudent RecipientKind = "student"
	RecipientFaculty RecipientKind = "faculty"
)

// RecipientKindForRole maps an account role onto the recipient discriminator.
func RecipientKindForRole(role Role) RecipientKind {
	if role == RoleFaculty {
		return RecipientFaculty
	}
	return RecipientStudent
}

// NotificationCategory classifies what a notification is about.
type NotificationCategory string

const (
	NotificationAssignment NotificationCategory = "assignment"
	NotificationNote       NotificationCategory = "note"
	NotificationPYQ        NotificationCategory = "pyq"
	NotificationNotice     NotificationCategory = "notice"
)

// Notification is a persisted alert addressed to a single recipient.
// Only the read flag is ever mutated; deletion is explicit by the owner.
type Notification struct {
	ID            string               `json:"id"`
	RecipientID   string               `json:"recipient_id"`
	RecipientKind RecipientKind        `json:"recipient_kind"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	Category      NotificationCategory `json:"category"`
	RelatedID     *string              `json:"related_id,omitempty"`
	Read          bool                 `json:"read"`
	CreatedAt     time.Time            `json:"created_at"`
}
