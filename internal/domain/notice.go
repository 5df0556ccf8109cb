package domain

import "time"

// NoticePriority orders notices in listings.
type NoticePriority string

const (
	NoticePriorityNormal NoticePriority = "NORMAL"
	NoticePriorityHigh   NoticePriority = "HIGH"
	NoticePriorityUrgent NoticePriority = "URGENT"
)

// Notice is an announcement addressed to one or more cohorts.
type Notice struct {
	ID               string
	Title            string
	Content          string
	Priority         NoticePriority
	PostedBy         string
	AttachmentFileID *string
	AttachmentURL    *string
	ExpiresAt        time.Time
	Audience         []Cohort
	CreatedAt        time.Time
}

// Expired reports whether the notice should no longer be listed.
func (n *Notice) Expired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}
