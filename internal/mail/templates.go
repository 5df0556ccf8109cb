package mail

import (
	"fmt"
	"time"
)

// PasswordResetHTML renders the password recovery message. The raw token
// appears only here; it is never persisted.
func PasswordResetHTML(name, frontendURL, rawToken string) (subject, html string) {
	resetURL := fmt.Sprintf("%s/reset-password/%s", frontendURL, rawToken)
	subject = "Reset your password"
	html = fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>Hello %s,</p>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>
<p>This link will expire in 1 hour.</p>`, name, resetURL, resetURL)
	return subject, html
}

// AssignmentReminderHTML renders a deadline reminder for a pending student.
func AssignmentReminderHTML(name, title string, dueDate time.Time) (subject, html string) {
	subject = fmt.Sprintf("Assignment due %s", dueDate.Format("Jan 2 15:04"))
	html = fmt.Sprintf(`<h2>Assignment Reminder</h2>
<p>Hello %s,</p>
<p>Your assignment %q has not been submitted yet.</p>
<p>Please submit it before <strong>%s</strong>.</p>`, name, title, dueDate.Format(time.RFC1123))
	return subject, html
}
