// Package contact handles the contact form: validate and sanitize the
// submission, then hand it to the job queue so the notification email
// never blocks the request.
package contact

// TaskName is the queue task carrying a contact notification.
const TaskName = "contact_notification"

// Message is a sanitized contact form submission. It doubles as the
// job payload.
type Message struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=1,max=10000"`
}
