package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// DenialNoticeEmailData holds data for the order denial email.
type DenialNoticeEmailData struct {
	Email     string
	FirstName string
	EventSlug string
	OrderCode string
}

// NotificationService sends attendee-facing emails.
type NotificationService interface {
	SendDenialNotice(ctx context.Context, data *DenialNoticeEmailData) error
}
