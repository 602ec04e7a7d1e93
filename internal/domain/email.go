package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the invitation email.
type InvitationEmailData struct {
	InviteeEmail  string
	InviterName   string
	EventTitle    string
	EventDate     string
	EventTime     string
	EventLocation string
	ShareLink     string
}

// EmailService defines the business-level email operations.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}
