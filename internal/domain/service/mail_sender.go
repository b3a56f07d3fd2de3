package service

import "context"

// MailSender defines the interface for dispatching transactional mail.
// The concrete transport (SMTP account, templates) lives in the infra layer
// and is injected explicitly; there are no ambient transporter globals.
type MailSender interface {
	// SendVerificationMail sends the email ownership proof mail containing
	// verifyURL to the given recipient.
	SendVerificationMail(ctx context.Context, toEmail, toName, verifyURL string) error
}
