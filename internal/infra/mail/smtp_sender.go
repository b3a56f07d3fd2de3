// Package mail provides the SMTP implementation of the MailSender domain service.
package mail

import (
	"context"
	"html/template"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"leadway/config"
	"leadway/internal/domain/service"
	"leadway/internal/errors"
)

const verificationSubject = "請驗證您的電子郵件"

// verificationTemplate renders the body of the verification mail.
// The link stays valid for one hour after signup.
const verificationTemplate = `<html>
<body>
  <p>{{.Name}} 您好，</p>
  <p>感謝您註冊。請在一小時內點擊以下連結完成電子郵件驗證：</p>
  <p><a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
  <p>如果這不是您本人的操作，請忽略這封信。</p>
</body>
</html>`

type verificationData struct {
	Name      string
	VerifyURL string
}

// smtpSender is a concrete implementation of the MailSender interface over SMTP.
type smtpSender struct {
	cfg      *config.MailConfig
	tmpl     *template.Template
	logger   *slog.Logger
	dialFunc func(*gomail.Msg) error // Swappable in tests; defaults to DialAndSend on a fresh client.
}

// NewSMTPSender is the constructor for smtpSender.
// The SMTP account is part of deployment configuration; a missing section is fatal at wire time.
func NewSMTPSender(cfg *config.Config, logger *slog.Logger) (service.MailSender, error) {
	if cfg.Mail == nil {
		return nil, errors.New("mail configuration must be provided")
	}

	tmpl, err := template.New("verification").Parse(verificationTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse verification mail template")
	}

	sender := &smtpSender{
		cfg:    cfg.Mail,
		tmpl:   tmpl,
		logger: logger,
	}
	sender.dialFunc = sender.dialAndSend

	return sender, nil
}

// SendVerificationMail sends the email ownership proof mail to the given recipient.
func (s *smtpSender) SendVerificationMail(ctx context.Context, toEmail, toName, verifyURL string) error {
	body, err := s.renderVerificationBody(toName, verifyURL)
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return errors.Wrap(err, "invalid mail sender address")
	}
	if err := msg.To(toEmail); err != nil {
		return errors.Wrap(err, "invalid mail recipient address")
	}
	msg.Subject(verificationSubject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	if err := s.dialFunc(msg); err != nil {
		return errors.Wrap(err, "failed to send verification mail")
	}

	s.logger.InfoContext(ctx, "Verification mail sent", slog.String("to", toEmail))

	return nil
}

// renderVerificationBody fills the verification template; html/template escapes
// the recipient name and link for us.
func (s *smtpSender) renderVerificationBody(name, verifyURL string) (string, error) {
	var body strings.Builder
	if err := s.tmpl.Execute(&body, verificationData{Name: name, VerifyURL: verifyURL}); err != nil {
		return "", errors.Wrap(err, "failed to render verification mail body")
	}

	return body.String(), nil
}

// dialAndSend opens a fresh SMTP session per message. Signup volume does not
// justify holding a connection open.
func (s *smtpSender) dialAndSend(msg *gomail.Msg) error {
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create SMTP client")
	}

	return errors.WithStack(client.DialAndSend(msg))
}
