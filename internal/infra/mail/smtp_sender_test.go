package mail

import (
	"context"
	"io"
	"log/slog"
	"testing"

	gomail "github.com/wneessen/go-mail"

	"leadway/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailConfig() *config.Config {
	return &config.Config{
		Mail: &config.MailConfig{
			Host:     "smtp.example.com",
			Port:     587,
			Username: "noreply@example.com",
			Password: "secret",
			From:     "noreply@example.com",
		},
	}
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSMTPSender_MissingConfig(t *testing.T) {
	sender, err := NewSMTPSender(&config.Config{}, newDiscardLogger())
	assert.Error(t, err)
	assert.Nil(t, sender)
	assert.Contains(t, err.Error(), "mail configuration must be provided")
}

func TestSMTPSender_SendVerificationMail_BuildsMessage(t *testing.T) {
	sender, err := NewSMTPSender(newTestMailConfig(), newDiscardLogger())
	require.NoError(t, err)

	impl, ok := sender.(*smtpSender)
	require.True(t, ok)

	var captured *gomail.Msg
	impl.dialFunc = func(msg *gomail.Msg) error {
		captured = msg

		return nil
	}

	err = sender.SendVerificationMail(context.Background(), "a@x.com", "A User", "https://accounts.example.com/verify-email/tok123")
	require.NoError(t, err)
	require.NotNil(t, captured)

	from, err := captured.GetSender(false)
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", from)

	to, err := captured.GetRecipients()
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "a@x.com", to[0])
}

func TestSMTPSender_RenderVerificationBody(t *testing.T) {
	sender, err := NewSMTPSender(newTestMailConfig(), newDiscardLogger())
	require.NoError(t, err)

	impl, ok := sender.(*smtpSender)
	require.True(t, ok)

	body, err := impl.renderVerificationBody("A User", "https://accounts.example.com/verify-email/tok123")
	require.NoError(t, err)
	assert.Contains(t, body, "A User")
	assert.Contains(t, body, "https://accounts.example.com/verify-email/tok123")
}

func TestSMTPSender_RenderVerificationBody_EscapesName(t *testing.T) {
	sender, err := NewSMTPSender(newTestMailConfig(), newDiscardLogger())
	require.NoError(t, err)

	impl, ok := sender.(*smtpSender)
	require.True(t, ok)

	body, err := impl.renderVerificationBody("<script>alert(1)</script>", "https://accounts.example.com/verify-email/tok123")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
