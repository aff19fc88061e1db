package utils

import (
	"fmt"
	"html"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerificationEmail(to, name, link string) error
	SendResetCodeEmail(to, code string) error
}

// SMTPConfig carries the SMTP dialer settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay with gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) SendVerificationEmail(to, name, link string) error {
	msg := m.newMessage(to, "Verify your HealthFirst email")
	msg.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\nConfirm your email address by opening this link:\n%s\n\nThe link expires in 24 hours.", name, link))
	msg.AddAlternative("text/html", renderEmail(
		"Verify your email",
		fmt.Sprintf("Hello %s, confirm your email address to finish setting up your account.", html.EscapeString(name)),
		fmt.Sprintf(`<a class="action" href="%s">Verify email</a>`, html.EscapeString(link)),
		"The link expires in 24 hours. If you did not create an account, please ignore this email.",
	))
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) SendResetCodeEmail(to, code string) error {
	msg := m.newMessage(to, "Password Reset Code")
	msg.SetBody("text/plain", "Your password reset code is: "+code)
	msg.AddAlternative("text/html", renderEmail(
		"Password Reset Code",
		"Your password reset code is:",
		fmt.Sprintf(`<p class="code">%s</p>`, html.EscapeString(code)),
		"The code expires in 15 minutes. If you did not request a password reset, please ignore this email.",
	))
	return m.dialer.DialAndSend(msg)
}

func (m *SMTPMailer) newMessage(to, subject string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	return msg
}

func renderEmail(title, intro, body, footer string) string {
	return `<!DOCTYPE html>
<html>
<head>
	<title>` + title + `</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
		.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
		h1 { color: #333333; }
		p { color: #666666; }
		.code { font-weight: bold; color: #007bff; }
		.action { display: inline-block; padding: 10px 16px; background-color: #007bff; color: #ffffff; border-radius: 4px; text-decoration: none; }
	</style>
</head>
<body>
	<div class="container">
		<h1>` + title + `</h1>
		<p>` + intro + `</p>
		` + body + `
		<p>` + footer + `</p>
	</div>
</body>
</html>`
}

// LogMailer writes emails to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(to, name, link string) error {
	log.Info().Str("to", to).Str("link", link).Msg("verification email not sent: SMTP disabled")
	return nil
}

func (LogMailer) SendResetCodeEmail(to, code string) error {
	log.Info().Str("to", to).Msg("reset code email not sent: SMTP disabled")
	return nil
}
