// Package mailer sends transactional mail (registration, password reset,
// member invitations). When SMTP is not configured, sends are logged and
// dropped so development setups work without a mail server.
package mailer

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gopkg.in/gomail.v2"

	"github.com/atomiccms/atomic-service/internal/config"
)

// Mailer sends mail to users.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// New returns a Mailer for the configured SMTP server, or a logging no-op
// when no host is configured.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return &nopMailer{}
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

type nopMailer struct{}

func (*nopMailer) Send(to, subject, _ string) error {
	log.Info("Mail dropped: SMTP not configured", "to", to, "subject", subject)
	return nil
}

// Subjects and bodies for the service's transactional mail.

func RegistrationMail(name string) (subject, body string) {
	return "Welcome to Atomic",
		fmt.Sprintf("<p>Hi %s,</p><p>your account has been created.</p>", name)
}

func PasswordResetMail(key string) (subject, body string) {
	return "Password reset",
		fmt.Sprintf("<p>Your password reset code is <b>%s</b>.</p>", key)
}

func InviteMail(company string) (subject, body string) {
	return "Membership invitation",
		fmt.Sprintf("<p><b>%s</b> invited you to join their company.</p>", company)
}

func InviteAcceptedMail(name string) (subject, body string) {
	return "Invitation accepted",
		fmt.Sprintf("<p>%s accepted your invitation.</p>", name)
}

func InviteDeclinedMail(name string) (subject, body string) {
	return "Invitation declined",
		fmt.Sprintf("<p>%s declined your invitation.</p>", name)
}

func AppointmentMail(company string) (subject, body string) {
	return "New responsibilities",
		fmt.Sprintf("<p><b>%s</b> appointed you responsible for content.</p>", company)
}

func RevocationMail(company string) (subject, body string) {
	return "Responsibilities revoked",
		fmt.Sprintf("<p><b>%s</b> revoked your content responsibilities.</p>", company)
}

func DismissalMail(company string) (subject, body string) {
	return "Membership ended",
		fmt.Sprintf("<p><b>%s</b> removed you from their company.</p>", company)
}

func AccountDeletedMail() (subject, body string) {
	return "Account deleted",
		"<p>Your account has been deleted.</p>"
}

func GoogleSignInMail(name string) (subject, body string) {
	return "New sign-in with Google",
		fmt.Sprintf("<p>Hi %s,</p><p>your account was just accessed with Google sign-in.</p>", name)
}
