package config

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// MailAttachment is an in-memory file attached to an outgoing message.
type MailAttachment struct {
	Filename string
	Reader   io.Reader
}

type smtpSettings struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

// SMTP settings are read per send so values loaded from .env after package
// init are honoured.
func loadSMTPSettings() smtpSettings {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return smtpSettings{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"), // e.g. "Laptop Desk <no-reply@your.org>"
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// SendMail delivers an HTML message with optional attachments.
func SendMail(to []string, subject, html string, attachments ...MailAttachment) error {
	if len(to) == 0 {
		return nil
	}
	cfg := loadSMTPSettings()
	if cfg.host == "" || cfg.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", cfg.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	for _, a := range attachments {
		m.AttachReader(a.Filename, a.Reader)
	}

	d := mail.NewDialer(cfg.host, cfg.port, cfg.user, cfg.pass)

	// STARTTLS is mandatory on 587 (Gmail/Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the SMTP hostname unless verification is skipped (dev only).
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.host,
		InsecureSkipVerify: cfg.skipTLSVerify,
	}

	return d.DialAndSend(m)
}
