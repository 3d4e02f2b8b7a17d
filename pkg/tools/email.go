package tools

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

// ErrSMTPAuth marks an SMTP authentication failure so callers can show
// credential guidance instead of a generic send error.
var ErrSMTPAuth = errors.New("smtp authentication failed")

// SendFunc performs the actual SMTP delivery. Swappable in tests.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// EmailTool sends mail through an SMTP server, by default Gmail with
// an app password.
type EmailTool struct {
	cfg           config.EmailConfig
	assistantName string
	send          SendFunc
	now           func() time.Time
}

func NewEmailTool(cfg config.EmailConfig, assistantName string) *EmailTool {
	return NewEmailToolWithSender(cfg, assistantName, smtpSend)
}

// NewEmailToolWithSender builds a tool with a custom delivery
// function.
func NewEmailToolWithSender(cfg config.EmailConfig, assistantName string, send SendFunc) *EmailTool {
	return &EmailTool{
		cfg:           cfg,
		assistantName: assistantName,
		send:          send,
		now:           time.Now,
	}
}

func smtpSend(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	err := smtp.SendMail(addr, auth, from, to, msg)
	if err != nil && strings.Contains(err.Error(), "535") {
		return fmt.Errorf("%w: %v", ErrSMTPAuth, err)
	}
	return err
}

// Configured reports whether SMTP credentials are present.
func (t *EmailTool) Configured() bool {
	return t.cfg.Address != "" && t.cfg.AppPassword != ""
}

// Send delivers a message and returns user-facing text. Failures are
// reported in the text, never as a Go error.
func (t *EmailTool) Send(toEmail, subject, message string) string {
	if !t.Configured() {
		return "❌ Email service not configured. Please set GMAIL_EMAIL and GMAIL_APP_PASSWORD."
	}

	body := fmt.Sprintf("Hello!\n\nYour AI assistant (%s) sent you this message:\n\n%s\n\n---\nSent by your Personal AI Assistant\nTime: %s",
		t.assistantName, message, t.now().Format("2006-01-02 15:04:05"))

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", t.cfg.Address)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", t.cfg.SMTPHost, t.cfg.SMTPPort)
	auth := smtp.PlainAuth("", t.cfg.Address, t.cfg.AppPassword, t.cfg.SMTPHost)

	logger.InfoCF("email", "sending", map[string]any{"to": toEmail, "subject": subject})

	if err := t.send(addr, auth, t.cfg.Address, []string{toEmail}, []byte(msg.String())); err != nil {
		if errors.Is(err, ErrSMTPAuth) {
			return "❌ Email authentication failed. Check your Gmail credentials and app password."
		}
		return fmt.Sprintf("❌ Email sending failed: %v", err)
	}

	return fmt.Sprintf("✅ Email sent successfully to %s!", toEmail)
}
