package tools

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"testing"

	"github.com/buddyagent/buddy/pkg/config"
)

func testEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		Address:     "buddy@example.com",
		AppPassword: "app-password",
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
	}
}

func TestEmailSend_NotConfigured(t *testing.T) {
	tool := NewEmailTool(config.EmailConfig{}, "Buddy")
	got := tool.Send("to@example.com", "Hi", "Hello")

	if !strings.Contains(got, "GMAIL_EMAIL") || !strings.Contains(got, "GMAIL_APP_PASSWORD") {
		t.Errorf("unconfigured message should name both env vars: %q", got)
	}
}

func TestEmailSend_Success(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	tool := NewEmailTool(testEmailConfig(), "Buddy")
	tool.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	got := tool.Send("friend@example.com", "Hello", "How are you?")

	if got != "✅ Email sent successfully to friend@example.com!" {
		t.Errorf("unexpected result: %q", got)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("wrong server address %q", gotAddr)
	}
	if gotFrom != "buddy@example.com" || len(gotTo) != 1 || gotTo[0] != "friend@example.com" {
		t.Errorf("wrong envelope: from %q to %v", gotFrom, gotTo)
	}

	body := string(gotMsg)
	for _, want := range []string{
		"Subject: Hello",
		"How are you?",
		"(Buddy)",
		"Sent by your Personal AI Assistant",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q:\n%s", want, body)
		}
	}
}

func TestEmailSend_AuthFailureDistinctFromGeneric(t *testing.T) {
	tool := NewEmailTool(testEmailConfig(), "Buddy")

	tool.send = func(string, smtp.Auth, string, []string, []byte) error {
		return fmt.Errorf("%w: 535 5.7.8 bad credentials", ErrSMTPAuth)
	}
	authMsg := tool.Send("to@example.com", "s", "m")
	if !strings.Contains(authMsg, "authentication failed") {
		t.Errorf("auth failure message wrong: %q", authMsg)
	}

	tool.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection reset")
	}
	genericMsg := tool.Send("to@example.com", "s", "m")
	if !strings.Contains(genericMsg, "Email sending failed") {
		t.Errorf("generic failure message wrong: %q", genericMsg)
	}

	if authMsg == genericMsg {
		t.Error("auth failure and generic failure should produce distinct messages")
	}
}

func TestSMTPErrorClassification(t *testing.T) {
	err := fmt.Errorf("%w: upstream said 535", ErrSMTPAuth)
	if !errors.Is(err, ErrSMTPAuth) {
		t.Error("wrapped auth error should match ErrSMTPAuth")
	}
}
