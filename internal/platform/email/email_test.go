package email

import (
	"strings"
	"testing"

	"hrms/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	if _, ok := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"}).(noopMailer); !ok {
		t.Fatal("expected noop mailer when email is disabled")
	}
	if _, ok := New(config.Config{EmailEnabled: true, SMTPHost: ""}).(noopMailer); !ok {
		t.Fatal("expected noop mailer without an SMTP host")
	}
	if _, ok := New(config.Config{EmailEnabled: true, SMTPHost: "smtp.example.com", SMTPPort: 587}).(*smtpMailer); !ok {
		t.Fatal("expected smtp mailer when configured")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "emp@example.com", "Password reset", "Use the link."))

	header, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatal("expected blank line between headers and body")
	}
	for _, want := range []string{
		"From: hr@example.com",
		"To: emp@example.com",
		"Subject: Password reset",
		"Content-Type: text/plain",
	} {
		if !strings.Contains(header, want) {
			t.Fatalf("missing header %q in %q", want, header)
		}
	}
	if body != "Use the link." {
		t.Fatalf("unexpected body %q", body)
	}
}
