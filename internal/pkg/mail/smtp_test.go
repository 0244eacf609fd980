package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (c *captureDialer) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return buf.String()
}

func TestSMTP_Send(t *testing.T) {
	// Arrange
	d := &captureDialer{}
	s := &SMTP{dialer: d, defaultFrom: "security@paydota.test"}

	// Act
	err := s.Send(context.Background(), Message{
		To:       []string{"user@paydota.test"},
		Subject:  "Verification completed",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("sent %d messages", len(d.sent))
	}
	raw := render(t, d.sent[0])
	for _, want := range []string{"From: security@paydota.test", "To: user@paydota.test", "multipart/alternative", "text/html"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestSMTP_SendValidation(t *testing.T) {
	s := &SMTP{dialer: &captureDialer{}}

	if err := s.Send(context.Background(), Message{From: "a@b.c"}); !errors.Is(err, ErrSMTPNoRecipients) {
		t.Fatalf("err = %v, want ErrSMTPNoRecipients", err)
	}
	if err := s.Send(context.Background(), Message{To: []string{"x@y.z"}}); !errors.Is(err, ErrSMTPNoSender) {
		t.Fatalf("err = %v, want ErrSMTPNoSender", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, Message{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSMTP_PropagatesDialError(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	s := &SMTP{dialer: &captureDialer{err: boom}, defaultFrom: "a@b.c"}

	err := s.Send(context.Background(), Message{To: []string{"x@y.z"}, TextBody: "hi"})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{Host: "smtp.test"}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Fatalf("err = %v", err)
	}
}
