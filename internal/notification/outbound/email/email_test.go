package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/mail"
)

type captureMail struct {
	sent []mail.Message
	err  error
}

func (c *captureMail) Close() error { return nil }

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func TestMail_SendNotice(t *testing.T) {
	client := &captureMail{}
	m := New(client, instrument.NewNoop())

	err := m.SendNotice(context.Background(), "user@example.com", entity.SecurityNotice{
		Subject: "s", HTML: "<p>h</p>", Text: "t",
	})

	if err != nil {
		t.Fatalf("SendNotice: %v", err)
	}
	got := client.sent[0]
	if got.To[0] != "user@example.com" || got.Subject != "s" || got.HTMLBody != "<p>h</p>" || got.TextBody != "t" {
		t.Fatalf("message = %+v", got)
	}
}

func TestMail_SendNoticeError(t *testing.T) {
	boom := errors.New("421")
	m := New(&captureMail{err: boom}, instrument.NewNoop())

	if err := m.SendNotice(context.Background(), "a@b.c", entity.SecurityNotice{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
