package email

import (
	"context"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// SendNotice mails a rendered security notice as HTML with a plain-text
// alternative.
func (m *Mail) SendNotice(ctx context.Context, to string, notice entity.SecurityNotice) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "SendNotice")
	defer span.End()

	span.SetAttributes(attribute.String("mail.subject", notice.Subject))

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  notice.Subject,
		TextBody: notice.Text,
		HTMLBody: notice.HTML,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
