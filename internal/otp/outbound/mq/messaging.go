package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/paydota/internal/otp/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	return m.publish(ctx, span, event.OTPIssuedDestination, msg.Phone, event.OTPIssuedMessage{
		EventID:   msg.EventID,
		Phone:     msg.Phone,
		Email:     msg.Email,
		Purpose:   msg.Purpose.String(),
		Language:  msg.Language.String(),
		ExpiresAt: msg.ExpiresAt,
		Delivered: msg.Delivered,
	})
}

func (m *Messaging) PublishOTPVerified(ctx context.Context, msg usecase.OTPVerifiedEvent) error {
	ctx, span := m.ins.Tracer("otp.outbound.mq").Start(ctx, "PublishOTPVerified")
	defer span.End()

	return m.publish(ctx, span, event.OTPVerifiedDestination, msg.Phone, event.OTPVerifiedMessage{
		EventID:    msg.EventID,
		Phone:      msg.Phone,
		Email:      msg.Email,
		Purpose:    msg.Purpose.String(),
		Language:   msg.Language.String(),
		VerifiedAt: msg.VerifiedAt,
	})
}

// publish keys by phone so Kafka partitions and Pub/Sub ordering keep one
// user's events in order.
func (m *Messaging) publish(ctx context.Context, span trace.Span, dest, phone string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, dest, messaging.OutgoingMessage{
		Body:        body,
		Headers:     map[string]string{keyOfCorrelationID: cID},
		Key:         []byte(phone),
		OrderingKey: phone,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
