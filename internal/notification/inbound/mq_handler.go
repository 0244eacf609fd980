package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/paydota/internal/notification/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// Bodies that do not parse are logged and acknowledged; redelivery cannot fix
// them.
func (h *MQHandler) OTPIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPIssuedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp issued notification", "msg_id", msg.ID(), "msg_body", string(body))

	var payload event.OTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOTPIssued(ctx, usecase.ConsumeOTPIssuedInput{
		EventID:   payload.EventID,
		Phone:     payload.Phone,
		Email:     payload.Email,
		Purpose:   payload.Purpose,
		Language:  payload.Language,
		ExpiresAt: payload.ExpiresAt,
		Delivered: payload.Delivered,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) OTPVerifiedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OTPVerifiedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: otp verified notification", "msg_id", msg.ID(), "msg_body", string(body))

	var payload event.OTPVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp verified notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeOTPVerified(ctx, usecase.ConsumeOTPVerifiedInput{
		EventID:    payload.EventID,
		Phone:      payload.Phone,
		Email:      payload.Email,
		Purpose:    payload.Purpose,
		Language:   payload.Language,
		VerifiedAt: payload.VerifiedAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp verified", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
