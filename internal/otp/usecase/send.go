package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type SendOTPInput struct {
	Phone    string `validate:"required,notblank"`
	Purpose  string `validate:"required,otp_purpose"`
	Email    string `validate:"omitempty,email"`
	Language string `validate:"omitempty,oneof=ar en"`
}

type SendOTPOutput struct {
	Success   bool
	Message   string
	ExpiresIn int
	Reason    entity.VerifyReason
}

// SendOTP issues a fresh code for (phone, purpose), replacing any previous
// one, and hands it to the transport. Delivery problems are reported in the
// output; the stored record survives them.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))

	if err := s.validator.ValidateLocale(in.Language, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.PurposeFromString(in.Purpose)
	lang := entity.LanguageFromString(in.Language)

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "phone", in.Phone, "purpose", in.Purpose, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	rec := entity.Record{
		Code:        code,
		Phone:       in.Phone,
		Email:       in.Email,
		Purpose:     purpose,
		Language:    lang,
		ExpiresAt:   now.Add(Expiry),
		MaxAttempts: MaxAttempts,
		CreatedAt:   now,
	}
	s.store.Put(rec)

	out := s.deliver(ctx, rec)

	s.issuedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", purpose.String()),
		attribute.Bool("delivered", out.Reason != entity.ReasonDeliveryFailure),
	))

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		EventID:   s.uuid.Generate(),
		Phone:     rec.Phone,
		Email:     rec.Email,
		Purpose:   rec.Purpose,
		Language:  rec.Language,
		ExpiresAt: rec.ExpiresAt,
		Delivered: out.Reason != entity.ReasonDeliveryFailure,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "phone", rec.Phone, "purpose", rec.Purpose.String(), "error", err)
	}

	return out, nil
}

// deliver never fails: every transport problem ends up in the output.
// Reason is DeliveryFailure whenever the code did not reach the transport,
// even when the dev fallback reports success.
func (s *Usecase) deliver(ctx context.Context, rec entity.Record) *SendOTPOutput {
	expiresIn := int(Expiry.Seconds())

	var (
		sendErr  error
		failMsg  string
		delivery *entity.DeliveryResult
	)
	if !s.transport.IsConfigured() {
		failMsg = i18n.OTPSendUnavailable
	} else if delivery, sendErr = s.safeSend(ctx, rec); sendErr != nil {
		failMsg = i18n.OTPSendFailed
	}

	if failMsg == "" {
		slog.InfoContext(ctx, "otp delivered", "phone", rec.Phone, "purpose", rec.Purpose.String(),
			"channel", delivery.Channel, "message_id", delivery.MessageID)
		return &SendOTPOutput{
			Success:   true,
			Message:   s.msg(rec.Language, i18n.OTPSent),
			ExpiresIn: expiresIn,
			Reason:    entity.ReasonVerified,
		}
	}

	if sendErr != nil {
		slog.ErrorContext(ctx, "failed to send otp", "phone", rec.Phone, "purpose", rec.Purpose.String(), "error", sendErr)
	}

	if s.cfg.GetBool("modules.otp.insecure_dev_fallback") {
		slog.WarnContext(ctx, "otp delivery skipped, returning code in response (insecure dev fallback)",
			"phone", rec.Phone, "purpose", rec.Purpose.String())
		return &SendOTPOutput{
			Success:   true,
			Message:   s.msg(rec.Language, i18n.OTPSentDev, rec.Code),
			ExpiresIn: expiresIn,
			Reason:    entity.ReasonDeliveryFailure,
		}
	}

	if sendErr == nil {
		slog.WarnContext(ctx, "otp transport is not configured", "phone", rec.Phone, "purpose", rec.Purpose.String())
	}

	return &SendOTPOutput{
		Success: false,
		Message: s.msg(rec.Language, failMsg),
		Reason:  entity.ReasonDeliveryFailure,
	}
}

func (s *Usecase) safeSend(ctx context.Context, rec entity.Record) (res *entity.DeliveryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("otp transport panic: %v", r)
		}
	}()

	res, err = s.transport.SendOTP(ctx, rec.Phone, rec.Code, rec.Language)
	if err == nil && res == nil {
		res = &entity.DeliveryResult{}
	}
	return res, err
}
