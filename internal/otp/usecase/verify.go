package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyOTPInput struct {
	Phone    string `validate:"required,notblank"`
	Code     string `validate:"required,notblank"`
	Purpose  string `validate:"required,otp_purpose"`
	Language string `validate:"omitempty,oneof=ar en"`
}

type VerifyOTPOutput struct {
	Success bool
	Message string
	Reason  entity.VerifyReason
	// AttemptsLeft is only set after a counted attempt failed.
	AttemptsLeft *int
}

// VerifyOTP runs the verification state machine under the key's lock, so
// concurrent attempts on one key are serialized and never over-counted.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Code = strings.TrimSpace(in.Code)
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))

	if err := s.validator.ValidateLocale(in.Language, in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	key := keyOf(in.Phone, entity.PurposeFromString(in.Purpose))
	now := s.clock.Now()

	var (
		reason   entity.VerifyReason
		attempts int
		verified entity.Record
	)
	s.store.Apply(key, func(rec *entity.Record) entity.Mutation {
		switch {
		case rec == nil:
			reason = entity.ReasonNotFound
			return entity.MutationNone
		case rec.Expired(now):
			reason = entity.ReasonExpired
			return entity.MutationDelete
		case rec.IsUsed:
			reason = entity.ReasonAlreadyUsed
			return entity.MutationNone
		case rec.Exhausted():
			reason = entity.ReasonAttemptsExhausted
			return entity.MutationDelete
		}

		rec.Attempts++
		attempts = rec.Attempts

		if rec.Code != in.Code {
			if rec.Exhausted() {
				reason = entity.ReasonAttemptsExhausted
				return entity.MutationDelete
			}
			reason = entity.ReasonCodeMismatch
			return entity.MutationSave
		}

		rec.IsUsed = true
		reason = entity.ReasonVerified
		verified = *rec
		return entity.MutationSave
	})

	lang := entity.LanguageFromString(in.Language)
	out := &VerifyOTPOutput{Reason: reason}

	switch reason {
	case entity.ReasonNotFound:
		out.Message = s.msg(lang, i18n.OTPNotFound)
	case entity.ReasonExpired:
		out.Message = s.msg(lang, i18n.OTPExpired)
	case entity.ReasonAlreadyUsed:
		out.Message = s.msg(lang, i18n.OTPAlreadyUsed)
	case entity.ReasonAttemptsExhausted:
		if attempts > 0 {
			out.Message = s.msg(lang, i18n.OTPInvalidMax)
			out.AttemptsLeft = new(int)
		} else {
			out.Message = s.msg(lang, i18n.OTPMaxAttempts)
		}
	case entity.ReasonCodeMismatch:
		left := MaxAttempts - attempts
		out.Message = s.msg(lang, i18n.OTPInvalid)
		out.AttemptsLeft = &left
	case entity.ReasonVerified:
		out.Success = true
		out.Message = s.msg(lang, i18n.OTPVerified)
	}

	s.verifyCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", key.Purpose.String()),
		attribute.String("reason", reason.String()),
	))

	if !out.Success {
		slog.WarnContext(ctx, "otp verification rejected", "phone", key.Phone, "purpose", key.Purpose.String(),
			"reason", reason.String(), "attempts", attempts)
		return out, nil
	}

	if err := s.repoMessaging.PublishOTPVerified(ctx, OTPVerifiedEvent{
		EventID:    s.uuid.Generate(),
		Phone:      verified.Phone,
		Email:      verified.Email,
		Purpose:    verified.Purpose,
		Language:   verified.Language,
		VerifiedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp verified", "phone", key.Phone, "purpose", key.Purpose.String(), "error", err)
	}

	return out, nil
}
