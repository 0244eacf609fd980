package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/idempotency"
)

type (
	ConsumeOTPIssuedInput struct {
		EventID   string `validate:"required"`
		Phone     string `validate:"required"`
		Email     string `validate:"omitempty,email"`
		Purpose   string `validate:"required,otp_purpose"`
		Language  string
		ExpiresAt time.Time
		Delivered bool
	}

	ConsumeOTPVerifiedInput struct {
		EventID    string `validate:"required"`
		Phone      string `validate:"required"`
		Email      string `validate:"omitempty,email"`
		Purpose    string `validate:"required,otp_purpose"`
		Language   string
		VerifiedAt time.Time
	}
)

// ConsumeOTPIssued emails a notice that a code was requested. Events without
// an email are acknowledged and skipped.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "event_id", in.EventID, "error", err)
		return nil
	}

	if in.Email == "" {
		slog.DebugContext(ctx, "otp issued event has no email, skipped", "event_id", in.EventID)
		return nil
	}

	return s.once(ctx, entity.TriggerKeyOTPRequested, in.EventID, func(ctx context.Context) error {
		return s.sendNotice(ctx, noticeInput{
			EventID: in.EventID,
			Email:   in.Email,
			Content: noticeContent{
				trigger:  entity.TriggerKeyOTPRequested,
				lang:     in.Language,
				purpose:  in.Purpose,
				phone:    in.Phone,
				occurred: in.ExpiresAt,
			},
			Data: map[string]any{
				"phone":      in.Phone,
				"purpose":    in.Purpose,
				"language":   in.Language,
				"expires_at": in.ExpiresAt,
				"delivered":  in.Delivered,
			},
		})
	})
}

// ConsumeOTPVerified emails a notice that a code was used.
func (s *Usecase) ConsumeOTPVerified(ctx context.Context, in ConsumeOTPVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPVerified")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "event_id", in.EventID, "error", err)
		return nil
	}

	if in.Email == "" {
		slog.DebugContext(ctx, "otp verified event has no email, skipped", "event_id", in.EventID)
		return nil
	}

	return s.once(ctx, entity.TriggerKeyOTPVerified, in.EventID, func(ctx context.Context) error {
		return s.sendNotice(ctx, noticeInput{
			EventID: in.EventID,
			Email:   in.Email,
			Content: noticeContent{
				trigger:  entity.TriggerKeyOTPVerified,
				lang:     in.Language,
				purpose:  in.Purpose,
				phone:    in.Phone,
				occurred: in.VerifiedAt,
			},
			Data: map[string]any{
				"phone":       in.Phone,
				"purpose":     in.Purpose,
				"language":    in.Language,
				"verified_at": in.VerifiedAt,
			},
		})
	})
}

// once runs fn a single time per event. A redelivered event that already
// completed, or is being handled elsewhere, is acknowledged without work.
func (s *Usecase) once(ctx context.Context, tk entity.TriggerKey, eventID string, fn func(context.Context) error) error {
	err := s.idemp.Exec(ctx, tk.String()+":"+eventID, fn)
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "duplicate otp event skipped", "event_id", eventID, "trigger_key", tk.String(), "reason", err.Error())
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to process otp event", "event_id", eventID, "trigger_key", tk.String(), "error", err)
		return err
	}

	return nil
}
