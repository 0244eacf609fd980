package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	emailMaxTries     = 3
	defaultRetryBase  = 200 * time.Millisecond
	defaultRetryCap   = 2 * time.Second
	defaultRetryAfter = 2 * time.Minute
)

type noticeInput struct {
	EventID string
	Email   string
	Content noticeContent
	Data    valueobject.JSONMap
}

// sendNotice writes a queued delivery log, sends with fibonacci retry, and
// records the final status. A mail failure is recorded, not returned, so the
// broker does not redeliver an event that is already logged as failed.
func (s *Usecase) sendNotice(ctx context.Context, in noticeInput) error {
	notice, err := s.renderNotice(in.Content)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render security notice", "event_id", in.EventID, "error", err)
		return nil
	}

	logID := s.uid.Generate()
	err = s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		ID:         logID,
		EventID:    in.EventID,
		TriggerKey: in.Content.trigger,
		Channel:    entity.ChannelEmail,
		Recipient:  in.Email,
		Status:     entity.DeliveryStatusQueued,
		Data:       in.Data,
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.InfoContext(ctx, "delivery log already exists, skipped", "event_id", in.EventID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "event_id", in.EventID, "error", err)
		return err
	}

	attempts := 0
	mailErr := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempts++
		if err := s.repoMail.SendNotice(ctx, in.Email, notice); err != nil {
			slog.WarnContext(ctx, "security notice send attempt failed", "event_id", in.EventID, "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})

	up := entity.UpdateDeliveryLog{
		ID:               logID,
		Status:           entity.DeliveryStatusSent,
		Attempts:         attempts,
		ProviderResponse: valueobject.JSONMap{},
	}
	if mailErr != nil {
		next := s.clock.Now().Add(s.retryAfter())
		up.Status = entity.DeliveryStatusFailed
		up.ProviderResponse = valueobject.JSONMap{"error": mailErr.Error()}
		up.NextRetryAt = &next
		slog.ErrorContext(ctx, "failed to send security notice", "event_id", in.EventID, "log_id", logID, "attempts", attempts, "error", mailErr)
	}

	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status", "log_id", logID, "status", up.Status.String(), "error", err)
	}

	if s.emailCounter != nil {
		s.emailCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("trigger_key", in.Content.trigger.String()),
			attribute.String("status", up.Status.String()),
		))
	}

	return nil
}

func (s *Usecase) backoff() retry.Backoff {
	base := time.Duration(s.cfg.GetInt("modules.notification.email_retry_base_ms")) * time.Millisecond
	if base <= 0 {
		base = defaultRetryBase
	}

	b := retry.NewFibonacci(base)
	b = retry.WithCappedDuration(defaultRetryCap, b)
	return retry.WithMaxRetries(emailMaxTries-1, b)
}

func (s *Usecase) retryAfter() time.Duration {
	if d := s.cfg.GetMinute("modules.notification.email_retry_after_minutes"); d > 0 {
		return d
	}
	return defaultRetryAfter
}
