package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
)

const queryCreateDeliveryLog = `
INSERT INTO notification_delivery_logs (id, event_id, trigger_key, channel, recipient, status, data)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *DB) CreateDeliveryLog(ctx context.Context, dl entity.CreateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateDeliveryLog,
		dl.ID,
		dl.EventID,
		dl.TriggerKey.String(),
		int16(dl.Channel),
		dl.Recipient,
		int16(dl.Status),
		dl.Data,
	)
	return s.mapError(err)
}

const queryUpdateDeliveryLogStatus = `
UPDATE notification_delivery_logs
SET status = $1, attempts = $2, provider_response = $3, next_retry_at = $4, updated_at = now()
WHERE id = $5`

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	var next pgtype.Timestamptz
	if u.NextRetryAt != nil {
		next = pgtype.Timestamptz{Time: *u.NextRetryAt, Valid: true}
	}

	tag, err := s.conn.Exec(ctx, queryUpdateDeliveryLogStatus,
		int16(u.Status),
		u.Attempts,
		u.ProviderResponse,
		next,
		u.ID,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

const queryGetDeliveryLog = `
SELECT id, event_id, trigger_key, channel, recipient, status, attempts, data, provider_response,
       next_retry_at, created_at, updated_at
FROM notification_delivery_logs
WHERE event_id = $1 AND channel = $2`

func (s *DB) GetDeliveryLog(ctx context.Context, eventID string, ch entity.Channel) (_ *entity.DeliveryLog, err error) {
	ctx, span := s.startSpan(ctx, "GetDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	var (
		dl              entity.DeliveryLog
		triggerKey      string
		channel, status int16
		next            pgtype.Timestamptz
	)
	err = s.conn.QueryRow(ctx, queryGetDeliveryLog, eventID, int16(ch)).Scan(
		&dl.ID,
		&dl.EventID,
		&triggerKey,
		&channel,
		&dl.Recipient,
		&status,
		&dl.Attempts,
		&dl.Data,
		&dl.ProviderResponse,
		&next,
		&dl.CreatedAt,
		&dl.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	dl.TriggerKey = entity.TriggerKey(triggerKey)
	dl.Channel = entity.Channel(channel)
	dl.Status = entity.DeliveryStatus(status)
	if next.Valid {
		t := next.Time
		dl.NextRetryAt = &t
	}

	return &dl, nil
}
