package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/paydota/internal/otp/entity"
)

// HasActiveOTP reports whether a usable code exists. Expired and exhausted
// records found on the way are removed.
func (s *Usecase) HasActiveOTP(ctx context.Context, phone string, purpose entity.Purpose) bool {
	_, span := s.startSpan(ctx, "HasActiveOTP")
	defer span.End()

	now := s.clock.Now()
	active := false
	s.store.Apply(keyOf(strings.TrimSpace(phone), purpose), func(rec *entity.Record) entity.Mutation {
		if rec == nil {
			return entity.MutationNone
		}
		if rec.Expired(now) || rec.Exhausted() {
			return entity.MutationDelete
		}
		active = !rec.IsUsed
		return entity.MutationNone
	})

	return active
}

// GetOTPExpiryTime returns when the current code expires. Used and expired
// records report false; nothing is mutated.
func (s *Usecase) GetOTPExpiryTime(ctx context.Context, phone string, purpose entity.Purpose) (time.Time, bool) {
	_, span := s.startSpan(ctx, "GetOTPExpiryTime")
	defer span.End()

	rec, ok := s.store.Get(keyOf(strings.TrimSpace(phone), purpose))
	if !ok || rec.IsUsed || rec.Expired(s.clock.Now()) {
		return time.Time{}, false
	}

	return rec.ExpiresAt, true
}

// CancelOTP removes the record whatever its state.
func (s *Usecase) CancelOTP(ctx context.Context, phone string, purpose entity.Purpose) bool {
	_, span := s.startSpan(ctx, "CancelOTP")
	defer span.End()

	return s.store.Delete(keyOf(strings.TrimSpace(phone), purpose))
}

func (s *Usecase) GetStats(ctx context.Context) entity.Stats {
	_, span := s.startSpan(ctx, "GetStats")
	defer span.End()

	now := s.clock.Now()
	active := lo.Filter(s.store.Records(), func(rec entity.Record, _ int) bool {
		return rec.Active(now)
	})

	stats := entity.Stats{
		TotalActive: len(active),
		ByPurpose: lo.CountValuesBy(active, func(rec entity.Record) entity.Purpose {
			return rec.Purpose
		}),
	}

	if len(active) > 0 {
		oldest := lo.MinBy(active, func(a, b entity.Record) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}).CreatedAt
		stats.OldestOTP = &oldest
	}

	return stats
}
