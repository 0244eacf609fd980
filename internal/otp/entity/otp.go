package entity

import "time"

// Key identifies the single live record for a phone and purpose.
type Key struct {
	Phone   string
	Purpose Purpose
}

// Record is one issued code.
type Record struct {
	Code        string
	Phone       string
	Email       string
	Purpose     Purpose
	Language    Language
	ExpiresAt   time.Time
	Attempts    int
	MaxAttempts int
	IsUsed      bool
	CreatedAt   time.Time
}

func (r *Record) Key() Key { return Key{Phone: r.Phone, Purpose: r.Purpose} }

// Expired is strict: a record is still valid at exactly ExpiresAt.
func (r *Record) Expired(now time.Time) bool { return now.After(r.ExpiresAt) }

func (r *Record) Exhausted() bool { return r.Attempts >= r.MaxAttempts }

func (r *Record) Active(now time.Time) bool {
	return !r.IsUsed && !r.Expired(now) && !r.Exhausted()
}

// Sweepable records are removed by the periodic cleanup.
func (r *Record) Sweepable(now time.Time) bool {
	return r.IsUsed || r.Expired(now)
}

// DeliveryResult is what a transport reports for a sent code.
type DeliveryResult struct {
	MessageID string
	Channel   string
}

// Stats summarizes active records.
type Stats struct {
	TotalActive int
	ByPurpose   map[Purpose]int
	OldestOTP   *time.Time
}
