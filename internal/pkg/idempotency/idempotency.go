// Package idempotency guards at-least-once work (broker redeliveries) with a
// Redis state key per operation.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrInvalidState      = errors.New("idempotency: invalid state")
)

// State is the value stored under an operation key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Idempotency runs fn at most once per key while the key's state lives.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// Option tunes Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress claim blocks other callers.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// StateTracker implements Idempotency on Redis.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a tracker whose keys are namespaced by prefix (for example
// "notification:").
func New(client redis.UniversalClient, prefix string) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:" + prefix}
}

func (s *StateTracker) claim(ctx context.Context, key string, lock time.Duration) (State, error) {
	ok, err := s.client.SetNX(ctx, key, string(StateInProgress), lock).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return StateNone, nil
	}

	current, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get
		return s.claim(ctx, key, lock)
	}
	if err != nil {
		return "", err
	}

	switch State(current) {
	case StateInProgress, StateCompleted:
		return State(current), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, current)
	}
}

// Exec claims key, runs fn and records completion. When fn fails the claim
// is released so a redelivery can retry.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	fk := s.prefix + key
	state, err := s.claim(ctx, fk, o.lockDuration)
	if err != nil {
		return err
	}
	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		if delErr := s.client.Del(context.WithoutCancel(ctx), fk).Err(); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}

	return s.client.Set(context.WithoutCancel(ctx), fk, string(StateCompleted), o.stateTTL).Err()
}
