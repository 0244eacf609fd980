//go:build integration

package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis uri: %v", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis uri: %v", err)
	}

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStateTracker_Exec(t *testing.T) {
	// Arrange
	ctx := context.Background()
	tracker := New(newRedis(t), "test:")
	calls := 0
	fn := func(context.Context) error { calls++; return nil }

	// Act
	first := tracker.Exec(ctx, "evt-1", fn)
	second := tracker.Exec(ctx, "evt-1", fn)

	// Assert
	if first != nil {
		t.Fatalf("first Exec: %v", first)
	}
	if !errors.Is(second, ErrAlreadyCompleted) {
		t.Fatalf("second Exec err = %v, want ErrAlreadyCompleted", second)
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times", calls)
	}
}

func TestStateTracker_ExecReleasesOnFailure(t *testing.T) {
	ctx := context.Background()
	tracker := New(newRedis(t), "test:")
	boom := errors.New("smtp down")

	if err := tracker.Exec(ctx, "evt-2", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	retried := false
	if err := tracker.Exec(ctx, "evt-2", func(context.Context) error { retried = true; return nil }); err != nil {
		t.Fatalf("retry Exec: %v", err)
	}
	if !retried {
		t.Fatal("expected retry to run fn")
	}
}
