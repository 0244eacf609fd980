//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/valueobject"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func migrationFile(t *testing.T) string {
	t.Helper()
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "0001_notification_delivery_logs.up.sql")
}

func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	schema, err := os.ReadFile(migrationFile(t))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("paydota"),
		tcpostgres.WithUsername("paydota"),
		tcpostgres.WithPassword("paydota"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func TestDB_DeliveryLogLifecycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := NewDB(newPool(t), instrument.NewNoop())
	create := entity.CreateDeliveryLog{
		ID:         1001,
		EventID:    "ev-1",
		TriggerKey: entity.TriggerKeyOTPRequested,
		Channel:    entity.ChannelEmail,
		Recipient:  "user@example.com",
		Status:     entity.DeliveryStatusQueued,
		Data:       valueobject.JSONMap{"purpose": "login"},
	}

	// Act
	if err := db.CreateDeliveryLog(ctx, create); err != nil {
		t.Fatalf("create: %v", err)
	}
	dupErr := db.CreateDeliveryLog(ctx, create)
	retry := time.Now().Add(2 * time.Minute).UTC().Truncate(time.Second)
	if err := db.UpdateDeliveryLogStatus(ctx, entity.UpdateDeliveryLog{
		ID:               1001,
		Status:           entity.DeliveryStatusFailed,
		Attempts:         3,
		ProviderResponse: valueobject.JSONMap{"error": "smtp 421"},
		NextRetryAt:      &retry,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := db.GetDeliveryLog(ctx, "ev-1", entity.ChannelEmail)

	// Assert
	if !errors.Is(dupErr, goerror.ErrConflict) {
		t.Fatalf("duplicate err = %v", dupErr)
	}
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != entity.DeliveryStatusFailed || got.Attempts != 3 || got.TriggerKey != entity.TriggerKeyOTPRequested {
		t.Fatalf("log = %+v", got)
	}
	if got.ProviderResponse.GetString("error") != "smtp 421" || got.Data.GetString("purpose") != "login" {
		t.Fatalf("json columns = %v %v", got.ProviderResponse, got.Data)
	}
	if got.NextRetryAt == nil || !got.NextRetryAt.Equal(retry) {
		t.Fatalf("next_retry_at = %v", got.NextRetryAt)
	}
}

func TestDB_UpdateMissingRow(t *testing.T) {
	db := NewDB(newPool(t), instrument.NewNoop())

	err := db.UpdateDeliveryLogStatus(context.Background(), entity.UpdateDeliveryLog{ID: 1, Status: entity.DeliveryStatusSent})

	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
