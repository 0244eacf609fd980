package config

import (
	"errors"
	"testing"
	"time"
)

const sample = `
app:
  tz: Asia/Riyadh
modules:
  otp:
    insecure_dev_fallback: true
messaging:
  kafka:
    brokers: "a:9092, b:9092,,"
  consumers:
    - otp_issued_notification
    - otp_verified_notification
instrument:
  metric_interval_seconds: 15
  secret: aGVsbG8=
`

func newSample(t *testing.T) *Viper {
	t.Helper()

	cfg, err := NewViperFromBytes("yaml", []byte(sample))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	return cfg
}

func TestViper_GetArray(t *testing.T) {
	cfg := newSample(t)

	tests := []struct {
		name string
		key  string
		want []string
	}{
		{name: "comma separated string", key: "messaging.kafka.brokers", want: []string{"a:9092", "b:9092"}},
		{name: "yaml sequence", key: "messaging.consumers", want: []string{"otp_issued_notification", "otp_verified_notification"}},
		{name: "missing key", key: "messaging.nats.url", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.GetArray(tt.key)
			if len(got) != len(tt.want) {
				t.Fatalf("GetArray(%q) = %v, want %v", tt.key, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("GetArray(%q)[%d] = %q, want %q", tt.key, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestViper_ScalarsAndDurations(t *testing.T) {
	cfg := newSample(t)

	if !cfg.GetBool("modules.otp.insecure_dev_fallback") {
		t.Fatalf("GetBool() = false, want true")
	}
	if got := cfg.GetString("app.tz"); got != "Asia/Riyadh" {
		t.Fatalf("GetString() = %q", got)
	}
	if got := cfg.GetSecond("instrument.metric_interval_seconds"); got != 15*time.Second {
		t.Fatalf("GetSecond() = %v", got)
	}
	if got := string(cfg.GetBinary("instrument.secret")); got != "hello" {
		t.Fatalf("GetBinary() = %q", got)
	}
}

func TestViper_EnvOverride(t *testing.T) {
	// Arrange
	t.Setenv("PAYDOTA_APP_TZ", "UTC")
	cfg := newSample(t)

	// Act
	got := cfg.GetString("app.tz")

	// Assert
	if got != "UTC" {
		t.Fatalf("GetString() = %q, want env override UTC", got)
	}
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte("a: 1"))
	if !errors.Is(err, ErrConfigTypeRequired) {
		t.Fatalf("error = %v, want ErrConfigTypeRequired", err)
	}
}
