package instrument

import (
	"context"
	"testing"
)

func TestMasker_Data(t *testing.T) {
	// Arrange
	m := NewMasker([]string{" Code ", "authorization", ""})
	in := map[string]any{
		"phone": "+966500000000",
		"code":  "123456",
		"nested": []any{
			map[string]any{"CODE": "654321", "purpose": "login"},
		},
	}

	// Act
	out, _ := m.Data(in).(map[string]any)

	// Assert
	if out["code"] != maskedValue {
		t.Fatalf("code = %v, want masked", out["code"])
	}
	if out["phone"] != "+966500000000" {
		t.Fatalf("phone = %v, want untouched", out["phone"])
	}
	nested := out["nested"].([]any)[0].(map[string]any)
	if nested["CODE"] != maskedValue || nested["purpose"] != "login" {
		t.Fatalf("nested = %v", nested)
	}
}

func TestMasker_JSON(t *testing.T) {
	m := NewMasker([]string{"code"})

	got, ok := m.JSON([]byte(`{"code":"111111","purpose":"transaction"}`))
	if !ok {
		t.Fatalf("JSON() ok = false")
	}
	if got.(map[string]any)["code"] != maskedValue {
		t.Fatalf("JSON() = %v", got)
	}

	if _, ok := m.JSON([]byte("plain text")); ok {
		t.Fatalf("JSON(plain) ok = true, want false")
	}
}

func TestCorrelationID(t *testing.T) {
	ctx := SetCorrelationID(context.Background(), "cid-1")

	if got := GetCorrelationID(ctx); got != "cid-1" {
		t.Fatalf("GetCorrelationID() = %q", got)
	}
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID(empty) = %q", got)
	}
}
