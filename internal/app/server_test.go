package app

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
)

func newTestApp(t *testing.T, yaml string) *App {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	a := &App{
		config: cfg,
		ins:    instrument.NewNoop(),
		masker: instrument.NewMasker([]string{"code"}),
		uuid:   uid.NewUUID(),
		clock:  clock.NewManual(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
	}
	a.initHTTPServer()

	return a
}

func TestServe_Health(t *testing.T) {
	// Arrange
	a := newTestApp(t, `
app:
  maintenance:
    enabled: true
`)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	errs := a.Serve(l)
	t.Cleanup(func() {
		_ = a.httpServer.Close()
		<-errs
	})

	// Act
	resp, err := (&http.Client{Timeout: 5 * time.Second}).Get("http://" + l.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Time != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestServe_UnknownEndpoint(t *testing.T) {
	a := newTestApp(t, "app: {}")
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	errs := a.Serve(l)
	t.Cleanup(func() {
		_ = a.httpServer.Close()
		<-errs
	})

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Get("http://" + l.Addr().String() + "/api/v1/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
