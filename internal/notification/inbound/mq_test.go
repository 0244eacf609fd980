package inbound

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/paydota/internal/notification/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/shared/event"
)

type fakeMessage struct {
	body    []byte
	headers map[string]string
}

func (m fakeMessage) ID() string                 { return "m-1" }
func (m fakeMessage) Source() string             { return "otp_issued" }
func (m fakeMessage) Body() []byte               { return m.body }
func (m fakeMessage) Header(key string) string   { return m.headers[key] }
func (m fakeMessage) Headers() map[string]string { return m.headers }
func (m fakeMessage) Ack(context.Context) error  { return nil }
func (m fakeMessage) Nack(context.Context) error { return nil }

type fakeUsecase struct {
	issued   *usecase.ConsumeOTPIssuedInput
	verified *usecase.ConsumeOTPVerifiedInput
	cID      string
	err      error
}

func (f *fakeUsecase) ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error {
	f.issued = &in
	f.cID = instrument.GetCorrelationID(ctx)
	return f.err
}

func (f *fakeUsecase) ConsumeOTPVerified(ctx context.Context, in usecase.ConsumeOTPVerifiedInput) error {
	f.verified = &in
	f.cID = instrument.GetCorrelationID(ctx)
	return f.err
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func TestMQHandler_OTPIssuedNotification(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedID("generated"), ins: instrument.NewNoop()}
	msg := fakeMessage{
		body:    []byte(`{"event_id":"ev-1","phone":"+1","email":"a@b.co","purpose":"login","language":"ar","expires_at":"2026-03-01T10:05:00Z","delivered":true}`),
		headers: map[string]string{"cID": "cid-from-publisher"},
	}

	// Act
	err := h.OTPIssuedNotification(context.Background(), msg)

	// Assert
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if uc.issued == nil || uc.issued.EventID != "ev-1" || uc.issued.Language != "ar" || !uc.issued.Delivered {
		t.Fatalf("input = %+v", uc.issued)
	}
	if !uc.issued.ExpiresAt.Equal(time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)) {
		t.Fatalf("expires_at = %v", uc.issued.ExpiresAt)
	}
	if uc.cID != "cid-from-publisher" {
		t.Fatalf("correlation id = %q", uc.cID)
	}
}

func TestMQHandler_GeneratesCorrelationID(t *testing.T) {
	uc := &fakeUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedID("generated"), ins: instrument.NewNoop()}

	err := h.OTPVerifiedNotification(context.Background(), fakeMessage{body: []byte(`{"event_id":"ev-2"}`)})

	if err != nil || uc.cID != "generated" || uc.verified.EventID != "ev-2" {
		t.Fatalf("err=%v cid=%q in=%+v", err, uc.cID, uc.verified)
	}
}

func TestMQHandler_MalformedBodyIsAcked(t *testing.T) {
	uc := &fakeUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedID("x"), ins: instrument.NewNoop()}

	if err := h.OTPIssuedNotification(context.Background(), fakeMessage{body: []byte("{not json")}); err != nil {
		t.Fatalf("err = %v", err)
	}
	if uc.issued != nil {
		t.Fatal("usecase must not be called")
	}
}

func TestMQHandler_UsecaseErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	h := &MQHandler{uc: &fakeUsecase{err: boom}, uuid: fixedID("x"), ins: instrument.NewNoop()}

	if err := h.OTPIssuedNotification(context.Background(), fakeMessage{body: []byte(`{}`)}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

type recordingConsumer struct {
	mu      sync.Mutex
	sources []string
	done    chan struct{}
}

func (r *recordingConsumer) Consume(_ context.Context, source string, _ messaging.Handler, _ ...messaging.ConsumeOption) error {
	r.mu.Lock()
	r.sources = append(r.sources, source)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func TestRegisterMQConsumer_OnlyEnabled(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  notification:\n    consumer_names: [otp_verified_notification]\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	rc := &recordingConsumer{done: make(chan struct{}, 2)}
	routine := goroutine.NewManager(4)

	// Act
	RegisterMQConsumer(context.Background(), cfg, routine, rc, fixedID("x"), &fakeUsecase{}, instrument.NewNoop())
	<-rc.done
	if err := routine.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	// Assert
	if len(rc.sources) != 1 || rc.sources[0] != event.OTPVerifiedDestination {
		t.Fatalf("sources = %v", rc.sources)
	}
}
