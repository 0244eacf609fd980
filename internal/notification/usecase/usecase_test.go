package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/idempotency"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeDB struct {
	createErr error
	created   []entity.CreateDeliveryLog
	updated   []entity.UpdateDeliveryLog
}

func (f *fakeDB) CreateDeliveryLog(_ context.Context, dl entity.CreateDeliveryLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, dl)
	return nil
}

func (f *fakeDB) UpdateDeliveryLogStatus(_ context.Context, u entity.UpdateDeliveryLog) error {
	f.updated = append(f.updated, u)
	return nil
}

type fakeMail struct {
	failures int
	calls    int
	to       string
	notice   entity.SecurityNotice
}

func (f *fakeMail) SendNotice(_ context.Context, to string, notice entity.SecurityNotice) error {
	f.calls++
	f.to = to
	f.notice = notice
	if f.calls <= f.failures {
		return errors.New("smtp 421 try again later")
	}
	return nil
}

// memIdempotency mirrors the Redis tracker: completed keys are remembered,
// failed runs are released.
type memIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
	err  error
}

func (m *memIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	if m.done[key] {
		m.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.done[key] = true
	m.mu.Unlock()
	return nil
}

type seqUID struct{ n int64 }

func (s *seqUID) Generate() int64 { s.n++; return s.n }

type harness struct {
	uc    *Usecase
	db    *fakeDB
	mail  *fakeMail
	idemp *memIdempotency
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  notification:\n    email_retry_base_ms: 1\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	catalog, err := i18n.New()
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}

	h := &harness{db: &fakeDB{}, mail: &fakeMail{}, idemp: &memIdempotency{done: map[string]bool{}}}
	h.uc = New(Dependency{
		RepoDB:      h.db,
		RepoMail:    h.mail,
		Idempotency: h.idemp,
		Config:      cfg,
		UID:         &seqUID{},
		Clock:       clock.NewManual(now),
		Validator:   v,
		Translator:  catalog,
		Instrument:  instrument.NewNoop(),
	})
	return h
}

func issued() ConsumeOTPIssuedInput {
	return ConsumeOTPIssuedInput{
		EventID:   "ev-1",
		Phone:     "+966500000001",
		Email:     "user@example.com",
		Purpose:   "password_reset",
		Language:  "en",
		ExpiresAt: now.Add(5 * time.Minute),
		Delivered: true,
	}
}

func TestConsumeOTPIssued_SendsNotice(t *testing.T) {
	// Arrange
	h := newHarness(t)

	// Act
	err := h.uc.ConsumeOTPIssued(context.Background(), issued())

	// Assert
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if h.mail.calls != 1 || h.mail.to != "user@example.com" {
		t.Fatalf("mail calls=%d to=%s", h.mail.calls, h.mail.to)
	}
	if h.mail.notice.Subject != "PayDota: verification code requested" {
		t.Fatalf("subject = %q", h.mail.notice.Subject)
	}
	if !strings.Contains(h.mail.notice.Text, "password reset") || !strings.Contains(h.mail.notice.Text, "*********0001") {
		t.Fatalf("text = %q", h.mail.notice.Text)
	}
	if strings.Contains(h.mail.notice.HTML, "+966500000001") {
		t.Fatal("html must not contain the full phone number")
	}
	if len(h.db.created) != 1 || h.db.created[0].Status != entity.DeliveryStatusQueued || h.db.created[0].TriggerKey != entity.TriggerKeyOTPRequested {
		t.Fatalf("created = %+v", h.db.created)
	}
	if len(h.db.updated) != 1 || h.db.updated[0].Status != entity.DeliveryStatusSent || h.db.updated[0].Attempts != 1 {
		t.Fatalf("updated = %+v", h.db.updated)
	}
}

func TestConsumeOTPVerified_ArabicNotice(t *testing.T) {
	h := newHarness(t)

	err := h.uc.ConsumeOTPVerified(context.Background(), ConsumeOTPVerifiedInput{
		EventID: "ev-2", Phone: "+966500000001", Email: "user@example.com",
		Purpose: "transaction", Language: "ar", VerifiedAt: now,
	})

	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if h.mail.notice.Subject != "PayDota: اكتمل التحقق" {
		t.Fatalf("subject = %q", h.mail.notice.Subject)
	}
	if !strings.Contains(h.mail.notice.HTML, `dir="rtl"`) {
		t.Fatal("arabic notice should render right-to-left")
	}
}

func TestConsumeOTPIssued_SkipsWithoutEmail(t *testing.T) {
	h := newHarness(t)
	in := issued()
	in.Email = ""

	if err := h.uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("consume: %v", err)
	}

	if h.mail.calls != 0 || len(h.db.created) != 0 {
		t.Fatal("nothing should be sent or logged")
	}
}

func TestConsumeOTPIssued_InvalidPayloadIsAcked(t *testing.T) {
	h := newHarness(t)
	in := issued()
	in.Purpose = "withdrawal"

	if err := h.uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("consume: %v", err)
	}

	if h.mail.calls != 0 {
		t.Fatal("invalid payload must not be mailed")
	}
}

func TestConsumeOTPIssued_Deduplicates(t *testing.T) {
	h := newHarness(t)

	for range 3 {
		if err := h.uc.ConsumeOTPIssued(context.Background(), issued()); err != nil {
			t.Fatalf("consume: %v", err)
		}
	}

	if h.mail.calls != 1 {
		t.Fatalf("mail calls = %d", h.mail.calls)
	}
}

func TestConsumeOTPIssued_RetriesThenSucceeds(t *testing.T) {
	h := newHarness(t)
	h.mail.failures = 2

	if err := h.uc.ConsumeOTPIssued(context.Background(), issued()); err != nil {
		t.Fatalf("consume: %v", err)
	}

	if h.mail.calls != 3 || h.db.updated[0].Status != entity.DeliveryStatusSent || h.db.updated[0].Attempts != 3 {
		t.Fatalf("calls=%d updated=%+v", h.mail.calls, h.db.updated)
	}
}

func TestConsumeOTPIssued_RecordsFailure(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.mail.failures = 10

	// Act
	err := h.uc.ConsumeOTPIssued(context.Background(), issued())

	// Assert
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if h.mail.calls != emailMaxTries {
		t.Fatalf("mail calls = %d", h.mail.calls)
	}
	up := h.db.updated[0]
	if up.Status != entity.DeliveryStatusFailed || up.ProviderResponse.GetString("error") == "" {
		t.Fatalf("update = %+v", up)
	}
	if up.NextRetryAt == nil || !up.NextRetryAt.Equal(now.Add(defaultRetryAfter)) {
		t.Fatalf("next_retry_at = %v", up.NextRetryAt)
	}
}

func TestConsumeOTPIssued_ExistingLogIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.db.createErr = goerror.ErrConflict

	if err := h.uc.ConsumeOTPIssued(context.Background(), issued()); err != nil {
		t.Fatalf("consume: %v", err)
	}

	if h.mail.calls != 0 {
		t.Fatal("an already logged event must not be mailed again")
	}
}

func TestConsumeOTPIssued_DatabaseErrorIsReturned(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("connection refused")
	h.db.createErr = boom

	err := h.uc.ConsumeOTPIssued(context.Background(), issued())

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestConsumeOTPIssued_IdempotencyStoreError(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("redis down")
	h.idemp.err = boom

	if err := h.uc.ConsumeOTPIssued(context.Background(), issued()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestMaskPhone(t *testing.T) {
	tests := map[string]string{
		"+966500000001": "*********0001",
		"1234":          "****",
		"":              "",
	}
	for in, want := range tests {
		if got := maskPhone(in); got != want {
			t.Fatalf("maskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}
