package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/otp"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const (
	CodeLength    = 6
	Expiry        = 5 * time.Minute
	MaxAttempts   = 3
	SweepInterval = 60 * time.Second
)

type OTPIssuedEvent struct {
	EventID   string
	Phone     string
	Email     string
	Purpose   entity.Purpose
	Language  entity.Language
	ExpiresAt time.Time
	Delivered bool
}

type OTPVerifiedEvent struct {
	EventID    string
	Phone      string
	Email      string
	Purpose    entity.Purpose
	Language   entity.Language
	VerifiedAt time.Time
}

type repoStore interface {
	Put(rec entity.Record)
	Get(key entity.Key) (entity.Record, bool)
	Delete(key entity.Key) bool
	Apply(key entity.Key, fn func(rec *entity.Record) entity.Mutation)
	Keys() []entity.Key
	Records() []entity.Record
}

type repoTransport interface {
	IsConfigured() bool
	SendOTP(ctx context.Context, phone, code string, lang entity.Language) (*entity.DeliveryResult, error)
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishOTPVerified(ctx context.Context, msg OTPVerifiedEvent) error
}

type Usecase struct {
	store         repoStore
	transport     repoTransport
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	code          otp.Generator
	trans         i18n.Translator
	uuid          uid.StringID
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	issuedCounter metric.Int64Counter
	verifyCounter metric.Int64Counter
	sweptCounter  metric.Int64Counter

	sweepMu      sync.Mutex
	sweeping     atomic.Bool
	sweepCancel  context.CancelFunc
	sweepDone    chan struct{}
	sweepTrigger <-chan time.Time
}

type Dependency struct {
	Store         repoStore
	Transport     repoTransport
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	Code          otp.Generator
	Translator    i18n.Translator
	UUID          uid.StringID
	Instrument    instrument.Instrumentation
	// Goroutine runs the sweeper when set; otherwise a plain goroutine is used.
	Goroutine *goroutine.Manager
	// SweepTrigger replaces the sweep ticker. Tests use it to drive sweeps.
	SweepTrigger <-chan time.Time
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		store:         dep.Store,
		transport:     dep.Transport,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		code:          dep.Code,
		trans:         dep.Translator,
		uuid:          dep.UUID,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		sweepTrigger:  dep.SweepTrigger,
	}

	meter := dep.Instrument.Meter("otp.usecase")
	uc.issuedCounter = newCounter(meter, "otp.issued", "Number of OTP codes issued")
	uc.verifyCounter = newCounter(meter, "otp.verifications", "Number of OTP verification attempts by outcome")
	uc.sweptCounter = newCounter(meter, "otp.swept", "Number of OTP records removed by the sweeper")

	return uc
}

// newCounter never returns nil; a failed registration degrades to a noop
// counter.
func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil || c == nil {
		slog.WarnContext(context.Background(), "failed to create otp counter", "counter", name, "error", err)
		return metricnoop.Int64Counter{}
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) msg(lang entity.Language, key string, params ...string) string {
	return s.trans.T(lang.String(), key, params...)
}

func keyOf(phone string, purpose entity.Purpose) entity.Key {
	return entity.Key{Phone: phone, Purpose: purpose}
}
