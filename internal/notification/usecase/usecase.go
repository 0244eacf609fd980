package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/paydota/internal/notification/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/idempotency"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateDeliveryLog(ctx context.Context, dl entity.CreateDeliveryLog) error
	UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) error
}

type repoMail interface {
	SendNotice(ctx context.Context, to string, notice entity.SecurityNotice) error
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	idemp     idempotency.Idempotency
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	trans     i18n.Translator
	ins       instrument.Instrumentation

	emailCounter metric.Int64Counter
}

type Dependency struct {
	RepoDB      repoDB
	RepoMail    repoMail
	Idempotency idempotency.Idempotency
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Validator   validator.Validator
	Translator  i18n.Translator
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	uc := &Usecase{
		repoDB:    dep.RepoDB,
		repoMail:  dep.RepoMail,
		idemp:     dep.Idempotency,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		trans:     dep.Translator,
		ins:       dep.Instrument,
	}

	var err error
	uc.emailCounter, err = dep.Instrument.Meter("notification.usecase").Int64Counter(
		"notification.email.deliveries",
		metric.WithDescription("Number of security notice emails by final status"),
	)
	if err != nil {
		slog.Warn("failed to create notification.email.deliveries counter", "error", err)
	}

	return uc
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
