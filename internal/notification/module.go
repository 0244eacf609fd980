package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/paydota/internal/notification/inbound"
	"github.com/shandysiswandi/paydota/internal/notification/outbound/db"
	"github.com/shandysiswandi/paydota/internal/notification/outbound/email"
	"github.com/shandysiswandi/paydota/internal/notification/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/idempotency"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/mail"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the consumers; without it no consumer is started.
	Ctx         context.Context
	DBConn      *pgxpool.Pool              `validate:"required"`
	Messaging   messaging.Consumer         `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	Translator  i18n.Translator            `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:      db.NewDB(dep.DBConn, dep.Instrument),
		RepoMail:    email.New(dep.Mail, dep.Instrument),
		Idempotency: dep.Idempotency,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		Translator:  dep.Translator,
		Instrument:  dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
