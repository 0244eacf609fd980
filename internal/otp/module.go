package otp

import (
	"github.com/shandysiswandi/paydota/internal/otp/inbound"
	"github.com/shandysiswandi/paydota/internal/otp/outbound/memory"
	"github.com/shandysiswandi/paydota/internal/otp/outbound/mq"
	"github.com/shandysiswandi/paydota/internal/otp/outbound/whatsapp"
	"github.com/shandysiswandi/paydota/internal/otp/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	pkgotp "github.com/shandysiswandi/paydota/internal/pkg/otp"
	"github.com/shandysiswandi/paydota/internal/pkg/router"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Translator i18n.Translator            `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Code       pkgotp.Generator           `validate:"required"`
}

// New wires the OTP engine and its HTTP endpoints. The returned usecase owns
// the sweeper; the caller starts it and stops it on shutdown.
func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	transport := whatsapp.New(whatsapp.Config{
		AccountSID: dep.Config.GetString("modules.otp.whatsapp.account_sid"),
		AuthToken:  dep.Config.GetString("modules.otp.whatsapp.auth_token"),
		From:       dep.Config.GetString("modules.otp.whatsapp.from"),
		ValidFor:   usecase.Expiry,
	}, dep.Translator, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Store:         memory.NewStore(),
		Transport:     transport,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Validator:     dep.Validator,
		Config:        dep.Config,
		Clock:         dep.Clock,
		Code:          dep.Code,
		Translator:    dep.Translator,
		UUID:          dep.UUID,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return uc, nil
}
