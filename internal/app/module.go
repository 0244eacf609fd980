package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/paydota/internal/notification"
	"github.com/shandysiswandi/paydota/internal/otp"
)

func (a *App) initModules() {
	uc, err := otp.New(otp.Dependency{
		Router:     a.router,
		Goroutine:  a.goroutine,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Translator: a.translator,
		UUID:       a.uuid,
		Clock:      a.clock,
		Code:       a.code,
	})
	if err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
	uc.Start(a.ctx)
	a.otp = uc

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Mail:        a.mail,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Translator:  a.translator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
