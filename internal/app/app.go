package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	otpusecase "github.com/shandysiswandi/paydota/internal/otp/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/clock"
	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goroutine"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/idempotency"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/shandysiswandi/paydota/internal/pkg/mail"
	"github.com/shandysiswandi/paydota/internal/pkg/messaging"
	"github.com/shandysiswandi/paydota/internal/pkg/otp"
	"github.com/shandysiswandi/paydota/internal/pkg/router"
	"github.com/shandysiswandi/paydota/internal/pkg/uid"
	"github.com/shandysiswandi/paydota/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation
	masker *instrument.Masker

	// libraries
	goroutine  *goroutine.Manager
	validator  validator.Validator
	translator i18n.Translator
	clock      clock.Clocker
	uid        uid.NumberID
	uuid       uid.StringID
	code       otp.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	// modules
	otp *otpusecase.Usecase

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
