// Package whatsapp delivers OTP codes as WhatsApp messages through Twilio.
package whatsapp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	channelName = "whatsapp"
	prefix      = "whatsapp:"
)

// ErrNotConfigured is returned by SendOTP when credentials are missing.
var ErrNotConfigured = errors.New("whatsapp: transport is not configured")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Config holds Twilio credentials and the sender number.
type Config struct {
	AccountSID string
	AuthToken  string
	// From is the WhatsApp-enabled sender, with or without the "whatsapp:"
	// prefix.
	From string
	// ValidFor is rendered into the message body as minutes.
	ValidFor time.Duration
}

// WhatsApp is the Twilio WhatsApp transport.
type WhatsApp struct {
	api      messageCreator
	from     string
	validFor string
	trans    i18n.Translator
	ins      instrument.Instrumentation
}

// New builds the transport. With incomplete credentials it is still
// returned, but IsConfigured reports false.
func New(cfg Config, trans i18n.Translator, ins instrument.Instrumentation) *WhatsApp {
	w := &WhatsApp{
		from:     withPrefix(cfg.From),
		validFor: strconv.Itoa(int(cfg.ValidFor / time.Minute)),
		trans:    trans,
		ins:      ins,
	}

	if cfg.AccountSID != "" && cfg.AuthToken != "" && strings.TrimSpace(cfg.From) != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		w.api = client.Api
	}

	return w
}

func withPrefix(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, prefix) {
		return number
	}
	return prefix + number
}

func (w *WhatsApp) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return w.ins.Tracer("otp.outbound.whatsapp").Start(ctx, name)
}

func (w *WhatsApp) IsConfigured() bool {
	return w.api != nil
}

// SendOTP sends the localized code message to phone. The Twilio client has
// no context support, so ctx only bounds the call before it starts.
func (w *WhatsApp) SendOTP(ctx context.Context, phone, code string, lang entity.Language) (*entity.DeliveryResult, error) {
	ctx, span := w.startSpan(ctx, "SendOTP")
	defer span.End()

	if !w.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(w.from)
	params.SetTo(withPrefix(phone))
	params.SetBody(w.trans.T(lang.String(), i18n.WhatsAppOTPBody, code, w.validFor))

	resp, err := w.api.CreateMessage(params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &entity.DeliveryResult{Channel: channelName}
	if resp != nil && resp.Sid != nil {
		result.MessageID = *resp.Sid
		span.SetAttributes(attribute.String("twilio.sid", result.MessageID))
	}

	return result, nil
}
