package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/pkg/i18n"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func newTransport(t *testing.T, api messageCreator) *WhatsApp {
	t.Helper()

	catalog, err := i18n.New()
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}
	w := New(Config{From: "+14155238886", ValidFor: 5 * time.Minute}, catalog, instrument.NewNoop())
	w.api = api
	return w
}

func TestWhatsApp_SendOTP(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	w := newTransport(t, api)

	// Act
	res, err := w.SendOTP(context.Background(), "+966500000001", "482913", entity.LanguageEN)

	// Assert
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if res.MessageID != "SM123" || res.Channel != "whatsapp" {
		t.Fatalf("result = %+v", res)
	}
	if *api.params.To != "whatsapp:+966500000001" || *api.params.From != "whatsapp:+14155238886" {
		t.Fatalf("to=%s from=%s", *api.params.To, *api.params.From)
	}
	if body := *api.params.Body; !strings.Contains(body, "482913") || !strings.Contains(body, "5 minutes") {
		t.Fatalf("body = %q", body)
	}
}

func TestWhatsApp_SendOTPArabicBody(t *testing.T) {
	api := &fakeAPI{}
	w := newTransport(t, api)

	if _, err := w.SendOTP(context.Background(), "+966500000001", "482913", entity.LanguageAR); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}

	if body := *api.params.Body; !strings.Contains(body, "482913") || !strings.Contains(body, "رمز التحقق") {
		t.Fatalf("body = %q", body)
	}
}

func TestWhatsApp_SendOTPError(t *testing.T) {
	boom := errors.New("twilio 400")
	w := newTransport(t, &fakeAPI{err: boom})

	if _, err := w.SendOTP(context.Background(), "+1", "123456", entity.LanguageEN); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestWhatsApp_NotConfigured(t *testing.T) {
	catalog, err := i18n.New()
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}
	w := New(Config{AccountSID: "AC1"}, catalog, instrument.NewNoop())

	if w.IsConfigured() {
		t.Fatal("expected unconfigured transport")
	}
	if _, err := w.SendOTP(context.Background(), "+1", "123456", entity.LanguageEN); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
