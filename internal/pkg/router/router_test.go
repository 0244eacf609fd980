package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/paydota/internal/pkg/config"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/instrument"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type envelope struct {
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Error   map[string]string `json:"error"`
}

type okResponse struct {
	Value string `json:"value"`
}

func (okResponse) Message() string { return "done" }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	return NewRouter(Config{
		Config:     cfg,
		UUID:       fixedID("generated-cid"),
		Instrument: instrument.NewNoop(),
		Masker:     instrument.NewMasker([]string{"code"}),
	})
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "app: {}")
	r.POST("/echo", func(req *Request) (any, error) {
		var in struct {
			Code string `json:"code"`
		}
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return okResponse{Value: in.Code}, nil
	})

	// Act
	rec, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"code":"123456"}`)))

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Message != "done" || body.Data["value"] != "123456" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "generated-cid" {
		t.Fatalf("correlation id = %q", got)
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/fail", func(*Request) (any, error) {
		return nil, goerror.NewBusinessFields("Invalid OTP", goerror.CodeUnauthorized, "attempts_left", "2")
	})
	r.GET("/boom", func(*Request) (any, error) {
		return nil, errors.New("raw")
	})

	rec, body := serve(t, r, httptest.NewRequest(http.MethodPost, "/fail", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body.Message != "Invalid OTP" || body.Error["attempts_left"] != "2" {
		t.Fatalf("unexpected body: %+v", body)
	}

	rec, body = serve(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError || body.Message != "Internal server error" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestRouter_DecodeBodyRejectsUnknownFields(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/strict", func(req *Request) (any, error) {
		var in struct {
			Phone string `json:"phone"`
		}
		return nil, req.DecodeBody(&in)
	})

	rec, _ := serve(t, r, httptest.NewRequest(http.MethodPost, "/strict", strings.NewReader(`{"phone":"1","extra":true}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.GET("/panic", func(*Request) (any, error) {
		panic("kaboom")
	})

	rec, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError || body.Message != "Internal server error" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestRouter_Maintenance(t *testing.T) {
	r := newTestRouter(t, `
app:
  maintenance:
    endpoints: ["/api/v1/otp/send"]
`)
	ok := func(*Request) (any, error) { return okResponse{}, nil }
	r.POST("/api/v1/otp/send", ok)
	r.POST("/api/v1/otp/verify", ok)

	rec, _ := serve(t, r, httptest.NewRequest(http.MethodPost, "/api/v1/otp/send", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("send status = %d, want 503", rec.Code)
	}

	rec, _ = serve(t, r, httptest.NewRequest(http.MethodPost, "/api/v1/otp/verify", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, want 200", rec.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := newTestRouter(t, "app: {}")

	rec, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound || body.Message != "endpoint not found" {
		t.Fatalf("unexpected response %d %+v", rec.Code, body)
	}
}

func TestRequest_Language(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"ar":                   "ar",
		"ar-SA,en;q=0.8":       "ar",
		"EN-us;q=0.9, ar;q=.5": "en",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		if got := (&Request{Request: req}).Language(); got != want {
			t.Fatalf("Language(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("clientIP = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "garbage")
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("clientIP fallback = %q", got)
	}
}
