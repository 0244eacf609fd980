package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/otp/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/router"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)

	HasActiveOTP(ctx context.Context, phone string, purpose entity.Purpose) bool
	GetOTPExpiryTime(ctx context.Context, phone string, purpose entity.Purpose) (time.Time, bool)
	CancelOTP(ctx context.Context, phone string, purpose entity.Purpose) bool
	GetStats(ctx context.Context) entity.Stats
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/send", end.SendOTP)
	r.POST("/api/v1/otp/verify", end.VerifyOTP)
	r.POST("/api/v1/otp/cancel", end.CancelOTP)

	r.GET("/api/v1/otp/active", end.ActiveOTP)
	r.GET("/api/v1/otp/stats", end.Stats)
}
