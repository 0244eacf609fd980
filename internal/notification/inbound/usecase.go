package inbound

import (
	"context"

	"github.com/shandysiswandi/paydota/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
	ConsumeOTPVerified(ctx context.Context, in usecase.ConsumeOTPVerifiedInput) error
}
