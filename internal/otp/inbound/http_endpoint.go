package inbound

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/paydota/internal/otp/entity"
	"github.com/shandysiswandi/paydota/internal/otp/usecase"
	"github.com/shandysiswandi/paydota/internal/pkg/goerror"
	"github.com/shandysiswandi/paydota/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP engine over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues and delivers a code.
// @Summary Send OTP
// @Description Issues a 6-digit code for the phone and purpose, replacing any previous one, and delivers it over WhatsApp.
// @Tags OTP
// @Accept json
// @Produce json
// @Param Accept-Language header string false "ar or en"
// @Param request body SendOTPRequest true "Send payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 503 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/send [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Phone:    req.Phone,
		Purpose:  req.Purpose,
		Email:    req.Email,
		Language: lo.CoalesceOrEmpty(req.Language, r.Language()),
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, goerror.NewBusiness(resp.Message, goerror.CodeUnavailable)
	}

	return SendOTPResponse{msg: resp.Message, Success: true, ExpiresIn: resp.ExpiresIn}, nil
}

// VerifyOTP checks a code.
// @Summary Verify OTP
// @Description Verifies a code. Each wrong code counts as an attempt; the third wrong code removes the OTP.
// @Tags OTP
// @Accept json
// @Produce json
// @Param Accept-Language header string false "ar or en"
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Code verified"
// @Failure 401 {object} router.errorResponse "Invalid code" example:{"message":"Invalid OTP","error":{"attempts_left":"2"}}
// @Failure 404 {object} router.errorResponse "Not found or expired"
// @Failure 409 {object} router.errorResponse "Already used"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Attempts exhausted"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Phone:    req.Phone,
		Code:     req.Code,
		Purpose:  req.Purpose,
		Language: lo.CoalesceOrEmpty(req.Language, r.Language()),
	})
	if err != nil {
		return nil, err
	}

	if err := verifyError(resp); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{msg: resp.Message, Verified: true}, nil
}

func verifyError(resp *usecase.VerifyOTPOutput) error {
	var kv []string
	if resp.AttemptsLeft != nil {
		kv = []string{"attempts_left", strconv.Itoa(*resp.AttemptsLeft)}
	}

	switch resp.Reason {
	case entity.ReasonVerified:
		return nil
	case entity.ReasonNotFound, entity.ReasonExpired:
		return goerror.NewBusiness(resp.Message, goerror.CodeNotFound)
	case entity.ReasonAlreadyUsed:
		return goerror.NewBusiness(resp.Message, goerror.CodeConflict)
	case entity.ReasonAttemptsExhausted:
		return goerror.NewBusinessFields(resp.Message, goerror.CodeTooManyRequest, kv...)
	case entity.ReasonCodeMismatch:
		return goerror.NewBusinessFields(resp.Message, goerror.CodeUnauthorized, kv...)
	default:
		return goerror.NewBusiness(resp.Message, goerror.CodeInternal)
	}
}

// ActiveOTP reports whether a usable code exists.
// @Summary Check active OTP
// @Tags OTP
// @Produce json
// @Param phone query string true "Phone"
// @Param purpose query string true "Purpose"
// @Success 200 {object} router.successResponse{data=ActiveOTPResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/active [get]
func (h *HTTPEndpoint) ActiveOTP(r *router.Request) (any, error) {
	phone, purpose, err := parseKey(r.GetQuery("phone"), r.GetQuery("purpose"))
	if err != nil {
		return nil, err
	}

	resp := ActiveOTPResponse{Active: h.uc.HasActiveOTP(r.Context(), phone, purpose)}
	if resp.Active {
		if exp, ok := h.uc.GetOTPExpiryTime(r.Context(), phone, purpose); ok {
			resp.ExpiresAt = &exp
		}
	}

	return resp, nil
}

// CancelOTP removes the current code.
// @Summary Cancel OTP
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body CancelOTPRequest true "Cancel payload"
// @Success 200 {object} router.successResponse{data=CancelOTPResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/cancel [post]
func (h *HTTPEndpoint) CancelOTP(r *router.Request) (any, error) {
	var req CancelOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	phone, purpose, err := parseKey(req.Phone, req.Purpose)
	if err != nil {
		return nil, err
	}

	return CancelOTPResponse{Cancelled: h.uc.CancelOTP(r.Context(), phone, purpose)}, nil
}

// Stats summarizes active codes.
// @Summary OTP statistics
// @Tags OTP
// @Produce json
// @Success 200 {object} router.successResponse{data=StatsResponse}
// @Router /api/v1/otp/stats [get]
func (h *HTTPEndpoint) Stats(r *router.Request) (any, error) {
	stats := h.uc.GetStats(r.Context())

	return StatsResponse{
		TotalActive: stats.TotalActive,
		ByPurpose: lo.MapKeys(stats.ByPurpose, func(_ int, p entity.Purpose) string {
			return p.String()
		}),
		OldestOTP: stats.OldestOTP,
	}, nil
}

func parseKey(phone, purpose string) (string, entity.Purpose, error) {
	phone = strings.TrimSpace(phone)
	p := entity.PurposeFromString(purpose)

	var kv []string
	if phone == "" {
		kv = append(kv, "phone", "phone is a required field")
	}
	if p == entity.PurposeUnknown {
		kv = append(kv, "purpose", "purpose must be one of login, registration, password_reset, phone_verification, transaction")
	}
	if len(kv) > 0 {
		return "", entity.PurposeUnknown, goerror.NewInvalidInput(nil, kv...)
	}

	return phone, p, nil
}
