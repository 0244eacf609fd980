package inbound

import "time"

type SendOTPRequest struct {
	Phone    string `json:"phone"`
	Purpose  string `json:"purpose"`
	Email    string `json:"email,omitempty"`
	Language string `json:"language,omitempty"`
}

type SendOTPResponse struct {
	msg       string
	Success   bool `json:"success"`
	ExpiresIn int  `json:"expires_in"`
}

func (r SendOTPResponse) Message() string { return r.msg }

type VerifyOTPRequest struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Purpose  string `json:"purpose"`
	Language string `json:"language,omitempty"`
}

type VerifyOTPResponse struct {
	msg      string
	Verified bool `json:"verified"`
}

func (r VerifyOTPResponse) Message() string { return r.msg }

type ActiveOTPResponse struct {
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type CancelOTPRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type CancelOTPResponse struct {
	Cancelled bool `json:"cancelled"`
}

func (r CancelOTPResponse) Message() string {
	if r.Cancelled {
		return "OTP cancelled"
	}
	return "No OTP to cancel"
}

type StatsResponse struct {
	TotalActive int            `json:"total_active"`
	ByPurpose   map[string]int `json:"by_purpose"`
	OldestOTP   *time.Time     `json:"oldest_otp"`
}
