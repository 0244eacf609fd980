package event

import "time"

const OTPIssuedDestination string = "otp_issued"
const OTPIssuedConsumerNotification string = "otp_issued_notification"

// OTPIssuedMessage never carries the code itself.
type OTPIssuedMessage struct {
	EventID   string    `json:"event_id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Purpose   string    `json:"purpose"`
	Language  string    `json:"language"`
	ExpiresAt time.Time `json:"expires_at"`
	Delivered bool      `json:"delivered"`
}
